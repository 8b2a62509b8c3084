package container

import "context"

type contextKey struct{}

// WithContainer returns a context carrying c as the current registry.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the container carried by ctx.
func FromContext(ctx context.Context) (*Container, bool) {
	c, ok := ctx.Value(contextKey{}).(*Container)
	return c, ok && c != nil
}

// ResolveFromContext resolves slot from the container carried by ctx.
func ResolveFromContext[T any](ctx context.Context, slot string) (T, error) {
	c, ok := FromContext(ctx)
	if !ok {
		var zero T
		return zero, ErrNoContainerInContext
	}
	return Resolve[T](c, slot)
}

type accessorsContextKey struct{}

// WithAccessors returns a context carrying a as the accessor cache of the current registry.
func WithAccessors(ctx context.Context, a *Accessors) context.Context {
	return context.WithValue(ctx, accessorsContextKey{}, a)
}

// AccessorsFromContext returns the accessor cache carried by ctx.
func AccessorsFromContext(ctx context.Context) (*Accessors, bool) {
	a, ok := ctx.Value(accessorsContextKey{}).(*Accessors)
	return a, ok && a != nil
}

// AccessorFromContext resolves slot through the accessor cache carried by ctx.
// Without one it resolves from the container carried by ctx.
func AccessorFromContext[T any](ctx context.Context, slot string) (T, error) {
	if a, ok := AccessorsFromContext(ctx); ok {
		return AccessorFor[T](a, slot)
	}
	return ResolveFromContext[T](ctx, slot)
}
