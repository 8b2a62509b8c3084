package tenancy

import "context"

type contextKey struct{}

// WithTenancy returns a context carrying tn.
func WithTenancy(ctx context.Context, tn *Tenancy) context.Context {
	return context.WithValue(ctx, contextKey{}, tn)
}

// FromContext returns the Tenancy carried by ctx.
func FromContext(ctx context.Context) (*Tenancy, bool) {
	tn, ok := ctx.Value(contextKey{}).(*Tenancy)
	return tn, ok && tn != nil
}
