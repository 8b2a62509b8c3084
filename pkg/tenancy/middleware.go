package tenancy

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenantkit/pkg/container"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// BuildFunc creates the Tenancy for one request from its scoped container and the
// accessor cache layered on it. Switchers built here should invalidate acc.
type BuildFunc func(c *container.Container, acc *container.Accessors) (*Tenancy, error)

// ErrorHandler writes the response for a failed tenant resolution.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	errorHandler ErrorHandler
	skipPaths    []string
	logger       *slog.Logger
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution.
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithMiddlewareLogger sets the logger used by the middleware.
func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		http.Error(w, "Invalid tenant identifier", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Middleware enters the resolved tenant's context for the duration of each request.
//
// Every request gets its own scope of root, so rebinding slots for one tenant never
// reaches requests running concurrently for another. The tenant, the scoped container
// with its accessor cache and the Tenancy are stored in the request context. Requests without an identifier
// pass through untouched. Pending and provisioning tenants are answered as not found.
func Middleware(root *container.Container, resolve Resolver, provider tenant.Provider, build BuildFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if identifier == "" {
				next.ServeHTTP(w, r)
				return
			}

			t, err := provider.GetByIdentifier(r.Context(), identifier)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if t == nil || t.State() != tenant.StateActive {
				cfg.errorHandler(w, r, tenant.ErrTenantNotFound)
				return
			}

			scope := root.Scope()
			acc := container.NewAccessors(scope)
			tn, err := build(scope, acc)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			ctx := r.Context()
			if err := tn.Initialize(ctx, t); err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			defer func() {
				if err := tn.End(ctx); err != nil {
					cfg.logger.ErrorContext(ctx, "failed to end tenancy",
						logger.TenantID(t.ID),
						logger.Error(err),
					)
				}
			}()

			ctx = tenant.WithTenant(ctx, t)
			ctx = container.WithContainer(ctx, scope)
			ctx = container.WithAccessors(ctx, acc)
			ctx = WithTenancy(ctx, tn)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests that carry no tenant in context.
func RequireTenant(h ErrorHandler) func(http.Handler) http.Handler {
	if h == nil {
		h = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := tenant.FromContext(r.Context()); !ok {
				h(w, r, tenant.ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
