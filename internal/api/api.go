// Package api exposes the tenant pool and tenant-scoped cache over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/container"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/pending"
	"github.com/dmitrymomot/tenantkit/pkg/tenancy"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// TenantHeader carries the tenant id on tenant-scoped routes.
const TenantHeader = "X-Tenant-ID"

type api struct {
	manager   *pending.Manager
	root      *container.Container
	logger    *slog.Logger
	probes    map[string]httpserver.Probe
	gatherer  prometheus.Gatherer
	tenantTTL time.Duration
}

// Option configures the router.
type Option func(*api)

// WithLogger sets the logger used by handlers and the tenancy middleware.
func WithLogger(l *slog.Logger) Option {
	return func(a *api) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithProbe adds a readiness probe reported under name.
func WithProbe(name string, probe httpserver.Probe) Option {
	return func(a *api) {
		if probe != nil {
			a.probes[name] = probe
		}
	}
}

// WithGatherer serves metrics from g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(a *api) {
		a.gatherer = g
	}
}

// WithTenantCacheTTL sets how long resolved tenants are served from memory.
// A non-positive ttl disables the tenant cache.
func WithTenantCacheTTL(ttl time.Duration) Option {
	return func(a *api) {
		a.tenantTTL = ttl
	}
}

// New builds the router. root must have the shared cache.Store bound on cache.Slot;
// every tenant-scoped request works on a scope of it.
func New(manager *pending.Manager, root *container.Container, opts ...Option) http.Handler {
	a := &api{
		manager:   manager,
		root:      root,
		logger:    slog.Default(),
		probes:    make(map[string]httpserver.Probe),
		tenantTTL: cache.DefaultProviderCacheTTL,
	}
	for _, opt := range opts {
		opt(a)
	}

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(a.logger, a.probes))
	if a.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/tenants", a.signup)
	r.Get("/pool", a.poolStatus)

	var provider tenant.Provider = pending.Provider(manager.Store())
	if a.tenantTTL > 0 {
		provider = cache.NewProviderCache(provider, cache.DefaultProviderCacheSize, a.tenantTTL)
	}

	r.Group(func(r chi.Router) {
		r.Use(tenancy.Middleware(a.root, tenancy.NewHeaderResolver(TenantHeader), provider, a.buildTenancy,
			tenancy.WithErrorHandler(a.tenancyError),
			tenancy.WithMiddlewareLogger(a.logger),
		))
		r.Use(tenancy.RequireTenant(a.tenancyError))

		r.Get("/cache/{key}", a.getCache)
		r.Put("/cache/{key}", a.putCache)
		r.Delete("/cache/{key}", a.deleteCache)
		r.Delete("/cache", a.flushCache)
	})

	return r
}

// buildTenancy wires the cache switcher to the request's scoped container.
// The shared store is resolved through acc first, so a missing binding fails the
// request before any tenant context is entered.
func (a *api) buildTenancy(c *container.Container, acc *container.Accessors) (*tenancy.Tenancy, error) {
	if _, err := container.AccessorFor[cache.Store](acc, cache.Slot); err != nil {
		return nil, err
	}
	return tenancy.New(
		tenancy.WithLogger(a.logger),
		tenancy.WithBootstrappers(cache.NewBootstrapper(c, acc, a.logger)),
	), nil
}
