package tenancy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Bootstrapper switches one concern (cache, storage, queue...) into a tenant's
// context and back.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, t *tenant.Tenant) error
	Revert(ctx context.Context) error
}

// Tenancy runs a set of bootstrappers for one execution unit. Bootstrappers run in
// registration order on Initialize and in reverse order on End.
type Tenancy struct {
	mu            sync.Mutex
	bootstrappers []Bootstrapper
	current       *tenant.Tenant
	logger        *slog.Logger
}

// Option configures a Tenancy.
type Option func(*Tenancy)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tenancy) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithBootstrappers appends bootstrappers, skipping nil ones.
func WithBootstrappers(bs ...Bootstrapper) Option {
	return func(t *Tenancy) {
		for _, b := range bs {
			if b != nil {
				t.bootstrappers = append(t.bootstrappers, b)
			}
		}
	}
}

// New creates a Tenancy.
func New(opts ...Option) *Tenancy {
	t := &Tenancy{logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Current returns the tenant whose context is active, if any.
func (tn *Tenancy) Current() (*tenant.Tenant, bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	return tn.current, tn.current != nil
}

// Initialized reports whether a tenant context is active.
func (tn *Tenancy) Initialized() bool {
	_, ok := tn.Current()
	return ok
}

// Initialize enters t's context. Initializing the tenant that is already active is a
// no-op; a different tenant ends the current context first. If a bootstrapper fails,
// the ones that already ran are reverted and the error is returned.
func (tn *Tenancy) Initialize(ctx context.Context, t *tenant.Tenant) error {
	if t == nil {
		return ErrNilTenant
	}

	tn.mu.Lock()
	defer tn.mu.Unlock()

	if tn.current != nil {
		if tn.current.ID == t.ID {
			return nil
		}
		if err := tn.end(ctx); err != nil {
			return err
		}
	}

	for i, b := range tn.bootstrappers {
		if err := b.Bootstrap(ctx, t); err != nil {
			rollbackErr := revertAll(ctx, tn.bootstrappers[:i])
			tn.logger.ErrorContext(ctx, "tenancy initialization failed",
				logger.TenantID(t.ID),
				logger.Error(err),
			)
			return errors.Join(wrapBootstrap(err), rollbackErr)
		}
	}

	tn.current = t
	tn.logger.InfoContext(ctx, "tenancy initialized", logger.TenantID(t.ID))
	return nil
}

// End leaves the active tenant context. Ending without an active context is a no-op.
func (tn *Tenancy) End(ctx context.Context) error {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	return tn.end(ctx)
}

func (tn *Tenancy) end(ctx context.Context) error {
	if tn.current == nil {
		return nil
	}
	id := tn.current.ID
	err := revertAll(ctx, tn.bootstrappers)
	tn.current = nil
	if err != nil {
		tn.logger.ErrorContext(ctx, "tenancy end failed",
			logger.TenantID(id),
			logger.Error(err),
		)
		return err
	}
	tn.logger.InfoContext(ctx, "tenancy ended", logger.TenantID(id))
	return nil
}

// Run executes fn inside t's context and always ends the context afterwards.
// A context that was active before Run is not restored.
func (tn *Tenancy) Run(ctx context.Context, t *tenant.Tenant, fn func(ctx context.Context) error) error {
	if err := tn.Initialize(ctx, t); err != nil {
		return err
	}
	fnErr := fn(tenant.WithTenant(ctx, t))
	return errors.Join(fnErr, tn.End(ctx))
}

// revertAll reverts bs in reverse order and joins every failure.
func revertAll(ctx context.Context, bs []Bootstrapper) error {
	var errs []error
	for i := len(bs) - 1; i >= 0; i-- {
		if err := bs[i].Revert(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRevertFailed, errors.Join(errs...))
}

func wrapBootstrap(err error) error {
	if errors.Is(err, ErrBootstrapFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
}
