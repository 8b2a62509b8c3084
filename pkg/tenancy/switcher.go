package tenancy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/container"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Registry is the part of a service registry the switcher rebinds.
type Registry interface {
	Get(slot string) (any, error)
	Rebind(slot string, factory container.Factory)
}

// AccessorCache is a memoizing accessor layer that must be invalidated around a rebind.
type AccessorCache interface {
	Invalidate(slot string)
}

// ScopedFactory derives the tenant-scoped instance from the shared one.
type ScopedFactory func(original any, t *tenant.Tenant) (any, error)

// Switcher swaps the instance bound to one registry slot for a tenant-scoped one
// and restores the shared instance afterwards.
//
// A Switcher belongs to a single execution unit and its registry. It holds at most
// one saved original: entering again without leaving re-scopes the slot for the new
// tenant but keeps the first original.
type Switcher struct {
	slot      string
	registry  Registry
	accessors AccessorCache
	factory   ScopedFactory
	logger    *slog.Logger

	mu       sync.Mutex
	original any
	saved    bool
}

// SwitcherOption configures a Switcher.
type SwitcherOption func(*Switcher)

// WithAccessors sets the accessor cache invalidated around each rebind.
func WithAccessors(a AccessorCache) SwitcherOption {
	return func(s *Switcher) {
		if a != nil {
			s.accessors = a
		}
	}
}

// WithSwitcherLogger sets the logger used by the switcher.
func WithSwitcherLogger(l *slog.Logger) SwitcherOption {
	return func(s *Switcher) {
		if l != nil {
			s.logger = l
		}
	}
}

type noopAccessors struct{}

func (noopAccessors) Invalidate(string) {}

// NewSwitcher creates a switcher for slot in registry. Panics when registry or
// factory is nil, since that is a wiring mistake.
func NewSwitcher(slot string, registry Registry, factory ScopedFactory, opts ...SwitcherOption) *Switcher {
	if registry == nil {
		panic("tenancy: registry cannot be nil")
	}
	if factory == nil {
		panic("tenancy: scoped factory cannot be nil")
	}
	s := &Switcher{
		slot:      slot,
		registry:  registry,
		factory:   factory,
		accessors: noopAccessors{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slot returns the registry slot the switcher manages.
func (s *Switcher) Slot() string {
	return s.slot
}

// Active reports whether a tenant context is currently entered.
func (s *Switcher) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// Enter binds a tenant-scoped instance to the slot.
func (s *Switcher) Enter(ctx context.Context, t *tenant.Tenant) error {
	if t == nil {
		return ErrNilTenant
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessors.Invalidate(s.slot)

	original := s.original
	if !s.saved {
		current, err := s.registry.Get(s.slot)
		if err != nil {
			return fmt.Errorf("%w: capture %q: %w", ErrBootstrapFailed, s.slot, err)
		}
		original = current
	}

	scoped, err := s.factory(original, t)
	if err != nil {
		return fmt.Errorf("%w: scope %q for tenant %s: %w", ErrBootstrapFailed, s.slot, t.ID, err)
	}

	s.original = original
	s.saved = true
	s.registry.Rebind(s.slot, container.Value(scoped))
	s.accessors.Invalidate(s.slot)

	s.logger.DebugContext(ctx, "tenant context entered",
		logger.Slot(s.slot),
		logger.TenantID(t.ID),
	)
	return nil
}

// Leave restores the shared instance captured by the first Enter.
func (s *Switcher) Leave(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessors.Invalidate(s.slot)

	if !s.saved {
		return fmt.Errorf("%w: slot %q", ErrUnbalancedContextExit, s.slot)
	}

	s.registry.Rebind(s.slot, container.Value(s.original))
	s.accessors.Invalidate(s.slot)
	s.original = nil
	s.saved = false

	s.logger.DebugContext(ctx, "tenant context left", logger.Slot(s.slot))
	return nil
}

// Bootstrap implements Bootstrapper.
func (s *Switcher) Bootstrap(ctx context.Context, t *tenant.Tenant) error {
	return s.Enter(ctx, t)
}

// Revert implements Bootstrapper.
func (s *Switcher) Revert(ctx context.Context) error {
	return s.Leave(ctx)
}
