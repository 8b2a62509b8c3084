package pending

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Kind identifies a pool lifecycle notification.
type Kind string

const (
	// CreatingPendingTenant fires after the record is created, before it is marked pending.
	// Provisioning work (schema setup, seeding) belongs here.
	CreatingPendingTenant Kind = "creating_pending_tenant"
	// PendingTenantCreated fires after the record is marked pending.
	PendingTenantCreated Kind = "pending_tenant_created"
	// PullingPendingTenant fires after a pending record is selected, before it is claimed.
	// When claims race, it can fire for the same tenant more than once.
	PullingPendingTenant Kind = "pulling_pending_tenant"
	// PendingTenantPulled fires once, after the claim succeeded.
	PendingTenantPulled Kind = "pending_tenant_pulled"
)

// Event is a pool lifecycle notification. Tenant is a snapshot; listeners may keep it.
type Event struct {
	Kind       Kind
	Tenant     *tenant.Tenant
	OccurredAt time.Time
}

// TenantID returns the affected tenant identity.
func (e Event) TenantID() uuid.UUID {
	if e.Tenant == nil {
		return uuid.Nil
	}
	return e.Tenant.ID
}

// Listener handles an event. A non-nil error aborts the operation that emitted it.
type Listener func(ctx context.Context, e Event) error

type registration struct {
	kind     Kind // empty matches every kind
	listener Listener
}

// Dispatcher delivers events synchronously, in registration order, on the
// caller's goroutine. The first listener error stops delivery.
type Dispatcher struct {
	mu            sync.RWMutex
	registrations []registration
}

// NewDispatcher creates a dispatcher without listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Listen registers l for kind.
func (d *Dispatcher) Listen(kind Kind, l Listener) error {
	if l == nil {
		return ErrNilListener
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registrations = append(d.registrations, registration{kind: kind, listener: l})
	return nil
}

// ListenAll registers l for every kind.
func (d *Dispatcher) ListenAll(l Listener) error {
	return d.Listen("", l)
}

// Dispatch delivers e to matching listeners.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	d.mu.RLock()
	regs := make([]registration, len(d.registrations))
	copy(regs, d.registrations)
	d.mu.RUnlock()

	for _, r := range regs {
		if r.kind != "" && r.kind != e.Kind {
			continue
		}
		if err := r.listener(ctx, e); err != nil {
			return fmt.Errorf("%s listener: %w", e.Kind, err)
		}
	}
	return nil
}

// LogListener records every event as an audit log line.
func LogListener(log *slog.Logger) Listener {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, e Event) error {
		log.InfoContext(ctx, "pending tenant event",
			logger.Event(string(e.Kind)),
			logger.TenantID(e.TenantID()),
			slog.Time("occurred_at", e.OccurredAt),
		)
		return nil
	}
}
