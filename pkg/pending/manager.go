package pending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// DefaultMaxClaimAttempts bounds how often PullPending retries after losing a claim.
const DefaultMaxClaimAttempts = 3

// Manager hands out pending tenants from the pool and creates new ones.
type Manager struct {
	store            Store
	dispatcher       *Dispatcher
	logger           *slog.Logger
	metrics          *Metrics
	now              func() time.Time
	maxClaimAttempts int
	keepFailed       bool
}

// NewManager creates a pool manager over store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	if store == nil {
		panic("pending: store cannot be nil")
	}
	m := &Manager{
		store:            store,
		dispatcher:       NewDispatcher(),
		logger:           slog.Default(),
		now:              time.Now,
		maxClaimAttempts: DefaultMaxClaimAttempts,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics != nil {
		if err := m.dispatcher.ListenAll(m.metrics.Listener()); err != nil {
			panic(fmt.Sprintf("pending: register metrics listener: %v", err))
		}
	}
	return m
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// Dispatcher returns the dispatcher events are delivered through.
func (m *Manager) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// CreatePending creates a tenant and adds it to the pool.
//
// The record is created in the provisioning state and CreatingPendingTenant is
// dispatched; only after every listener returned is it marked pending, so a pending
// tenant is always fully provisioned. If a CreatingPendingTenant listener fails, the
// record is deleted (or kept in provisioning with WithKeepFailed) and
// ErrProvisioningFailed is returned. If a PendingTenantCreated listener fails, the
// record is removed from the pool when it is still unclaimed.
func (m *Manager) CreatePending(ctx context.Context, data map[string]any) (*tenant.Tenant, error) {
	t, err := m.store.Create(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := m.dispatch(ctx, CreatingPendingTenant, t); err != nil {
		return nil, m.abortCreation(ctx, t, tenant.StateProvisioning, !m.keepFailed, err)
	}

	t, err = m.store.MarkPending(ctx, t.ID, m.now())
	if err != nil {
		return nil, err
	}

	if err := m.dispatch(ctx, PendingTenantCreated, t); err != nil {
		return nil, m.abortCreation(ctx, t, tenant.StatePending, true, err)
	}

	m.logger.InfoContext(ctx, "pending tenant created", logger.TenantID(t.ID))
	return t, nil
}

func (m *Manager) abortCreation(ctx context.Context, t *tenant.Tenant, state tenant.State, discard bool, cause error) error {
	err := errors.Join(ErrProvisioningFailed, cause)
	m.logger.ErrorContext(ctx, "pending tenant provisioning failed",
		logger.TenantID(t.ID),
		logger.State(string(state)),
		logger.Error(cause),
	)
	if !discard {
		return err
	}
	if _, delErr := m.store.Delete(ctx, t.ID, state); delErr != nil {
		return errors.Join(err, fmt.Errorf("failed to discard tenant %s: %w", t.ID, delErr))
	}
	return err
}

// PullPending claims a tenant from the pool. The boolean is false when the pool is
// empty and createIfEmpty is false, or when every attempt lost its claim to a
// concurrent caller. With createIfEmpty, an empty pool gets exactly one new pending
// tenant, which is then claimed like any other.
//
// If a PendingTenantPulled listener fails, the tenant is already claimed; it is
// returned together with the error so the caller can decide what to do with it.
func (m *Manager) PullPending(ctx context.Context, createIfEmpty bool) (*tenant.Tenant, bool, error) {
	for attempt := 1; attempt <= m.maxClaimAttempts; attempt++ {
		candidate, err := m.store.FirstPending(ctx)
		if errors.Is(err, tenant.ErrTenantNotFound) {
			if !createIfEmpty {
				return nil, false, nil
			}
			candidate, err = m.CreatePending(ctx, nil)
		}
		if err != nil {
			return nil, false, err
		}

		claimed, err := m.claim(ctx, candidate)
		if errors.Is(err, ErrClaimLost) {
			m.logger.DebugContext(ctx, "pending tenant claim lost, retrying",
				logger.TenantID(candidate.ID),
				logger.Attempt(attempt),
			)
			if m.metrics != nil {
				m.metrics.ObserveClaimLost()
			}
			continue
		}
		if err != nil {
			return claimed, claimed != nil, err
		}

		m.logger.InfoContext(ctx, "pending tenant pulled", logger.TenantID(claimed.ID))
		return claimed, true, nil
	}

	m.logger.WarnContext(ctx, "pending tenant claim attempts exhausted", slog.Int("attempts", m.maxClaimAttempts))
	return nil, false, nil
}

// claim runs the pulling notification and the conditional claim for one candidate.
func (m *Manager) claim(ctx context.Context, candidate *tenant.Tenant) (*tenant.Tenant, error) {
	if err := m.dispatch(ctx, PullingPendingTenant, candidate); err != nil {
		return nil, errors.Join(ErrListenerFailed, err)
	}

	claimed, ok, err := m.store.Claim(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClaimLost
	}

	if err := m.dispatch(ctx, PendingTenantPulled, claimed); err != nil {
		return claimed, errors.Join(ErrListenerFailed, err)
	}
	return claimed, nil
}

func (m *Manager) dispatch(ctx context.Context, kind Kind, t *tenant.Tenant) error {
	return m.dispatcher.Dispatch(ctx, Event{Kind: kind, Tenant: t.Clone(), OccurredAt: m.now()})
}
