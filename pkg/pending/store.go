package pending

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Store persists tenant records for the pool.
//
// Every read applies its Scope, so records are only visible in the states the caller
// opted into. State-changing methods are conditional updates: they only affect
// records that are still in the expected state, which is what makes claims
// exactly-once without an external lock.
type Store interface {
	// Create inserts a record in the provisioning state.
	Create(ctx context.Context, data map[string]any) (*tenant.Tenant, error)
	// MarkPending moves a provisioning record to pending.
	// Returns tenant.ErrTenantNotFound if the record is not provisioning.
	MarkPending(ctx context.Context, id uuid.UUID, at time.Time) (*tenant.Tenant, error)
	// Claim clears PendingSince only if it is still set. The boolean is false when
	// the record was not pending anymore.
	Claim(ctx context.Context, id uuid.UUID) (*tenant.Tenant, bool, error)
	// FirstPending returns the pending record with the earliest PendingSince,
	// or tenant.ErrTenantNotFound when the pool is empty.
	FirstPending(ctx context.Context) (*tenant.Tenant, error)
	// Get returns the record with id if it is visible under scope.
	Get(ctx context.Context, id uuid.UUID, scope tenant.Scope) (*tenant.Tenant, error)
	// List returns the records visible under scope, oldest first.
	List(ctx context.Context, scope tenant.Scope) ([]*tenant.Tenant, error)
	// Count returns the number of records visible under scope.
	Count(ctx context.Context, scope tenant.Scope) (int, error)
	// PendingBefore returns the ids of records pending since before the given time.
	PendingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error)
	// Delete removes the record only if it is in state. The boolean reports whether
	// a record was removed.
	Delete(ctx context.Context, id uuid.UUID, state tenant.State) (bool, error)
}
