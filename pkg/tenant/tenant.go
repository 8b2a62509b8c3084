package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a tenant record.
type State string

const (
	// StateProvisioning marks a record whose provisioning hooks have not finished yet.
	StateProvisioning State = "provisioning"
	// StatePending marks a provisioned record waiting to be claimed.
	StatePending State = "pending"
	// StateActive marks a claimed record in normal use.
	StateActive State = "active"
)

// Tenant is a tenant record. ID is assigned by the store on creation and never changes.
type Tenant struct {
	ID           uuid.UUID      `json:"id"`
	Data         map[string]any `json:"data,omitempty"`
	Provisioning bool           `json:"-"`
	PendingSince *time.Time     `json:"pending_since,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Pending reports whether the tenant is provisioned but not yet claimed.
func (t *Tenant) Pending() bool {
	return t != nil && !t.Provisioning && t.PendingSince != nil
}

// State derives the lifecycle state from the record fields.
func (t *Tenant) State() State {
	switch {
	case t.Provisioning:
		return StateProvisioning
	case t.PendingSince != nil:
		return StatePending
	default:
		return StateActive
	}
}

// Clone returns a copy that shares nothing mutable with t.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	if t.Data != nil {
		c.Data = make(map[string]any, len(t.Data))
		for k, v := range t.Data {
			c.Data[k] = v
		}
	}
	if t.PendingSince != nil {
		ps := *t.PendingSince
		c.PendingSince = &ps
	}
	return &c
}

// Provider loads tenant records by identifier.
// Implementations must apply the default scope and return ErrTenantNotFound
// for pending or provisioning records.
type Provider interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, identifier string) (*Tenant, error)

func (f ProviderFunc) GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error) {
	return f(ctx, identifier)
}
