package pending

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// MemoryStore is an in-process Store. All operations hold a single mutex,
// so every conditional update is atomic.
type MemoryStore struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*tenant.Tenant
	now     func() time.Time
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants: make(map[uuid.UUID]*tenant.Tenant),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, data map[string]any) (*tenant.Tenant, error) {
	now := s.now()
	t := &tenant.Tenant{
		ID:           uuid.New(),
		Data:         maps.Clone(data),
		Provisioning: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t.Data == nil {
		t.Data = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[t.ID] = t
	return t.Clone(), nil
}

func (s *MemoryStore) MarkPending(_ context.Context, id uuid.UUID, at time.Time) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok || !t.Provisioning {
		return nil, tenant.ErrTenantNotFound
	}
	t.Provisioning = false
	t.PendingSince = &at
	t.UpdatedAt = s.now()
	return t.Clone(), nil
}

func (s *MemoryStore) Claim(_ context.Context, id uuid.UUID) (*tenant.Tenant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok || !t.Pending() {
		return nil, false, nil
	}
	t.PendingSince = nil
	t.UpdatedAt = s.now()
	return t.Clone(), true, nil
}

func (s *MemoryStore) FirstPending(_ context.Context) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.sorted(tenant.OnlyPending)
	if len(pool) == 0 {
		return nil, tenant.ErrTenantNotFound
	}
	return pool[0].Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID, scope tenant.Scope) (*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok || !scope.Matches(t) {
		return nil, tenant.ErrTenantNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context, scope tenant.Scope) ([]*tenant.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := s.sorted(scope)
	out := make([]*tenant.Tenant, len(sorted))
	for i, t := range sorted {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context, scope tenant.Scope) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tenants {
		if scope.Matches(t) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) PendingBefore(_ context.Context, before time.Time) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []uuid.UUID
	for _, t := range s.sorted(tenant.OnlyPending) {
		if t.PendingSince.Before(before) {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID, state tenant.State) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok || t.State() != state {
		return false, nil
	}
	delete(s.tenants, id)
	return true, nil
}

// sorted returns the visible records ordered by pending time, creation time, then id.
// Must be called with lock held.
func (s *MemoryStore) sorted(scope tenant.Scope) []*tenant.Tenant {
	var out []*tenant.Tenant
	for _, t := range s.tenants {
		if scope.Matches(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, compareTenants)
	return out
}

// compareTenants orders pending records before active ones, matching
// ORDER BY pending_since NULLS LAST in the Postgres store.
func compareTenants(a, b *tenant.Tenant) int {
	switch {
	case a.PendingSince != nil && b.PendingSince != nil:
		if c := a.PendingSince.Compare(*b.PendingSince); c != 0 {
			return c
		}
	case a.PendingSince != nil:
		return -1
	case b.PendingSince != nil:
		return 1
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return slices.Compare(a.ID[:], b.ID[:])
}
