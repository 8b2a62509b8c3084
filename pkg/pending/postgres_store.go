package pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// DB is the subset of pgx used by PostgresStore. Both *pgxpool.Pool and pgx.Tx satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const tenantColumns = `id, data, provisioning, pending_since, created_at, updated_at`

// scopePredicates keeps the visibility rules next to the queries that use them.
var scopePredicates = map[tenant.Scope]string{
	tenant.ExcludePending: `NOT provisioning AND pending_since IS NULL`,
	tenant.IncludePending: `NOT provisioning`,
	tenant.OnlyPending:    `NOT provisioning AND pending_since IS NOT NULL`,
}

var statePredicates = map[tenant.State]string{
	tenant.StateProvisioning: `provisioning`,
	tenant.StatePending:      `NOT provisioning AND pending_since IS NOT NULL`,
	tenant.StateActive:       `NOT provisioning AND pending_since IS NULL`,
}

func scopePredicate(scope tenant.Scope) string {
	if p, ok := scopePredicates[scope]; ok {
		return p
	}
	return scopePredicates[tenant.ExcludePending]
}

// PostgresStore is a Store over the tenants table (see Migrations).
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store over db.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := row.Scan(&t.ID, &t.Data, &t.Provisioning, &t.PendingSince, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if t.Data == nil {
		t.Data = map[string]any{}
	}
	return &t, nil
}

func (s *PostgresStore) Create(ctx context.Context, data map[string]any) (*tenant.Tenant, error) {
	if data == nil {
		data = map[string]any{}
	}
	t, err := scanTenant(s.db.QueryRow(ctx, `
		INSERT INTO tenants (id, data, provisioning)
		VALUES ($1, $2, TRUE)
		RETURNING `+tenantColumns,
		uuid.New(), data,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) MarkPending(ctx context.Context, id uuid.UUID, at time.Time) (*tenant.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx, `
		UPDATE tenants
		SET provisioning = FALSE, pending_since = $2, updated_at = now()
		WHERE id = $1 AND provisioning
		RETURNING `+tenantColumns,
		id, at,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tenant.ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark tenant pending: %w", err)
	}
	return t, nil
}

// Claim is a single conditional UPDATE; concurrent claimants of the same id are
// serialized by the row lock and all but one match zero rows.
func (s *PostgresStore) Claim(ctx context.Context, id uuid.UUID) (*tenant.Tenant, bool, error) {
	t, err := scanTenant(s.db.QueryRow(ctx, `
		UPDATE tenants
		SET pending_since = NULL, updated_at = now()
		WHERE id = $1 AND NOT provisioning AND pending_since IS NOT NULL
		RETURNING `+tenantColumns,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to claim tenant: %w", err)
	}
	return t, true, nil
}

func (s *PostgresStore) FirstPending(ctx context.Context) (*tenant.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE `+scopePredicate(tenant.OnlyPending)+`
		ORDER BY pending_since, created_at, id
		LIMIT 1`,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tenant.ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select pending tenant: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID, scope tenant.Scope) (*tenant.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE id = $1 AND `+scopePredicate(scope),
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tenant.ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context, scope tenant.Scope) ([]*tenant.Tenant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE `+scopePredicate(scope)+`
		ORDER BY pending_since NULLS LAST, created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var out []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context, scope tenant.Scope) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM tenants WHERE `+scopePredicate(scope)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count tenants: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) PendingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id
		FROM tenants
		WHERE `+scopePredicate(tenant.OnlyPending)+` AND pending_since < $1
		ORDER BY pending_since, created_at, id`,
		before,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending tenants: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale pending tenants: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID, state tenant.State) (bool, error) {
	predicate, ok := statePredicates[state]
	if !ok {
		return false, fmt.Errorf("unknown tenant state %q", state)
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1 AND `+predicate, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete tenant: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
