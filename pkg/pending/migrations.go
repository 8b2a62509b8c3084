package pending

import "embed"

// Migrations holds the goose migrations for the tenants table used by PostgresStore.
// Apply them with pg.MigrateFS(ctx, pool, pending.Migrations, "migrations", cfg, logger).
//
//go:embed migrations/*.sql
var Migrations embed.FS
