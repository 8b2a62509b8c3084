// Package pg connects the tenant store to PostgreSQL using pgx/v5.
//
// It covers the pieces a service needs before pending.PostgresStore can be used:
// a retrying pool constructor, goose migrations from an embedded filesystem, a
// health probe and helpers that classify pgx errors.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.MigrateFS(ctx, pool, pending.Migrations, "migrations", cfg, logger); err != nil {
//		return err
//	}
//
//	store := pending.NewPostgresStore(pool)
//
// # Configuration
//
// Config is populated from environment variables; see its field tags for names and
// defaults.
package pg
