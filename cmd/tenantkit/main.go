// Command tenantkit serves the tenant pool and the tenant-scoped cache API.
//
// It keeps a pool of pre-provisioned tenants in PostgreSQL, hands one out on
// POST /tenants and scopes every request carrying X-Tenant-ID to that tenant's
// slice of the shared Redis cache. Configuration comes from the environment
// (see pg.Config, redis.Config, pending.Config, httpserver.Config, logger.Config).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tenantkit/internal/api"
	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/container"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/pending"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logCfg   logger.Config
		httpCfg  httpserver.Config
		pgCfg    pg.Config
		redisCfg redis.Config
		poolCfg  pending.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&poolCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log := logger.New(
		logger.FromConfig(logCfg),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pg.MigrateFS(ctx, pool, pending.Migrations, "migrations", pgCfg, log); err != nil {
		return err
	}

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	metrics, err := pending.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	dispatcher := pending.NewDispatcher()
	if err := dispatcher.ListenAll(pending.LogListener(log)); err != nil {
		return err
	}
	manager := pending.NewManager(pending.NewPostgresStore(pool),
		pending.WithDispatcher(dispatcher),
		pending.WithLogger(log),
		pending.WithMetrics(metrics),
		pending.WithMaxClaimAttempts(poolCfg.ClaimAttempts),
	)
	maintainer := pending.NewMaintainer(manager, poolCfg,
		pending.WithMaintainerLogger(log),
		pending.WithMaintainerMetrics(metrics),
	)

	root := container.New()
	root.Instance(cache.Slot, cache.NewRedisStore(client, cache.WithKeyPrefix(redisCfg.KeyPrefix)))

	handler := api.New(manager, root,
		api.WithLogger(log),
		api.WithProbe("postgres", pg.Healthcheck(pool)),
		api.WithProbe("redis", redis.Healthcheck(client)),
		api.WithGatherer(prometheus.DefaultGatherer),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return maintainer.Run(ctx) })
	g.Go(func() error { return httpserver.New(httpCfg, httpserver.WithLogger(log)).Run(ctx, handler) })
	return g.Wait()
}
