package pending

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Maintainer keeps the pool at its configured size and prunes stale entries.
type Maintainer struct {
	manager *Manager
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// MaintainerOption configures a Maintainer.
type MaintainerOption func(*Maintainer)

// WithMaintainerLogger sets the logger.
func WithMaintainerLogger(l *slog.Logger) MaintainerOption {
	return func(m *Maintainer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMaintainerMetrics records the pool size after each run.
func WithMaintainerMetrics(metrics *Metrics) MaintainerOption {
	return func(m *Maintainer) {
		m.metrics = metrics
	}
}

// WithMaintainerClock overrides the time source used for pruning.
func WithMaintainerClock(now func() time.Time) MaintainerOption {
	return func(m *Maintainer) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMaintainer creates a maintainer for manager's pool.
func NewMaintainer(manager *Manager, cfg Config, opts ...MaintainerOption) *Maintainer {
	if manager == nil {
		panic("pending: manager cannot be nil")
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	m := &Maintainer{
		manager: manager,
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fill creates pending tenants until the pool holds PoolSize of them.
// It returns the number created. Creations run concurrently, bounded by Concurrency;
// the first failure cancels the ones not yet started.
func (m *Maintainer) Fill(ctx context.Context) (int, error) {
	store := m.manager.Store()
	have, err := store.Count(ctx, tenant.OnlyPending)
	if err != nil {
		return 0, err
	}
	missing := m.cfg.PoolSize - have
	if missing <= 0 {
		m.observe(have)
		return 0, nil
	}

	created := make([]bool, missing)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Concurrency)
	for i := range missing {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := m.manager.CreatePending(gctx, nil); err != nil {
				return err
			}
			created[i] = true
			return nil
		})
	}
	err = g.Wait()

	n := 0
	for _, ok := range created {
		if ok {
			n++
		}
	}
	m.observe(have + n)
	if err != nil {
		return n, err
	}

	m.logger.InfoContext(ctx, "pending pool filled", slog.Int("created", n), slog.Int("size", have+n))
	return n, nil
}

// Prune deletes pending tenants older than MaxAge and returns how many were removed.
// Tenants claimed meanwhile are left alone. A zero MaxAge disables pruning.
func (m *Maintainer) Prune(ctx context.Context) (int, error) {
	if m.cfg.MaxAge <= 0 {
		return 0, nil
	}
	store := m.manager.Store()
	ids, err := store.PendingBefore(ctx, m.now().Add(-m.cfg.MaxAge))
	if err != nil {
		return 0, err
	}

	n := 0
	for _, id := range ids {
		ok, err := store.Delete(ctx, id, tenant.StatePending)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	if n > 0 {
		m.logger.InfoContext(ctx, "pending pool pruned", slog.Int("removed", n))
	}
	return n, nil
}

// RunOnce prunes and then fills the pool.
func (m *Maintainer) RunOnce(ctx context.Context) error {
	if _, err := m.Prune(ctx); err != nil {
		return err
	}
	_, err := m.Fill(ctx)
	return err
}

// Run maintains the pool every Interval until ctx is done. Failed runs are logged
// and retried on the next tick.
func (m *Maintainer) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := m.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.ErrorContext(ctx, "pending pool maintenance failed", logger.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Maintainer) observe(size int) {
	if m.metrics != nil {
		m.metrics.SetPoolSize(size)
	}
}
