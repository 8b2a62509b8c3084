package pending

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pool activity in Prometheus.
type Metrics struct {
	events     *prometheus.CounterVec
	claimsLost prometheus.Counter
	poolSize   prometheus.Gauge
}

// NewMetrics creates the pool collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors already registered with reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenantkit_pending_events_total",
				Help: "Pending pool events",
			},
			[]string{"kind"},
		),
		claimsLost: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tenantkit_pending_claims_lost_total",
				Help: "Claims lost to a concurrent caller",
			},
		),
		poolSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tenantkit_pending_pool_size",
				Help: "Pending tenants ready to be pulled",
			},
		),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.events, err = register(reg, m.events); err != nil {
		return nil, err
	}
	if m.claimsLost, err = register(reg, m.claimsLost); err != nil {
		return nil, err
	}
	if m.poolSize, err = register(reg, m.poolSize); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Listener counts every dispatched event by kind.
func (m *Metrics) Listener() Listener {
	return func(_ context.Context, e Event) error {
		m.events.WithLabelValues(string(e.Kind)).Inc()
		return nil
	}
}

// ObserveClaimLost counts a lost claim.
func (m *Metrics) ObserveClaimLost() {
	m.claimsLost.Inc()
}

// SetPoolSize records the current number of pending tenants.
func (m *Metrics) SetPoolSize(n int) {
	m.poolSize.Set(float64(n))
}
