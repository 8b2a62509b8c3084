package pending

import (
	"log/slog"
	"time"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDispatcher sets the dispatcher events are delivered through.
func WithDispatcher(d *Dispatcher) ManagerOption {
	return func(m *Manager) {
		if d != nil {
			m.dispatcher = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source used for PendingSince and event timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMaxClaimAttempts bounds the retries after a lost claim. Values below 1 are ignored.
func WithMaxClaimAttempts(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxClaimAttempts = n
		}
	}
}

// WithKeepFailed leaves tenants whose provisioning failed in the provisioning state
// instead of deleting them. They stay invisible to every scope.
func WithKeepFailed(keep bool) ManagerOption {
	return func(m *Manager) {
		m.keepFailed = keep
	}
}

// WithMetrics records pool events and lost claims.
func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}
