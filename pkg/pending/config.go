package pending

import "time"

// Config controls pool maintenance.
type Config struct {
	PoolSize      int           `env:"PENDING_POOL_SIZE" envDefault:"1"`      // PoolSize is the number of pending tenants Fill keeps ready.
	Concurrency   int           `env:"PENDING_CONCURRENCY" envDefault:"2"`    // Concurrency bounds parallel creations during Fill.
	MaxAge        time.Duration `env:"PENDING_MAX_AGE" envDefault:"0"`        // MaxAge prunes pending tenants older than this. Zero disables pruning.
	Interval      time.Duration `env:"PENDING_INTERVAL" envDefault:"1m"`      // Interval is the period between maintenance runs.
	ClaimAttempts int           `env:"PENDING_CLAIM_ATTEMPTS" envDefault:"3"` // ClaimAttempts bounds PullPending retries after a lost claim.
}

// DefaultConfig returns the configuration the env defaults describe.
func DefaultConfig() Config {
	return Config{
		PoolSize:      1,
		Concurrency:   2,
		Interval:      time.Minute,
		ClaimAttempts: DefaultMaxClaimAttempts,
	}
}
