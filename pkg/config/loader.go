package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// entry caches one parsed configuration type.
type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	mu      sync.Mutex
	entries = make(map[reflect.Type]*entry)

	defaultEnvLoaded sync.Once
)

// LoadEnv loads the given .env files into the process environment. Variables that
// are already set are not overridden. Without arguments it loads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Load parses environment variables into v according to its `env` field tags.
//
// The default .env file is read once on first use if it exists. Each configuration
// type is parsed once per process; later calls for the same type copy the cached
// value into v. A failed parse is cached as well until Reset is called.
//
//	var cfg pending.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// The default file is optional.
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()
	mu.Lock()
	e, ok := entries[typ]
	if !ok {
		e = &entry{}
		entries[typ] = e
	}
	mu.Unlock()

	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = parsed
	})
	if e.err != nil {
		return e.err
	}

	cached, ok := e.value.(T)
	if !ok {
		return ErrInvalidConfigType
	}
	*v = cached
	return nil
}

// MustLoad is like Load but panics on failure. Use it for configuration the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration %s: %v", reflect.TypeFor[T](), err))
	}
}

// Reset drops every cached configuration so the next Load parses the environment again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	clear(entries)
}
