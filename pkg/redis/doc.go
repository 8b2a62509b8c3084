// Package redis connects the shared cache to a Redis server using go-redis.
//
// Connect retries until the server answers a ping, and Healthcheck wraps the same
// ping for readiness probes. The client is meant to back cache.RedisStore, whose
// per-tenant prefixes keep tenants from seeing each other's keys:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	shared := cache.NewRedisStore(client, cache.WithKeyPrefix(cfg.KeyPrefix))
package redis
