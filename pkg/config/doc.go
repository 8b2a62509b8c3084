// Package config loads typed configuration from environment variables.
//
// Configuration structs declare their variables with `env` and `envDefault` tags
// (github.com/caarlos0/env/v11). An optional .env file is read first through
// github.com/joho/godotenv. Each struct type is parsed once and cached, so packages
// can call Load for the same type without parsing the environment again.
//
//	var (
//		poolCfg  pending.Config
//		dbCfg    pg.Config
//		cacheCfg redis.Config
//	)
//	config.MustLoad(&poolCfg)
//	config.MustLoad(&dbCfg)
//	config.MustLoad(&cacheCfg)
//
// Tests that change the environment call Reset to drop cached values.
package config
