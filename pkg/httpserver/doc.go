// Package httpserver runs the tenantkit HTTP API with graceful shutdown and
// exposes liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router) // returns after ctx is done and in-flight requests finished
//
// ReadinessHandler aggregates named probes, typically pg.Healthcheck and
// redis.Healthcheck.
package httpserver
