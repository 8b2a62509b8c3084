// Package logger builds slog loggers whose records carry request-scoped values.
//
// New creates a *slog.Logger from functional options. Its handler is wrapped in
// LogHandlerDecorator, which runs every registered ContextExtractor against the
// context passed to the *Context logging methods. Registering
// tenant.LoggerExtractor makes every record logged inside a tenant's request carry
// its tenant_id:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//
//	log := logger.New(
//		logger.FromConfig(cfg),
//		logger.WithContextExtractors(tenant.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// The attribute helpers (TenantID, Slot, Error and friends) keep key names
// consistent across packages.
package logger
