package tenancy

import "errors"

var (
	// ErrUnbalancedContextExit is returned by Leave when no tenant context was entered.
	// The registry is left untouched.
	ErrUnbalancedContextExit = errors.New("tenancy: leave called without a matching enter")

	// ErrBootstrapFailed is returned when a bootstrapper fails to enter a tenant context.
	ErrBootstrapFailed = errors.New("tenancy: bootstrap failed")

	// ErrRevertFailed is returned when a bootstrapper fails to restore the shared context.
	ErrRevertFailed = errors.New("tenancy: revert failed")

	// ErrNilTenant is returned when entering a context without a tenant.
	ErrNilTenant = errors.New("tenancy: tenant cannot be nil")

	// ErrNoTenancyInContext is returned when no tenancy is found in context.
	ErrNoTenancyInContext = errors.New("tenancy: no tenancy in context")
)
