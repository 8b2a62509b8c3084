package pending

import "errors"

var (
	// ErrClaimLost is returned when another caller claimed the selected tenant first.
	// PullPending recovers from it by retrying; it never reaches callers of PullPending.
	ErrClaimLost = errors.New("pending: claim lost to a concurrent caller")

	// ErrProvisioningFailed is returned when a listener aborts pending tenant creation.
	ErrProvisioningFailed = errors.New("pending: provisioning failed")

	// ErrListenerFailed is returned when a listener aborts a pull.
	ErrListenerFailed = errors.New("pending: listener aborted the operation")

	// ErrNilListener is returned when registering a nil listener.
	ErrNilListener = errors.New("pending: listener cannot be nil")
)
