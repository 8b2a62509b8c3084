package container

import "errors"

var (
	// ErrNotBound is returned when a slot has no binding.
	ErrNotBound = errors.New("container: slot is not bound")

	// ErrTypeMismatch is returned when a resolved instance has an unexpected type.
	ErrTypeMismatch = errors.New("container: resolved instance has unexpected type")

	// ErrNilFactory is returned when a nil factory is bound.
	ErrNilFactory = errors.New("container: factory cannot be nil")

	// ErrNoContainerInContext is returned when no container is found in context.
	ErrNoContainerInContext = errors.New("container: no container in context")
)
