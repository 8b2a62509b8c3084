package cache

import "errors"

var (
	ErrCacheMiss     = errors.New("cache: key not found")
	ErrEmptyKey      = errors.New("cache: key cannot be empty")
	ErrUnscopedFlush = errors.New("cache: refusing to flush a store without prefix")
	ErrUnknownStore  = errors.New("cache: store does not support tenant scoping")
)
