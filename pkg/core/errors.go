package core

import "errors"

// Common errors.
var (
	// ErrPersist wraps failures of the injected Persister. The store keeps its
	// previous state when it is returned.
	ErrPersist = errors.New("failed to persist state")

	// ErrCorruptState is returned when a persisted record cannot be decoded.
	ErrCorruptState = errors.New("persisted state is corrupt")
)
