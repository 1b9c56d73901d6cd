package event

import "errors"

// Common store errors.
var (
	// ErrNotFound is returned when no event matches the dedup key or ID.
	ErrNotFound = errors.New("event not found")
	// ErrDuplicate is returned when an insert collides on (source, foreign id).
	ErrDuplicate = errors.New("event already exists")
)
