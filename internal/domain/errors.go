package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoData signals that no snapshot has ever been captured or persisted.
	// The HTTP layer maps it to 503 rather than an empty success.
	ErrNoData = errors.New("no snapshot data available yet")
)
