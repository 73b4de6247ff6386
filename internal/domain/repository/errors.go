package repository

import "errors"

// Common repository errors.
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)
