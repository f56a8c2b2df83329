package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidPath indicates an empty path or an empty path segment.
	ErrInvalidPath = errors.New("invalid option path")

	// ErrTypeMismatch indicates a path runs through a value that is not a table.
	ErrTypeMismatch = errors.New("type mismatch")
)
