package repository

import "errors"

// Sentinel kinds for catalog store errors.
var (
	ErrNotFound        = errors.New("player not found")
	ErrNotLoaded       = errors.New("catalog not loaded")
	ErrInvalidSnapshot = errors.New("invalid catalog snapshot")
)
