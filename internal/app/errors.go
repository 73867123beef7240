package service

import "errors"

// Service errors.
var (
	// ErrCatalogUnavailable means no catalog snapshot has ever loaded.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrRefreshInProgress is returned when a refresh is requested while one runs.
	ErrRefreshInProgress = errors.New("catalog refresh already in progress")
	// ErrPlayerNotFound means the current snapshot has no player with the id.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNotStarted is returned by operations that need a started service.
	ErrNotStarted = errors.New("service not started")
)
