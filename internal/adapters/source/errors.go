package source

import "errors"

// Sentinel kinds for upstream data errors.
var (
	ErrCatalogUnavailable = errors.New("player catalog unavailable")
	ErrScoresUnavailable  = errors.New("player scores unavailable")
	ErrFixturesFailed     = errors.New("fixture batch failed")
	ErrInvalidBaseURL     = errors.New("invalid source base url")
)

var errNoRecords = errors.New("no player records in response")
