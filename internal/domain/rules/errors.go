package rules

import "errors"

// Sentinel kinds for rule set errors.
var (
	ErrInvalidRule = errors.New("invalid rule")
	ErrLoadRules   = errors.New("load rules")
)
