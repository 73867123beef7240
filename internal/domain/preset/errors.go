package preset

import "errors"

// Sentinel kinds for preset errors.
var (
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrDuplicatePreset = errors.New("duplicate preset")
	ErrInvalidPreset   = errors.New("invalid preset")
)
