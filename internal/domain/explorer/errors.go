package explorer

import "errors"

// ErrAlreadyRestored is returned by a second Restore, or a Restore after a mutation.
var ErrAlreadyRestored = errors.New("session state already restored")
