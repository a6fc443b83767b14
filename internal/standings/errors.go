package standings

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrNotFound = errors.New("team not found")
)
