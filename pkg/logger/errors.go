package logger

import "errors"

// Sentinel kinds for logger errors.
var (
	ErrUnknownLevel = errors.New("unknown log level")
)
