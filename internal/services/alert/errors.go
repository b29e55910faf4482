package alert

import "errors"

// Service errors
var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidResolution = errors.New("invalid resolution")
)
