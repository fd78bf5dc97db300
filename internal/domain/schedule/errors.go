package schedule

import "errors"

// Sentinel kinds for scheduling errors.
var (
	ErrInvalidInput = errors.New("invalid schedule input")
)
