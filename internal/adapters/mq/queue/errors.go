package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueFull   = errors.New("persist queue full")
	ErrQueueClosed = errors.New("persist queue closed")
)
