package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEntryNotFound = errors.New("entry not found")
)
