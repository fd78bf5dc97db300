package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound   = errors.New("picklist not found")
	ErrInvalidKey = errors.New("invalid picklist key")
)
