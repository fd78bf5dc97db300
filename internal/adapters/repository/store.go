// Package repository stores picklist groups in their persisted form.
package repository

import (
	"context"
	"time"

	"github.com/okian/scoutops/internal/domain/picklist"
)

// Record is one stored picklist group.
type Record struct {
	Key      string
	Revision int64
	Picklist picklist.Persisted
	SavedAt  time.Time
}

// Store provides read/write access to persisted picklist groups.
type Store interface {
	// SaveIfNewer stores p under key when revision is greater than the stored one.
	// Returns true if the store updated the record, false for a stale write.
	SaveIfNewer(ctx context.Context, key string, revision int64, p picklist.Persisted) (bool, error)

	// Load returns the record for key.
	// Returns ErrNotFound if the key is unknown.
	Load(ctx context.Context, key string) (Record, error)

	// Delete drops key. Deleting an unknown key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) []string

	// Count returns the number of stored groups.
	Count(ctx context.Context) int
}
