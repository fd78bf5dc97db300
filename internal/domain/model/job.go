// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/scoutops/internal/domain/picklist"
)

// PersistJob asks a worker to write a picklist group snapshot to the store.
type PersistJob struct {
	Key      string             // competition key owning the group
	Revision int64              // group revision the snapshot was taken at
	Reason   string             // mutation that triggered the write, e.g. "move"
	Picklist picklist.Persisted // snapshot taken under the group lock
	QueuedAt time.Time
}
