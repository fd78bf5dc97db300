package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okian/scoutops/internal/domain/picklist"
	"github.com/okian/scoutops/pkg/metrics"
)

// MemoryStore is an in-process Store. Records are deep-copied on the way in
// and out so callers never share slices with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) SaveIfNewer(_ context.Context, key string, revision int64, p picklist.Persisted) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.records[key]; ok && cur.Revision >= revision {
		return false, nil
	}
	s.records[key] = Record{Key: key, Revision: revision, Picklist: clonePersisted(p), SavedAt: s.now()}
	metrics.UpdateGroupsStored(len(s.records))
	return true, nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	rec.Picklist = clonePersisted(rec.Picklist)
	return rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	metrics.UpdateGroupsStored(len(s.records))
	return nil
}

func (s *MemoryStore) Keys(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func clonePersisted(p picklist.Persisted) picklist.Persisted {
	out := picklist.Persisted{
		Lists:  make([]picklist.PersistedList, len(p.Lists)),
		Struck: slices.Clone(p.Struck),
	}
	for i, l := range p.Lists {
		out.Lists[i] = picklist.PersistedList{
			Name:  l.Name,
			Teams: slices.Clone(l.Teams),
			IDs:   slices.Clone(l.IDs),
		}
	}
	return out
}
