// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/scoutops/internal/adapters/mq/queue"
	"github.com/okian/scoutops/internal/adapters/mq/worker"
	"github.com/okian/scoutops/internal/adapters/repository"
	"github.com/okian/scoutops/internal/domain/dedupe"
	"github.com/okian/scoutops/internal/domain/model"
	"github.com/okian/scoutops/internal/domain/picklist"
	"github.com/okian/scoutops/internal/domain/schedule"
	"github.com/okian/scoutops/internal/domain/types"
	"github.com/okian/scoutops/pkg/logger"
	"github.com/okian/scoutops/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// group is one competition's picklist with its persistence bookkeeping.
// Every field is guarded by mu.
type group struct {
	mu        sync.Mutex
	key       string
	g         *picklist.Group
	rev       int64
	queuedRev int64  // last revision handed to the persist queue
	reason    string // mutation that produced rev
	dirty     bool   // rev could not be queued and must be flushed on stop
}

// change describes what a mutation touched.
type change struct {
	updated []*picklist.List
	deleted *picklist.List
	group   bool // group-wide change with no single list to notify
}

func (c *change) touch(l *picklist.List) {
	if l == nil {
		return
	}
	for _, u := range c.updated {
		if u == l {
			return
		}
	}
	c.updated = append(c.updated, l)
}

func (c *change) empty() bool {
	return len(c.updated) == 0 && c.deleted == nil && !c.group
}

// Service implements the API dependencies for scheduling and picklists.
type Service struct {
	mu     sync.RWMutex
	groups map[string]*group

	store   repository.Store
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount       int
	queueSize         int
	dedupeSize        int
	maxMatchCount     int
	maxRobotsPerMatch int

	started  bool
	inflight sync.WaitGroup
	runCtx   context.Context
	cancel   context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		groups:            make(map[string]*group),
		workerCount:       runtime.NumCPU(),
		queueSize:         10_000,
		dedupeSize:        50_000,
		maxMatchCount:     200,
		maxRobotsPerMatch: 6,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting scouting service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	// Workers outlive the request that started the service; Stop ends them.
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(s.runCtx)

	s.started = true
	s.logger.Info(ctx, "scouting service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop waits for in-flight mutations, drains the persist queue and writes
// any group whose snapshot could not be queued.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping scouting service...")

	s.inflight.Wait()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "persist pool did not drain", logger.Error(err))
		s.pool.Stop()
	}
	s.flush(ctx)
	s.cancel()

	s.logger.Info(ctx, "scouting service stopped")
}

func (s *Service) flush(ctx context.Context) {
	s.mu.RLock()
	pending := make([]*group, 0, len(s.groups))
	for _, st := range s.groups {
		pending = append(pending, st)
	}
	s.mu.RUnlock()

	for _, st := range pending {
		st.mu.Lock()
		if st.dirty {
			if _, err := s.store.SaveIfNewer(ctx, st.key, st.rev, st.g.Flatten()); err != nil {
				s.logger.Error(ctx, "flush failed", logger.String("key", st.key), logger.Error(err))
			} else {
				st.dirty = false
			}
		}
		st.mu.Unlock()
	}
}

// enter registers a call that needs running components.
func (s *Service) enter() (func(), error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	s.inflight.Add(1)
	return s.inflight.Done, nil
}

// GenerateSchedule builds a scouting rotation within the configured limits.
func (s *Service) GenerateSchedule(ctx context.Context, req types.ScheduleRequest) (schedule.Schedule, error) {
	start := time.Now()
	if req.MatchCount > s.maxMatchCount {
		return nil, fmt.Errorf("%w: match_count %d exceeds %d", ErrInvalidInput, req.MatchCount, s.maxMatchCount)
	}
	if req.RobotsPerMatch > s.maxRobotsPerMatch {
		return nil, fmt.Errorf("%w: robots_per_match %d exceeds %d", ErrInvalidInput, req.RobotsPerMatch, s.maxRobotsPerMatch)
	}

	sched, err := schedule.Generate(req.QuantScouters, req.SubjectiveScouters, req.MatchCount, req.RobotsPerMatch)
	if err != nil {
		return nil, err
	}

	st := schedule.Summarize(sched)
	metrics.RecordSchedule(st.Matches, st.Substitutions, st.Conflicts, float64(time.Since(start).Milliseconds()))
	if st.Conflicts > 0 {
		s.log().Warn(ctx, "subjective roster exhausted for some matches",
			logger.Int("matches", st.Matches),
			logger.Int("conflicts", st.Conflicts),
		)
	}
	return sched, nil
}

// Picklist returns the current view of key's group. Unknown keys yield an
// empty group at revision zero.
func (s *Service) Picklist(ctx context.Context, key string) (types.Picklist, error) {
	done, err := s.enter()
	if err != nil {
		return types.Picklist{}, err
	}
	defer done()

	st, err := s.peek(ctx, key)
	if err != nil {
		return types.Picklist{}, err
	}
	if st == nil {
		return types.NewPicklist(key, 0, picklist.NewGroup(nil, nil)), nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return types.NewPicklist(key, st.rev, st.g), nil
}

// Export returns key's group in its persisted form.
func (s *Service) Export(ctx context.Context, key string) (picklist.Persisted, error) {
	done, err := s.enter()
	if err != nil {
		return picklist.Persisted{}, err
	}
	defer done()

	st, err := s.peek(ctx, key)
	if err != nil {
		return picklist.Persisted{}, err
	}
	if st == nil {
		return picklist.NewGroup(nil, nil).Flatten(), nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.g.Flatten(), nil
}

// ReplacePicklist swaps key's group for one rebuilt from p.
func (s *Service) ReplacePicklist(ctx context.Context, key, requestID string, p picklist.Persisted) (types.Picklist, error) {
	return s.mutate(ctx, key, requestID, "replace", func(st *group) (change, error) {
		g, err := picklist.Rehydrate(p, s.hook(st), s.hook(st))
		if err != nil {
			return change{}, err
		}
		st.g = g
		return change{group: true}, nil
	})
}

// AddList appends an empty list to key's group.
func (s *Service) AddList(ctx context.Context, key string, req types.AddListRequest) (types.Picklist, error) {
	return s.mutate(ctx, key, req.RequestID, "add_list", func(st *group) (change, error) {
		l, err := st.g.AddList(req.Name)
		if err != nil {
			return change{}, err
		}
		var c change
		c.touch(l)
		return c, nil
	})
}

// DeleteList drops a list and destroys its entries.
func (s *Service) DeleteList(ctx context.Context, key, requestID, name string) (types.Picklist, error) {
	return s.mutate(ctx, key, requestID, "delete_list", func(st *group) (change, error) {
		var entries []picklist.Entry
		if l := st.g.List(name); l != nil {
			entries = l.Entries()
		}
		l, err := st.g.DeleteList(name)
		if err != nil {
			return change{}, err
		}
		for _, e := range entries {
			if err := st.g.Release(e.Ref); err != nil {
				return change{}, err
			}
		}
		return change{deleted: l}, nil
	})
}

// AddEntry creates an entry for a team, after req.After or at the list's end.
// The returned entry is zero when the request id was already applied; the
// returned picklist then shows the entry created the first time.
func (s *Service) AddEntry(ctx context.Context, key string, req types.AddEntryRequest) (types.Picklist, picklist.Entry, error) {
	var added picklist.Entry
	view, err := s.mutate(ctx, key, req.RequestID, "add_entry", func(st *group) (change, error) {
		if req.Team <= 0 {
			return change{}, fmt.Errorf("%w: team must be positive, got %d", ErrInvalidInput, req.Team)
		}
		l := st.g.List(req.List)
		if l == nil {
			return change{}, fmt.Errorf("%w: %q", picklist.ErrListNotFound, req.List)
		}

		var r picklist.Ref
		if req.After == "" {
			var err error
			if r, err = st.g.Append(l, req.Team); err != nil {
				return change{}, err
			}
		} else {
			anchor, ok := st.g.Lookup(req.After)
			if !ok {
				return change{}, fmt.Errorf("%w: %s", ErrEntryNotFound, req.After)
			}
			if st.g.Owner(anchor) != l {
				return change{}, fmt.Errorf("%w: entry %s is not in list %q", ErrInvalidInput, req.After, req.List)
			}
			var err error
			if r, err = st.g.InsertAfter(anchor, st.g.NewEntry(req.Team)); err != nil {
				return change{}, err
			}
		}

		e, err := st.g.Entry(r)
		if err != nil {
			return change{}, err
		}
		added = e
		var c change
		c.touch(l)
		return c, nil
	})
	return view, added, err
}

// MoveEntry moves an entry after an anchor entry, or to the head of a list.
// The source and destination lists may differ.
func (s *Service) MoveEntry(ctx context.Context, key string, req types.MoveRequest) (types.Picklist, error) {
	return s.mutate(ctx, key, req.RequestID, "move", func(st *group) (change, error) {
		moved, ok := st.g.Lookup(req.Entry)
		if !ok {
			return change{}, fmt.Errorf("%w: %s", ErrEntryNotFound, req.Entry)
		}
		var c change
		c.touch(st.g.Owner(moved))

		switch {
		case req.After != "":
			anchor, ok := st.g.Lookup(req.After)
			if !ok {
				return change{}, fmt.Errorf("%w: %s", ErrEntryNotFound, req.After)
			}
			if _, err := st.g.InsertAfter(anchor, moved); err != nil {
				return change{}, err
			}
		case req.List != "":
			l := st.g.List(req.List)
			if l == nil {
				return change{}, fmt.Errorf("%w: %q", picklist.ErrListNotFound, req.List)
			}
			if _, err := st.g.SetHead(l, moved); err != nil {
				return change{}, err
			}
		default:
			return change{}, fmt.Errorf("%w: move needs an anchor entry or a list", ErrInvalidInput)
		}

		c.touch(st.g.Owner(moved))
		return c, nil
	})
}

// RemoveEntry destroys an entry. Its id no longer resolves afterwards.
func (s *Service) RemoveEntry(ctx context.Context, key, requestID, id string) (types.Picklist, error) {
	return s.mutate(ctx, key, requestID, "remove_entry", func(st *group) (change, error) {
		r, ok := st.g.Lookup(id)
		if !ok {
			return change{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
		}
		from := st.g.Owner(r)
		if err := st.g.Release(r); err != nil {
			return change{}, err
		}
		var c change
		c.touch(from)
		return c, nil
	})
}

// SetStruck sets or clears a team's struck mark.
func (s *Service) SetStruck(ctx context.Context, key string, req types.StruckRequest) (types.Picklist, error) {
	return s.mutate(ctx, key, req.RequestID, "struck", func(st *group) (change, error) {
		if req.Team <= 0 {
			return change{}, fmt.Errorf("%w: team must be positive, got %d", ErrInvalidInput, req.Team)
		}
		if st.g.IsStruck(req.Team) == req.Struck {
			return change{}, nil
		}
		if req.Struck {
			st.g.Strike(req.Team)
		} else {
			st.g.Unstrike(req.Team)
		}
		return change{group: true}, nil
	})
}

// mutate applies fn to key's group under its lock, bumps the revision when
// something changed and notifies the touched lists.
func (s *Service) mutate(ctx context.Context, key, requestID, op string, fn func(*group) (change, error)) (types.Picklist, error) {
	start := time.Now()
	done, err := s.enter()
	if err != nil {
		return types.Picklist{}, err
	}
	defer done()

	st, err := s.group(ctx, key)
	if err != nil {
		metrics.RecordPicklistMutationError(op, ErrorKind(err))
		return types.Picklist{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	dedupeID := ""
	if requestID != "" {
		dedupeID = key + "/" + requestID
		if s.deduper.SeenAndRecord(ctx, dedupeID) {
			metrics.RecordDuplicateRequest()
			s.logger.Debug(ctx, "duplicate mutation skipped",
				logger.String("key", key),
				logger.String("requestID", requestID),
			)
			return types.NewPicklist(key, st.rev, st.g), nil
		}
	}

	c, err := fn(st)
	if err != nil {
		if dedupeID != "" {
			s.deduper.Unrecord(ctx, dedupeID)
		}
		metrics.RecordPicklistMutationError(op, ErrorKind(err))
		return types.Picklist{}, err
	}
	if !c.empty() {
		st.rev++
		st.reason = op
		s.notify(st, c)
	}

	metrics.RecordPicklistMutation(op, float64(time.Since(start).Milliseconds()))
	return types.NewPicklist(key, st.rev, st.g), nil
}

// notify runs the hooks of every touched list. Hook failures are already
// logged by persist and leave the group dirty.
func (s *Service) notify(st *group, c change) {
	if c.deleted != nil {
		_ = c.deleted.NotifyDelete()
	}
	for _, l := range c.updated {
		_ = l.NotifyUpdate()
	}
	if c.group {
		_ = s.persist(st)
	}
}

// hook binds a list hook to st. Hooks run with st.mu held.
func (s *Service) hook(st *group) picklist.Hook {
	return func(*picklist.List) error { return s.persist(st) }
}

// persist queues a snapshot of st at its current revision, once per revision.
func (s *Service) persist(st *group) error {
	if st.queuedRev == st.rev {
		return nil
	}
	job := model.PersistJob{
		Key:      st.key,
		Revision: st.rev,
		Reason:   st.reason,
		Picklist: st.g.Flatten(),
		QueuedAt: time.Now(),
	}
	if err := s.queue.Enqueue(s.runCtx, job); err != nil {
		st.dirty = true
		s.logger.Warn(s.runCtx, "persist job not queued",
			logger.String("key", st.key),
			logger.Any("revision", st.rev),
			logger.Error(err),
		)
		return err
	}
	st.queuedRev = st.rev
	st.dirty = false
	return nil
}

// group returns key's group, rehydrating it from the store on first use.
// Unknown keys get a fresh empty group.
func (s *Service) group(ctx context.Context, key string) (*group, error) {
	return s.load(ctx, key, true)
}

// peek is group for readers: an unknown key returns nil and is not cached.
func (s *Service) peek(ctx context.Context, key string) (*group, error) {
	return s.load(ctx, key, false)
}

func (s *Service) load(ctx context.Context, key string, create bool) (*group, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: blank competition key", ErrInvalidInput)
	}

	s.mu.RLock()
	st := s.groups[key]
	s.mu.RUnlock()
	if st != nil {
		return st, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st = s.groups[key]; st != nil {
		return st, nil
	}

	st = &group{key: key}
	rec, err := s.store.Load(ctx, key)
	switch {
	case err == nil:
		g, err := picklist.Rehydrate(rec.Picklist, s.hook(st), s.hook(st))
		if err != nil {
			return nil, fmt.Errorf("rehydrate %s: %w", key, err)
		}
		st.g = g
		st.rev = rec.Revision
		st.queuedRev = rec.Revision
	case errors.Is(err, repository.ErrNotFound):
		if !create {
			return nil, nil
		}
		st.g = picklist.NewGroup(s.hook(st), s.hook(st))
	default:
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	s.groups[key] = st
	metrics.UpdateGroupsLoaded(len(s.groups))
	s.logger.Debug(ctx, "picklist group loaded",
		logger.String("key", key),
		logger.Any("revision", st.rev),
	)
	return st, nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"workerCount":       s.workerCount,
		"queueSize":         s.queueSize,
		"dedupeSize":        s.dedupeSize,
		"maxMatchCount":     s.maxMatchCount,
		"maxRobotsPerMatch": s.maxRobotsPerMatch,
		"groupsLoaded":      len(s.groups),
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["groupsStored"] = s.store.Count(ctx)
		stats["persistWrites"] = s.pool.Written()
		stats["persistStale"] = s.pool.Stale()
		stats["dedupeEntries"] = s.deduper.Size()
	}

	keys := make([]string, 0, len(s.groups))
	for k := range s.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	stats["keys"] = keys
	return stats
}

// ErrorKind classifies err for metrics labels and HTTP status mapping.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, schedule.ErrInvalidInput),
		errors.Is(err, picklist.ErrBlankName),
		errors.Is(err, picklist.ErrSelfAnchor),
		errors.Is(err, picklist.ErrUnattached),
		errors.Is(err, picklist.ErrInvalidRef),
		errors.Is(err, picklist.ErrInvalidTeam),
		errors.Is(err, picklist.ErrInvalidPersisted):
		return "invalid"
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, picklist.ErrListNotFound):
		return "not_found"
	case errors.Is(err, picklist.ErrListExists):
		return "conflict"
	case errors.Is(err, ErrNotStarted):
		return "unavailable"
	default:
		return "internal"
	}
}
