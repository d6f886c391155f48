package todolist

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

// Synchronizer owns the cache of backend todos. It is safe for concurrent use.
type Synchronizer struct {
	backend     api.Backend
	logger      *log.Logger
	readTimeout time.Duration
	group       singleflight.Group

	// issued stamps every read when it starts. applied holds, per status,
	// the stamp of the newest response that replaced that status's entries;
	// a response only touches statuses it is newer for.
	issued atomic.Uint64

	mu      sync.RWMutex
	cache   *cache
	applied map[model.Status]uint64
	lastErr error
	errSeq  uint64
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

func WithLogger(l *log.Logger) SyncOption {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReadTimeout bounds each backend read. A read shared by several Load
// calls outlives any single caller's context, so it needs its own limit.
func WithReadTimeout(d time.Duration) SyncOption {
	return func(s *Synchronizer) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

func NewSynchronizer(b api.Backend, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		backend:     b,
		logger:      log.New(io.Discard),
		readTimeout: 30 * time.Second,
		cache:       newCache(nil),
		applied:     make(map[model.Status]uint64, len(model.AllStatuses)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the todos whose status is in statuses and folds them into the
// cache. An empty set reads every status. Concurrent loads of the same set
// share one backend call.
//
// The returned list is the cache's view of statuses after the read. On
// failure the cache is left as it was and the stale view is returned with
// the error. If ctx ends first Load returns ctx.Err(); the shared read keeps
// going for the other callers and still updates the cache.
func (s *Synchronizer) Load(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	statuses = normalize(statuses)
	ch := s.group.DoChan(key(statuses), func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.readTimeout)
		defer cancel()
		return nil, s.fetch(rctx, statuses)
	})
	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("load coalesced", "statuses", key(statuses))
		}
		return s.viewOf(statuses), res.Err
	case <-ctx.Done():
		return s.viewOf(statuses), ctx.Err()
	}
}

// InvalidateAndReload drops any in-flight read so that it cannot satisfy
// later callers, then reads every status again. Call it after a successful
// write.
func (s *Synchronizer) InvalidateAndReload(ctx context.Context) error {
	for _, k := range []string{key(normalize(nil)), key([]model.Status{model.StatusPending}), key([]model.Status{model.StatusCompleted})} {
		s.group.Forget(k)
	}
	_, err := s.Load(ctx, nil)
	return err
}

func (s *Synchronizer) fetch(ctx context.Context, statuses []model.Status) error {
	seq := s.issued.Add(1)
	todos, err := s.backend.GetAll(ctx, statuses)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("load failed; keeping cached todos", "statuses", key(statuses), "err", err)
		if seq > s.errSeq && seq > s.newestApplied(statuses) {
			s.lastErr, s.errSeq = err, seq
		}
		return err
	}

	var fresh []model.Status
	for _, st := range statuses {
		if s.applied[st] < seq {
			fresh = append(fresh, st)
		}
	}
	if len(fresh) == 0 {
		s.logger.Debug("dropping superseded load", "statuses", key(statuses), "seq", seq)
		return nil
	}
	if len(fresh) == len(model.AllStatuses) {
		s.cache = newCache(todos)
	} else {
		s.cache = s.cache.withStatuses(fresh, s.applicable(todos, fresh, seq))
	}
	for _, st := range fresh {
		s.applied[st] = seq
	}
	if seq > s.errSeq {
		s.lastErr = nil
	}
	s.logger.Debug("load applied", "statuses", key(fresh), "seq", seq, "count", len(todos))
	return nil
}

// applicable keeps the todos of a response stamped seq that may be applied for
// the fresh statuses. A todo is skipped when the cache holds it under a status
// that a newer read has already confirmed.
func (s *Synchronizer) applicable(todos []model.Todo, fresh []model.Status, seq uint64) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, td := range todos {
		if !slices.Contains(fresh, td.Status) {
			continue
		}
		if old, ok := s.cache.get(td.ID); ok && s.applied[old.Status] > seq {
			continue
		}
		out = append(out, td)
	}
	return out
}

func (s *Synchronizer) newestApplied(statuses []model.Status) uint64 {
	var n uint64
	for _, st := range statuses {
		n = max(n, s.applied[st])
	}
	return n
}

// View returns the cached todos selected by f in backend order. The result
// is a copy.
func (s *Synchronizer) View(f model.Filter) []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.view(f)
}

// Get returns the cached todo with id.
func (s *Synchronizer) Get(id int64) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.get(id)
}

func (s *Synchronizer) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.counts()
}

// LastError is the failure of the newest read, or nil once a newer read
// succeeds. A failing read that was already superseded is not recorded.
func (s *Synchronizer) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Synchronizer) viewOf(statuses []model.Status) []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Todo, 0, len(s.cache.order))
	for _, id := range s.cache.order {
		if td := s.cache.byID[id]; slices.Contains(statuses, td.Status) {
			out = append(out, td)
		}
	}
	return out
}

// normalize returns a sorted, duplicate-free set of valid statuses. Empty
// input means every status.
func normalize(statuses []model.Status) []model.Status {
	out := make([]model.Status, 0, len(model.AllStatuses))
	for _, st := range model.AllStatuses {
		if len(statuses) == 0 || slices.Contains(statuses, st) {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return slices.Clone(model.AllStatuses)
	}
	return out
}

func key(statuses []model.Status) string {
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ",")
}
