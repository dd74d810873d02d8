package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/corey/acnh/internal/domain/selection"
	"github.com/corey/acnh/internal/ports"
)

var (
	// ErrNotInitialized is returned for persistent actions dispatched before
	// Init has loaded the stored state.
	ErrNotInitialized = errors.New("selection state not initialized")
	// ErrFlush wraps a failed write after a dirty transition. The in-memory
	// state has still advanced; the write is not retried.
	ErrFlush = errors.New("flush selection state")
)

// Session owns the single selection state. Actions are applied one at a
// time under mu in dispatch order, and every dirty transition is written
// through to the store before Dispatch returns.
type Session struct {
	store   ports.KVStore
	key     string
	log     *zap.Logger
	metrics *Metrics

	mu      sync.Mutex
	state   selection.State
	loadErr error
}

// NewSession creates an uninitialized session over store.
func NewSession(store ports.KVStore, key string, log *zap.Logger, metrics *Metrics) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		store:   store,
		key:     key,
		log:     log,
		metrics: metrics,
		state:   selection.Empty(),
	}
}

// Init loads the stored state and installs it. A load or migration failure
// is logged and returned, but the session is initialized with empty sets
// either way so the user can keep working.
func (s *Session) Init() error {
	loaded, err := selection.Load(s.store, s.key)
	if err != nil {
		s.log.Error("load selection state",
			zap.String("key", s.key),
			zap.String("backup", s.key+selection.BackupSuffix),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.LoadFailures.Inc()
		}
	} else if loaded.MigratedFrom != "" {
		s.log.Info("migrated selection state",
			zap.String("from", loaded.MigratedFrom),
			zap.String("to", selection.CurrentVersion))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, rerr := selection.Reduce(s.state, selection.Initialize{Loaded: loaded})
	if rerr != nil {
		return rerr
	}
	s.state = next
	s.loadErr = err
	return err
}

// Dispatch applies a and returns the resulting state. When a changed
// persisted data the new state is saved before returning; a failed save is
// logged and reported as ErrFlush alongside the advanced state.
func (s *Session) Dispatch(ctx context.Context, a selection.Action) (selection.State, error) {
	if err := ctx.Err(); err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a != nil && a.Persistent() && !s.state.Initialized {
		return s.state.Clone(), ErrNotInitialized
	}

	next, err := selection.Reduce(s.state, a)
	if err != nil {
		return s.state.Clone(), err
	}
	if s.metrics != nil {
		s.metrics.Actions.WithLabelValues(a.Kind()).Inc()
	}

	var flushErr error
	if next.Dirty {
		if err := selection.Save(s.store, s.key, next); err != nil {
			s.log.Error("flush selection state",
				zap.String("action", a.Kind()),
				zap.Error(err))
			if s.metrics != nil {
				s.metrics.FlushFailures.Inc()
			}
			flushErr = fmt.Errorf("%w: %v", ErrFlush, err)
		}
		next.Dirty = false
	}

	s.state = next
	return next.Clone(), flushErr
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LoadError returns the error reported by Init, if any.
func (s *Session) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}
