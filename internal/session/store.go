// Package session tracks per-browsing-session analysis state in memory.
// The lifecycle is an explicit state machine (empty, loading, ready,
// failed); data is lost on restart by design.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/finview/internal/ingest"
	"github.com/dvloznov/finview/internal/insights"
)

// ErrNotFound is returned when a session ID is unknown or was reset.
var ErrNotFound = errors.New("session not found")

// ErrStaleInsights is returned when an insight bundle belongs to an
// upload that has since been replaced.
var ErrStaleInsights = errors.New("insights belong to a previous upload")

// Store is an in-memory session store safe for concurrent use. Sessions
// are returned by value copy so callers cannot mutate stored state
// without going through a transition method.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session in the loading state and returns a copy.
func (s *Store) Create() Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		State:      StateLoading,
		Generation: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return *sess
}

// Get retrieves a session copy by ID.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return *sess, nil
}

// MarkReady transitions a loading session to ready with its parsed data.
func (s *Store) MarkReady(id string, txs []ingest.Transaction, rawCSV string, skipped int) error {
	return s.update(id, StateReady, func(sess *Session) {
		sess.Transactions = txs
		sess.RawCSV = rawCSV
		sess.SkippedRows = skipped
		sess.Error = ""
	})
}

// MarkFailed transitions a loading session to failed with the abort
// reason.
func (s *Store) MarkFailed(id string, reason string) error {
	return s.update(id, StateFailed, func(sess *Session) {
		sess.Error = reason
		sess.Transactions = nil
		sess.RawCSV = ""
	})
}

// Reset returns a session to the empty state, dropping all data but
// keeping the ID valid for a new upload.
func (s *Store) Reset(id string) error {
	return s.update(id, StateEmpty, func(sess *Session) {
		*sess = Session{
			ID:         sess.ID,
			State:      StateEmpty,
			Generation: sess.Generation,
			CreatedAt:  sess.CreatedAt,
		}
	})
}

// StartUpload transitions a session back to loading for a new upload and
// returns the new upload generation. Bumping the generation invalidates
// any insight run still in flight for the replaced data.
func (s *Store) StartUpload(id string) (int, error) {
	var generation int
	err := s.update(id, StateLoading, func(sess *Session) {
		sess.Generation++
		generation = sess.Generation
		sess.Error = ""
		sess.Transactions = nil
		sess.RawCSV = ""
		sess.SkippedRows = 0
		sess.Visualizations = nil
		sess.VisualizationsErr = ""
		sess.DateRanges = nil
		sess.DateRangesErr = ""
	})
	return generation, err
}

// AttachInsights records the outcome of the insight requests for one
// upload generation. A bundle from a superseded generation is rejected
// with ErrStaleInsights so a slow run can never overwrite results for
// data uploaded after it started. It never changes the session state:
// failed insights on a ready session leave it ready.
func (s *Store) AttachInsights(id string, generation int, bundle insights.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if sess.Generation != generation {
		return ErrStaleInsights
	}

	sess.Visualizations = bundle.Visualizations
	if bundle.VisualizationsErr != nil {
		sess.VisualizationsErr = bundle.VisualizationsErr.Error()
	}
	sess.DateRanges = bundle.DateRanges
	if bundle.DateRangesErr != nil {
		sess.DateRangesErr = bundle.DateRangesErr.Error()
	}
	sess.UpdatedAt = time.Now()

	return nil
}

// Delete removes a session entirely.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) update(id string, to State, apply func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if !canTransition(sess.State, to) {
		return &InvalidTransitionError{From: sess.State, To: to}
	}

	apply(sess)
	sess.State = to
	sess.UpdatedAt = time.Now()
	return nil
}
