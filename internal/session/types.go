package session

import (
	"fmt"
	"time"

	"github.com/dvloznov/finview/internal/ingest"
	"github.com/dvloznov/finview/internal/insights"
)

// State represents where a session is in the upload/analysis lifecycle.
type State string

const (
	// StateEmpty indicates no upload has happened (or the session was reset).
	StateEmpty State = "empty"
	// StateLoading indicates an upload is being parsed.
	StateLoading State = "loading"
	// StateReady indicates parsing succeeded and aggregates are available.
	StateReady State = "ready"
	// StateFailed indicates parsing failed; Error holds the reason.
	StateFailed State = "failed"
)

// validTransitions encodes the session lifecycle: a new upload starts
// loading, parsing resolves to ready or failed, and a reset returns any
// state to empty.
var validTransitions = map[State][]State{
	StateEmpty:   {StateLoading},
	StateLoading: {StateReady, StateFailed},
	StateReady:   {StateEmpty, StateLoading},
	StateFailed:  {StateEmpty, StateLoading},
}

func canTransition(from, to State) bool {
	if to == StateEmpty {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a lifecycle violation, e.g. marking a
// session ready that was never loading.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("session: invalid transition %s -> %s", e.From, e.To)
}

// Session is one browsing session's in-memory analysis state. Nothing
// here survives a restart; that is the intended durability model.
type Session struct {
	ID    string
	State State

	// Generation counts uploads into this session. Insight results carry
	// the generation they were computed for and are dropped when it no
	// longer matches.
	Generation int

	// Error is the fatal parse failure message when State is failed.
	Error string

	// Transactions and RawCSV are set once the session is ready. RawCSV
	// is kept because the insight requests carry the original text
	// verbatim.
	Transactions []ingest.Transaction
	RawCSV       string
	SkippedRows  int

	// Insight results resolve independently after the session is ready.
	// Their errors are non-fatal notices and never change State.
	Visualizations    *insights.VisualizationInsight
	VisualizationsErr string
	DateRanges        []insights.DateRange
	DateRangesErr     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InsightsPending reports whether at least one insight request has
// neither resolved nor failed yet. Only a ready session has an insight
// run in flight; empty, loading and failed sessions have nothing to
// wait for.
func (s *Session) InsightsPending() bool {
	if s.State != StateReady {
		return false
	}
	vizDone := s.Visualizations != nil || s.VisualizationsErr != ""
	rangesDone := s.DateRanges != nil || s.DateRangesErr != ""
	return !(vizDone && rangesDone)
}
