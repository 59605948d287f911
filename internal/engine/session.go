// Package engine owns the availability cache and calendar-state
// reconciliation: one session per browsing user, refreshed from a versioned
// backend and reduced to a renderable view state.
package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agendalivre/agenda/internal/calendar"
	"github.com/agendalivre/agenda/internal/schedule"
)

const (
	ToneSuccess = "success"
	ToneError   = "error"
)

// Status is the user-visible banner derived from the last refresh.
type Status struct {
	Message string `json:"message"`
	Tone    string `json:"tone"`
}

// Session is the explicit state object for one browsing session: cache,
// derived index, selection and visible month, plus the generation counter
// that serializes effective application of refresh results. All fields behind
// mu; the cache itself is unsynchronized and must only be touched under it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	generation uint64

	cache     *schedule.Cache
	index     schedule.Index
	selection schedule.Selection
	nav       calendar.Navigator

	version        string
	professionalID string
	unitID         string
	lastFilters    schedule.Filters
	status         Status
	summary        string
}

// NewSession constructs a session in its defined initial state: empty cache,
// no selection, undefined month bounds, default filters.
func NewSession(now time.Time) *Session {
	return &Session{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		cache:          schedule.NewCache(),
		version:        defaultVersion,
		professionalID: defaultProfessionalID,
		unitID:         defaultUnitID,
		status: Status{
			Message: "Session created. Refresh to load available schedules.",
			Tone:    ToneSuccess,
		},
	}
}

// Version returns the session's current API version.
func (s *Session) Version() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Selected returns the currently selected date, or "".
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Date
}
