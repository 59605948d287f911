package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agendalivre/agenda/internal/observability/metrics"
	"github.com/agendalivre/agenda/internal/schedule"
	"github.com/agendalivre/agenda/internal/upstream"
	"github.com/agendalivre/agenda/pkg/logging"
)

const (
	// fetchWindowDays is the fixed window size requested from the backend.
	fetchWindowDays = 15
	// cardWindowSize is how many sequential dates the detail view shows.
	cardWindowSize = 2

	defaultVersion        = "v1"
	defaultProfessionalID = "2684"
	defaultUnitID         = "901"
)

var versionLabels = map[string]string{
	"v1": "API v1 — Python (FastAPI)",
	"v2": "API v2 — Go (net/http)",
}

// ErrDateUnavailable is returned when a selection targets a date the
// availability index does not contain.
var ErrDateUnavailable = errors.New("engine: date is not available")

// KnownVersion reports whether the engine can talk to the given API version.
func KnownVersion(version string) bool {
	_, ok := versionLabels[version]
	return ok
}

// DataSource is the external collaborator a refresh suspends on.
type DataSource interface {
	FetchSchedules(ctx context.Context, version string, q upstream.Query) (*upstream.Payload, error)
}

// RefreshRequest are the user-supplied parameters of one refresh cycle.
type RefreshRequest struct {
	Version           string
	StartDate         string
	PreserveSelection bool
	ProfessionalID    string
	UnitID            string
}

// Orchestrator drives refresh cycles: fetch, merge, prune, rebuild, select,
// reposition, render.
type Orchestrator struct {
	source  DataSource
	metrics *metrics.RefreshMetrics
	logger  *logging.Logger
	now     func() time.Time
}

func NewOrchestrator(source DataSource, m *metrics.RefreshMetrics, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		source:  source,
		metrics: m,
		logger:  logger.Named("engine"),
		now:     time.Now,
	}
}

func (o *Orchestrator) today() string {
	return schedule.TodayISO(o.now())
}

// Refresh runs one refresh cycle against the session. The result of the
// network call mutates session state only if no newer refresh was issued
// while it was in flight; stale results are discarded wholesale.
func (o *Orchestrator) Refresh(ctx context.Context, s *Session, req RefreshRequest) ViewState {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if req.Version != "" {
		s.version = req.Version
	}
	if req.ProfessionalID != "" {
		s.professionalID = req.ProfessionalID
	}
	if req.UnitID != "" {
		s.unitID = req.UnitID
	}
	version := s.version
	query := upstream.Query{
		ProfessionalID: s.professionalID,
		UnitID:         s.unitID,
		Days:           fetchWindowDays,
		StartDate:      req.StartDate,
	}
	s.mu.Unlock()

	started := o.now()
	payload, err := o.source.FetchSchedules(ctx, version, query)
	o.metrics.ObserveUpstreamLatency(version, o.now().Sub(started).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		o.metrics.ObserveRefresh(version, "stale")
		o.logger.Debug("discarding stale refresh result",
			"session_id", s.ID, "generation", gen, "latest", s.generation)
		return buildViewState(s, o.today())
	}

	todayISO := o.today()

	if err != nil {
		// A failed fetch gives no guarantee about window freshness; degrade
		// to "no data" instead of keeping a stale cache.
		s.cache.Reset()
		s.index = schedule.Index{}
		s.selection = schedule.Selection{}
		s.nav.Reset()
		s.lastFilters = schedule.Filters{}
		s.summary = ""
		s.status = Status{Message: "Could not load schedule data. Check the v1/v2 APIs.", Tone: ToneError}
		o.metrics.ObserveRefresh(version, "failed")
		o.logger.Error("refresh failed", "session_id", s.ID, "version", version, "error", err)
		return buildViewState(s, o.today())
	}

	s.cache.Merge(payload.Entries)
	s.cache.Prune(todayISO)
	s.index = schedule.BuildIndex(s.cache, todayISO)
	s.lastFilters = payload.Filters

	if s.index.Empty() {
		s.selection = schedule.Selection{}
		s.nav.Reset()
		s.summary = ""
		s.status = Status{Message: "No dates available for the selected filters.", Tone: ToneError}
		o.metrics.ObserveRefresh(version, "empty")
		return buildViewState(s, o.today())
	}

	s.selection = schedule.ResolveSelection(s.index, schedule.SelectionInput{
		RequestedStart:     req.StartDate,
		ServerAppliedStart: payload.Filters.StartDateApplied,
		Previous:           s.selection,
		Preserve:           req.PreserveSelection,
	})
	s.nav.Reposition(s.selection.Date, s.index)
	s.summary = buildSummary(s, o.now())

	applied := payload.Filters.StartDateApplied
	if !s.index.Contains(applied) {
		applied = s.index.Earliest()
	}
	s.status = Status{
		Message: fmt.Sprintf("Version %s synced at %s (window starts %s).",
			strings.ToUpper(version), o.now().Format("15:04:05"), applied),
		Tone: ToneSuccess,
	}
	o.metrics.ObserveRefresh(version, "applied")
	o.logger.Info("refresh applied",
		"session_id", s.ID,
		"version", version,
		"available_dates", len(s.index.Dates),
		"selected", s.selection.Date,
	)
	return buildViewState(s, o.today())
}

// Select marks an available date as current and refreshes the window
// starting from it, mirroring a calendar date click.
func (o *Orchestrator) Select(ctx context.Context, s *Session, date string) (ViewState, error) {
	s.mu.Lock()
	if !s.index.Contains(date) {
		state := buildViewState(s, o.today())
		s.mu.Unlock()
		return state, ErrDateUnavailable
	}
	s.selection = schedule.Selection{Date: date}
	s.mu.Unlock()

	return o.Refresh(ctx, s, RefreshRequest{StartDate: date}), nil
}

// Page moves the visible month by ±1, clamped to the availability bounds.
// Out-of-bounds paging leaves the state untouched.
func (o *Orchestrator) Page(s *Session, direction int) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Page(direction, s.index)
	return buildViewState(s, o.today())
}

// State returns the current view state without side effects.
func (o *Orchestrator) State(s *Session) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildViewState(s, o.today())
}

func buildSummary(s *Session, now time.Time) string {
	professionalName := s.lastFilters.ProfessionalID.String()
	unitName := s.lastFilters.UnitID.String()
	if entry, ok := s.cache.Get(s.selection.Date); ok {
		if entry.Professional.Name != "" {
			professionalName = entry.Professional.Name
		}
		if entry.Unit.Name != "" {
			unitName = entry.Unit.Name
		}
	}

	appliedStart := s.lastFilters.StartDateApplied
	if appliedStart == "" {
		appliedStart = s.index.Earliest()
	}
	daysReturned := s.lastFilters.DaysReturned
	if daysReturned == 0 {
		daysReturned = fetchWindowDays
	}
	generatedAt := now.Format("15:04:05")
	if t, err := time.Parse(time.RFC3339, s.lastFilters.GeneratedAt); err == nil {
		generatedAt = t.Format("15:04:05")
	}

	parts := []string{
		versionLabels[s.version],
		fmt.Sprintf("Professional: %s – %s", s.professionalID, professionalName),
		fmt.Sprintf("Unit: %s – %s", s.unitID, unitName),
		fmt.Sprintf("Start: %s", appliedStart),
		fmt.Sprintf("Days returned: %d", daysReturned),
		fmt.Sprintf("Generated at %s", generatedAt),
	}
	return strings.Join(parts, " • ")
}
