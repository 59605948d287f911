package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendalivre/agenda/internal/schedule"
	"github.com/agendalivre/agenda/internal/upstream"
)

var testNow = time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

type stubSource struct {
	payload *upstream.Payload
	err     error
	queries []upstream.Query
}

func (s *stubSource) FetchSchedules(_ context.Context, _ string, q upstream.Query) (*upstream.Payload, error) {
	s.queries = append(s.queries, q)
	return s.payload, s.err
}

func payloadFor(applied string, dates ...string) *upstream.Payload {
	entries := make([]schedule.Entry, 0, len(dates))
	for _, d := range dates {
		entries = append(entries, schedule.Entry{
			Date:         d,
			Professional: schedule.Professional{ID: "2684", Name: "Dr(a). Pat Duarte"},
			Specialty:    schedule.Specialty{Name: "Cardiologia"},
			Unit:         schedule.Unit{ID: "901", Name: "Clínica Central"},
			Room:         schedule.Room{Name: "Sala 1"},
			Slots:        []schedule.Slot{{Start: "09:00", Available: true}},
		})
	}
	return &upstream.Payload{
		Success: true,
		Filters: schedule.Filters{
			ProfessionalID:   "2684",
			UnitID:           "901",
			StartDateApplied: applied,
			DaysReturned:     15,
			GeneratedAt:      testNow.Format(time.RFC3339),
		},
		Entries: entries,
	}
}

func newTestOrchestrator(source DataSource) *Orchestrator {
	o := NewOrchestrator(source, nil, nil)
	o.now = func() time.Time { return testNow }
	return o
}

func TestRefreshAppliesWindow(t *testing.T) {
	source := &stubSource{payload: payloadFor("2025-01-11", "2025-01-11", "2025-01-12", "2025-02-03")}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	state := o.Refresh(context.Background(), s, RefreshRequest{Version: "v2", StartDate: "2025-01-11"})

	assert.Equal(t, []string{"2025-01-11", "2025-01-12", "2025-02-03"}, state.AvailableDates)
	assert.Equal(t, "2025-01-11", state.SelectedDate)
	assert.Equal(t, ToneSuccess, state.Status.Tone)
	assert.Equal(t, "v2", state.Version)
	assert.Equal(t, "January 2025", state.Calendar.MonthLabel)
	assert.True(t, state.Calendar.NextEnabled, "February data must enable forward paging")
	assert.False(t, state.Calendar.PrevEnabled)
	assert.Contains(t, state.Summary, "Dr(a). Pat Duarte")
	assert.Contains(t, state.Summary, "Days returned: 15")

	require.Len(t, state.Cards, 2)
	assert.Equal(t, "2025-01-11", state.Cards[0].Date)
	assert.False(t, state.Cards[0].Placeholder)
	assert.Equal(t, "2025-01-12", state.Cards[1].Date)

	require.Len(t, source.queries, 1)
	assert.Equal(t, 15, source.queries[0].Days)
	assert.Equal(t, "2684", source.queries[0].ProfessionalID)
}

func TestRefreshPrunesOutsideWindow(t *testing.T) {
	source := &stubSource{payload: payloadFor("",
		"2025-01-09", // yesterday, pruned
		"2025-01-10",
		"2025-06-01", // beyond today+120, pruned
	)}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	state := o.Refresh(context.Background(), s, RefreshRequest{})

	assert.Equal(t, []string{"2025-01-10"}, state.AvailableDates)
}

func TestMergeAcrossRefreshesIsIdempotent(t *testing.T) {
	source := &stubSource{payload: payloadFor("2025-01-11", "2025-01-11", "2025-01-12")}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	first := o.Refresh(context.Background(), s, RefreshRequest{})
	second := o.Refresh(context.Background(), s, RefreshRequest{})

	assert.Equal(t, first.AvailableDates, second.AvailableDates)
	assert.Equal(t, first.SelectedDate, second.SelectedDate)
	assert.Equal(t, first.Cards, second.Cards)
}

func TestRefreshFailureResetsState(t *testing.T) {
	source := &stubSource{payload: payloadFor("2025-01-11", "2025-01-11", "2025-01-12")}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	o.Refresh(context.Background(), s, RefreshRequest{})
	source.err = &upstream.HTTPError{Status: 502}

	state := o.Refresh(context.Background(), s, RefreshRequest{})

	assert.Empty(t, state.AvailableDates)
	assert.Empty(t, state.SelectedDate)
	assert.Equal(t, ToneError, state.Status.Tone)
	assert.False(t, state.Calendar.PrevEnabled)
	assert.False(t, state.Calendar.NextEnabled)
	assert.Empty(t, state.Cards)
	assert.Empty(t, state.Summary)
}

func TestRefreshEmptyResultDegrades(t *testing.T) {
	source := &stubSource{payload: payloadFor("")}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	state := o.Refresh(context.Background(), s, RefreshRequest{})

	assert.Empty(t, state.AvailableDates)
	assert.Empty(t, state.SelectedDate)
	assert.Equal(t, ToneError, state.Status.Tone)
	assert.Equal(t, "No dates available", state.Calendar.MonthLabel)
	assert.False(t, state.Calendar.PrevEnabled)
	assert.False(t, state.Calendar.NextEnabled)
}

func TestRefreshPreservesSelection(t *testing.T) {
	source := &stubSource{payload: payloadFor("2025-01-11", "2025-01-10", "2025-01-11", "2025-01-12")}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	o.Refresh(context.Background(), s, RefreshRequest{StartDate: "2025-01-11"})
	require.Equal(t, "2025-01-11", s.Selected())

	// Later refreshes echo a different applied start, a candidate that would
	// win the priority rule on its own.
	source.payload = payloadFor("2025-01-10", "2025-01-10", "2025-01-11", "2025-01-12")

	state := o.Refresh(context.Background(), s, RefreshRequest{PreserveSelection: true})
	assert.Equal(t, "2025-01-11", state.SelectedDate, "preserved selection survives a candidate that would win otherwise")

	state = o.Refresh(context.Background(), s, RefreshRequest{})
	assert.Equal(t, "2025-01-10", state.SelectedDate, "without preserve the candidate wins")
}

func TestSelectRefreshesFromDate(t *testing.T) {
	source := &stubSource{payload: payloadFor("", "2025-01-10", "2025-01-12")}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	o.Refresh(context.Background(), s, RefreshRequest{})

	state, err := o.Select(context.Background(), s, "2025-01-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-12", state.SelectedDate)
	require.Len(t, source.queries, 2)
	assert.Equal(t, "2025-01-12", source.queries[1].StartDate)

	_, err = o.Select(context.Background(), s, "2025-01-11")
	assert.ErrorIs(t, err, ErrDateUnavailable)
}

func TestPageIsClampedToBounds(t *testing.T) {
	source := &stubSource{payload: payloadFor("", "2025-01-10", "2025-02-14")}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	o.Refresh(context.Background(), s, RefreshRequest{})

	state := o.Page(s, 1)
	assert.Equal(t, "February 2025", state.Calendar.MonthLabel)

	state = o.Page(s, 1)
	assert.Equal(t, "February 2025", state.Calendar.MonthLabel, "paging past the last month is a no-op")

	state = o.Page(s, -1)
	state = o.Page(s, -1)
	assert.Equal(t, "January 2025", state.Calendar.MonthLabel, "paging before the first month is a no-op")
}

type call struct {
	query   upstream.Query
	respond chan callResult
}

type callResult struct {
	payload *upstream.Payload
	err     error
}

// scriptedSource hands each fetch to the test for explicit completion
// ordering.
type scriptedSource struct {
	calls chan call
}

func (s *scriptedSource) FetchSchedules(_ context.Context, _ string, q upstream.Query) (*upstream.Payload, error) {
	c := call{query: q, respond: make(chan callResult)}
	s.calls <- c
	r := <-c.respond
	return r.payload, r.err
}

func TestStaleResultIsDiscarded(t *testing.T) {
	source := &scriptedSource{calls: make(chan call)}
	o := newTestOrchestrator(source)
	s := NewSession(testNow)

	states := make(chan ViewState, 2)
	go func() {
		states <- o.Refresh(context.Background(), s, RefreshRequest{StartDate: "2025-01-10"})
	}()
	first := <-source.calls

	go func() {
		states <- o.Refresh(context.Background(), s, RefreshRequest{StartDate: "2025-01-20"})
	}()
	second := <-source.calls

	// The newer refresh completes first and must win.
	second.respond <- callResult{payload: payloadFor("2025-01-20", "2025-01-20", "2025-01-21")}
	newer := <-states
	require.Equal(t, "2025-01-20", newer.SelectedDate)

	// The older refresh resolves afterwards; its result must not overwrite.
	first.respond <- callResult{payload: payloadFor("2025-01-10", "2025-01-10", "2025-01-11")}
	older := <-states
	assert.Equal(t, "2025-01-20", older.SelectedDate, "stale completion returns the untouched state")

	final := o.State(s)
	assert.Equal(t, []string{"2025-01-20", "2025-01-21"}, final.AvailableDates)
	assert.Equal(t, "2025-01-20", final.SelectedDate)
}
