package engine

import (
	"github.com/agendalivre/agenda/internal/calendar"
	"github.com/agendalivre/agenda/internal/schedule"
)

// placeholder is the single fallback value for every optional display field.
const placeholder = "—"

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// Card is one date in the detail window: either a cached agenda or an
// explicit placeholder when the date has no data yet.
type Card struct {
	Date         string          `json:"date"`
	Placeholder  bool            `json:"placeholder,omitempty"`
	Title        string          `json:"title"`
	Professional string          `json:"professional"`
	Specialty    string          `json:"specialty"`
	Unit         string          `json:"unit"`
	Room         string          `json:"room"`
	Slots        []schedule.Slot `json:"slots"`
}

// ViewState is everything the (external) renderer needs after a completed
// operation. It is a pure snapshot; rendering it must not mutate the session.
type ViewState struct {
	SessionID      string           `json:"session_id"`
	Version        string           `json:"version"`
	VersionLabel   string           `json:"version_label"`
	Status         Status           `json:"status"`
	Summary        string           `json:"summary,omitempty"`
	SelectedDate   string           `json:"selected_date,omitempty"`
	AvailableDates []string         `json:"available_dates"`
	Calendar       calendar.Grid    `json:"calendar"`
	Cards          []Card           `json:"cards"`
	Filters        schedule.Filters `json:"filters"`
}

// buildViewState reduces the session to its renderable form. Callers hold
// the session lock.
func buildViewState(s *Session, todayISO string) ViewState {
	state := ViewState{
		SessionID:      s.ID,
		Version:        s.version,
		VersionLabel:   versionLabels[s.version],
		Status:         s.status,
		Summary:        s.summary,
		SelectedDate:   s.selection.Date,
		AvailableDates: s.index.Dates,
		Calendar:       calendar.BuildGrid(&s.nav, s.index, s.selection.Date, todayISO),
		Filters:        s.lastFilters,
	}

	if s.selection.None() {
		return state
	}

	for i := 0; i < cardWindowSize; i++ {
		date := schedule.AddDays(s.selection.Date, i)
		entry, ok := s.cache.Get(date)
		if !ok {
			state.Cards = append(state.Cards, Card{
				Date:         date,
				Placeholder:  true,
				Title:        "Agenda unavailable",
				Professional: placeholder,
				Specialty:    placeholder,
				Unit:         placeholder,
				Room:         placeholder,
			})
			continue
		}
		state.Cards = append(state.Cards, Card{
			Date:         entry.Date,
			Title:        "Agenda – " + orPlaceholder(entry.Specialty.Name),
			Professional: orPlaceholder(entry.Professional.Name),
			Specialty:    orPlaceholder(entry.Specialty.Name),
			Unit:         orPlaceholder(entry.Unit.Name),
			Room:         orPlaceholder(entry.Room.Name),
			Slots:        entry.Slots,
		})
	}
	return state
}

// BookingDetail is one labelled row of the booking confirmation view.
type BookingDetail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BookingDetails enumerates every confirmation field with its fallback, so
// the renderer never has to guess defaults per call site.
func BookingDetails(versionLabel string, entry schedule.Entry, start string) []BookingDetail {
	return []BookingDetail{
		{Label: "Version", Value: orPlaceholder(versionLabel)},
		{Label: "Date", Value: orPlaceholder(entry.Date)},
		{Label: "Time", Value: orPlaceholder(start)},
		{Label: "Professional", Value: orPlaceholder(entry.Professional.ID.String()) + " — " + orPlaceholder(entry.Professional.Name)},
		{Label: "Specialty", Value: orPlaceholder(entry.Specialty.Name)},
		{Label: "Unit", Value: orPlaceholder(entry.Unit.ID.String()) + " — " + orPlaceholder(entry.Unit.Name)},
		{Label: "Room", Value: orPlaceholder(entry.Room.Name)},
	}
}
