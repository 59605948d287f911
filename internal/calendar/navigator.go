// Package calendar computes the month grid shown to the user and keeps the
// visible month inside the bounds derived from available dates.
package calendar

import (
	"time"

	"github.com/agendalivre/agenda/internal/schedule"
)

// Cell is one position in the 7-column, Monday-first month grid. Leading
// cells before the first day of the month are blank.
type Cell struct {
	Blank      bool   `json:"blank,omitempty"`
	Day        int    `json:"day,omitempty"`
	Date       string `json:"date,omitempty"`
	Selectable bool   `json:"selectable"`
	Selected   bool   `json:"selected,omitempty"`
}

// Grid is the rendered month view.
type Grid struct {
	MonthLabel  string `json:"month_label"`
	Cells       []Cell `json:"cells"`
	PrevEnabled bool   `json:"prev_enabled"`
	NextEnabled bool   `json:"next_enabled"`
}

// Navigator tracks the visible month independently from the selection. The
// zero value has no visible month until the first Reposition.
type Navigator struct {
	visible time.Time
}

// Visible returns the first-of-month currently shown; zero when unset.
func (n *Navigator) Visible() time.Time { return n.visible }

// Reset clears the visible month (no-data state).
func (n *Navigator) Reset() { n.visible = time.Time{} }

// Reposition moves the visible month to the selected date's month, clamped to
// the index bounds. Called on every applied refresh, superseding any paging
// that raced with it.
func (n *Navigator) Reposition(selected string, idx schedule.Index) {
	if idx.Empty() {
		n.Reset()
		return
	}
	month := idx.EarliestMonth
	if t, err := schedule.ParseDate(selected); err == nil {
		month = schedule.MonthStart(t)
	}
	n.visible = clampMonth(month, idx.EarliestMonth, idx.LatestMonth)
}

// Page moves the visible month by ±1, clamped to the index bounds. Paging
// past a bound, or paging with no data, is a no-op and returns false.
func (n *Navigator) Page(direction int, idx schedule.Index) bool {
	if idx.Empty() || n.visible.IsZero() {
		return false
	}
	switch direction {
	case -1:
		if !n.visible.After(idx.EarliestMonth) {
			return false
		}
	case 1:
		if !n.visible.Before(idx.LatestMonth) {
			return false
		}
	default:
		return false
	}
	n.visible = clampMonth(n.visible.AddDate(0, direction, 0), idx.EarliestMonth, idx.LatestMonth)
	return true
}

func clampMonth(month, earliest, latest time.Time) time.Time {
	if month.Before(earliest) {
		return earliest
	}
	if month.After(latest) {
		return latest
	}
	return month
}

// BuildGrid renders the visible month. A day is selectable iff it is on or
// after today and present in the availability index.
func BuildGrid(n *Navigator, idx schedule.Index, selected, todayISO string) Grid {
	if idx.Empty() || n.visible.IsZero() {
		return Grid{MonthLabel: "No dates available"}
	}

	visible := n.visible
	grid := Grid{
		MonthLabel:  visible.Format("January 2006"),
		PrevEnabled: visible.After(idx.EarliestMonth),
		NextEnabled: visible.Before(idx.LatestMonth),
	}

	// Monday-first: Go weekday has Sunday=0, so shift by six.
	leading := (int(visible.Weekday()) + 6) % 7
	for i := 0; i < leading; i++ {
		grid.Cells = append(grid.Cells, Cell{Blank: true})
	}

	daysInMonth := visible.AddDate(0, 1, -1).Day()
	for day := 1; day <= daysInMonth; day++ {
		date := schedule.FormatDate(visible.AddDate(0, 0, day-1))
		cell := Cell{Day: day, Date: date}
		if date >= todayISO && idx.Contains(date) {
			cell.Selectable = true
			cell.Selected = date == selected
		}
		grid.Cells = append(grid.Cells, cell)
	}

	return grid
}
