package schedule

import (
	"sort"
	"time"
)

// Index is the derived view of the cache: the sorted future dates with data
// and the first-of-month bounds that clamp calendar navigation. An Index is
// immutable once built; every refresh produces a fresh one.
type Index struct {
	Dates         []string
	EarliestMonth time.Time
	LatestMonth   time.Time
}

// BuildIndex filters the cache to dates on or after today, sorted ascending.
// EarliestMonth is floored upward to the current month: pruning normally
// guarantees no past dates, but clock skew between prune and rebuild must not
// let the calendar navigate into the past.
func BuildIndex(c *Cache, todayISO string) Index {
	dates := make([]string, 0, c.Len())
	for _, key := range c.Keys() {
		if key >= todayISO {
			dates = append(dates, key)
		}
	}
	sort.Strings(dates)

	if len(dates) == 0 {
		return Index{}
	}

	idx := Index{Dates: dates}

	if earliest, err := ParseDate(dates[0]); err == nil {
		idx.EarliestMonth = MonthStart(earliest)
	}
	if today, err := ParseDate(todayISO); err == nil {
		if current := MonthStart(today); idx.EarliestMonth.Before(current) {
			idx.EarliestMonth = current
		}
	}
	if latest, err := ParseDate(dates[len(dates)-1]); err == nil {
		idx.LatestMonth = MonthStart(latest)
	}

	return idx
}

func (i Index) Empty() bool { return len(i.Dates) == 0 }

// Earliest returns the first available date, or "" when the index is empty.
func (i Index) Earliest() string {
	if i.Empty() {
		return ""
	}
	return i.Dates[0]
}

// Contains reports whether a date is available.
func (i Index) Contains(date string) bool {
	if date == "" {
		return false
	}
	pos := sort.SearchStrings(i.Dates, date)
	return pos < len(i.Dates) && i.Dates[pos] == date
}
