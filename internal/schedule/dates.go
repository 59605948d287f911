package schedule

import "time"

// ISODate is the wire format for calendar dates.
const ISODate = "2006-01-02"

// ParseDate parses an ISO date into a UTC midnight instant.
func ParseDate(iso string) (time.Time, error) {
	return time.Parse(ISODate, iso)
}

// FormatDate renders a time as an ISO date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(ISODate)
}

// TodayISO truncates an instant to its UTC calendar date.
func TodayISO(now time.Time) string {
	return FormatDate(now)
}

// AddDays shifts an ISO date by n days. An unparseable input is returned
// unchanged.
func AddDays(iso string, n int) string {
	t, err := ParseDate(iso)
	if err != nil {
		return iso
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// MonthStart floors an instant to the first of its month, UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
