package schedule

// Selection is the single date treated as currently shown. The zero value
// means no selection.
type Selection struct {
	Date string
}

func (s Selection) None() bool { return s.Date == "" }

// SelectionInput carries everything the selection rule looks at after a
// refresh completes.
type SelectionInput struct {
	// RequestedStart is the date the user asked the refresh to start from.
	RequestedStart string
	// ServerAppliedStart is filters.start_date_applied from the response. The
	// backend may snap an out-of-range request to the nearest valid date, so
	// its applied value outranks what the client asked for.
	ServerAppliedStart string
	Previous           Selection
	Preserve           bool
}

// ResolveSelection decides which date is selected after a refresh. The result
// is always a member of the index unless the index is empty.
func ResolveSelection(idx Index, in SelectionInput) Selection {
	if idx.Empty() {
		return Selection{}
	}

	candidate := idx.Earliest()
	switch {
	case idx.Contains(in.ServerAppliedStart):
		candidate = in.ServerAppliedStart
	case idx.Contains(in.RequestedStart):
		candidate = in.RequestedStart
	}

	selected := Selection{Date: candidate}
	if in.Preserve && idx.Contains(in.Previous.Date) {
		selected = in.Previous
	}

	// Stale state must never leak a non-member date out of a refresh.
	if !idx.Contains(selected.Date) {
		selected = Selection{Date: idx.Earliest()}
	}
	return selected
}
