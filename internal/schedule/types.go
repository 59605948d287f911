package schedule

import (
	"bytes"
	"strconv"
)

// MaxWindowDays bounds the local cache to a rolling window starting today.
const MaxWindowDays = 120

// ID tolerates upstream payloads that encode identifiers as either JSON
// strings or numbers; the v1 and v2 backends disagree on this.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*id = ID(unquoted)
		return nil
	}
	*id = ID(data)
	return nil
}

func (id ID) String() string { return string(id) }

// Slot is a single bookable time within a schedule entry.
type Slot struct {
	Start     string `json:"start"`
	Available bool   `json:"available"`
}

type Professional struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Specialty struct {
	Name string `json:"name"`
}

type Unit struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Room struct {
	Name string `json:"name"`
}

// Entry is one calendar date's full agenda. Entries are immutable once
// received; fetching the same date again replaces the stored entry wholesale.
type Entry struct {
	Date         string       `json:"date"`
	Professional Professional `json:"professional"`
	Specialty    Specialty    `json:"specialty"`
	Unit         Unit         `json:"unit"`
	Room         Room         `json:"room"`
	Slots        []Slot       `json:"slots"`
}

// Filters is the server-echoed request context. It never mutates the cache;
// it only informs default selection and the human-readable summary.
type Filters struct {
	ProfessionalID   ID     `json:"professional_id"`
	UnitID           ID     `json:"unit_id"`
	StartDateApplied string `json:"start_date_applied,omitempty"`
	DaysReturned     int    `json:"days_returned,omitempty"`
	GeneratedAt      string `json:"generated_at,omitempty"`
}
