package schedule

import (
	"reflect"
	"sort"
	"testing"
)

func entry(date string) Entry {
	return Entry{
		Date:         date,
		Professional: Professional{ID: "2684", Name: "Dr(a). Pat Duarte"},
		Specialty:    Specialty{Name: "Cardiologia"},
		Unit:         Unit{ID: "901", Name: "Clínica Central"},
		Room:         Room{Name: "Sala 3"},
		Slots:        []Slot{{Start: "09:00", Available: true}},
	}
}

func sortedKeys(c *Cache) []string {
	keys := c.Keys()
	sort.Strings(keys)
	return keys
}

func TestMergeSkipsEntriesWithoutDate(t *testing.T) {
	c := NewCache()
	c.Merge([]Entry{entry("2025-01-10"), {Date: ""}, entry("2025-01-11")})
	if got := sortedKeys(c); !reflect.DeepEqual(got, []string{"2025-01-10", "2025-01-11"}) {
		t.Fatalf("unexpected keys: %v", got)
	}
}

func TestMergeOverwritesByDate(t *testing.T) {
	c := NewCache()
	first := entry("2025-01-10")
	c.Merge([]Entry{first})

	replacement := entry("2025-01-10")
	replacement.Room.Name = "Sala 7"
	c.Merge([]Entry{replacement})

	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	stored, ok := c.Get("2025-01-10")
	if !ok || stored.Room.Name != "Sala 7" {
		t.Fatalf("expected wholesale replacement, got %+v", stored)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	entries := []Entry{entry("2025-01-10"), entry("2025-01-12")}

	once := NewCache()
	once.Merge(entries)

	twice := NewCache()
	twice.Merge(entries)
	twice.Merge(entries)

	if !reflect.DeepEqual(once.entries, twice.entries) {
		t.Fatalf("double merge diverged: %v vs %v", once.entries, twice.entries)
	}
}

func TestPruneKeepsOnlyTheWindow(t *testing.T) {
	today := "2025-01-10"
	c := NewCache()
	c.Merge([]Entry{
		entry("2025-01-09"), // yesterday
		entry(today),
		entry(AddDays(today, MaxWindowDays)),
		entry(AddDays(today, MaxWindowDays+1)),
	})

	c.Prune(today)

	want := []string{today, AddDays(today, MaxWindowDays)}
	if got := sortedKeys(c); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected window %v, got %v", want, got)
	}
}

func TestResetEmptiesTheCache(t *testing.T) {
	c := NewCache()
	c.Merge([]Entry{entry("2025-01-10")})
	c.Reset()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}
