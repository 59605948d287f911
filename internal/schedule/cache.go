package schedule

// Cache is the bounded local store of fetched schedule entries, keyed by ISO
// date. It is the single source of truth consumed by the availability index.
// Cache is not safe for concurrent use; the owning session serializes access.
type Cache struct {
	entries map[string]Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Merge inserts or overwrites entries by date key. Entries without a date are
// skipped silently rather than failing the whole batch. Merging the same
// entries twice leaves the cache unchanged after the first merge.
func (c *Cache) Merge(entries []Entry) {
	for _, entry := range entries {
		if entry.Date == "" {
			continue
		}
		c.entries[entry.Date] = entry
	}
}

// Prune removes every key outside [today, today+MaxWindowDays].
func (c *Cache) Prune(todayISO string) {
	maxISO := AddDays(todayISO, MaxWindowDays)
	for key := range c.entries {
		if key < todayISO || key > maxISO {
			delete(c.entries, key)
		}
	}
}

// Keys returns a snapshot of the stored date keys, in no particular order.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Get looks up the entry stored for a date.
func (c *Cache) Get(date string) (Entry, bool) {
	entry, ok := c.entries[date]
	return entry, ok
}

func (c *Cache) Len() int { return len(c.entries) }

// Reset empties the cache. Used when a refresh fails and the window's
// freshness can no longer be trusted.
func (c *Cache) Reset() {
	c.entries = make(map[string]Entry)
}
