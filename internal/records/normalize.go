package records

import (
	"sync"
	"time"
)

// storedRecord is the loosely-typed shape read back from a backing store.
// Every repo funnels reads through normalize so callers only ever see a
// fully populated Record.
type storedRecord struct {
	ID           string
	Name         *string
	Category     *string
	Description  *string
	DateAdded    *time.Time
	LastModified *time.Time
	Files        []File
}

func normalize(raw storedRecord, now time.Time) Record {
	rec := Record{
		ID:    raw.ID,
		Files: []File{},
	}
	if raw.Name != nil {
		rec.Name = *raw.Name
	}
	if raw.Description != nil {
		rec.Description = *raw.Description
	}
	rec.Category = CategoryDocument
	if raw.Category != nil {
		if c, ok := ParseCategory(*raw.Category); ok {
			rec.Category = c
		}
	}
	for _, f := range raw.Files {
		if f.Name == "" && f.URL == "" {
			continue
		}
		rec.Files = append(rec.Files, f)
	}

	switch {
	case raw.DateAdded != nil && !raw.DateAdded.IsZero():
		rec.DateAdded = raw.DateAdded.UTC()
	case raw.LastModified != nil && !raw.LastModified.IsZero():
		rec.DateAdded = raw.LastModified.UTC()
	default:
		rec.DateAdded = now.UTC()
	}
	rec.LastModified = rec.DateAdded
	if raw.LastModified != nil && raw.LastModified.After(rec.DateAdded) {
		rec.LastModified = raw.LastModified.UTC()
	}
	return rec
}

var defaultClock = NewClock(nil)

// Clock hands out strictly increasing write timestamps truncated to the
// microsecond, the finest precision every backing store keeps.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock returns a Clock reading from now, or time.Now when nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Next returns a timestamp later than every previous one.
func (c *Clock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// Now returns the current time without advancing the write clock.
func (c *Clock) Now() time.Time {
	return c.now().UTC()
}
