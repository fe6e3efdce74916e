package records

import (
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeFillsDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := normalize(storedRecord{ID: "r1"}, now)

	if rec.Category != CategoryDocument {
		t.Fatalf("category = %q, want %q", rec.Category, CategoryDocument)
	}
	if rec.Description != "" || rec.Name != "" {
		t.Fatalf("expected empty strings, got %+v", rec)
	}
	if rec.Files == nil || len(rec.Files) != 0 {
		t.Fatalf("files = %#v, want empty slice", rec.Files)
	}
	if !rec.DateAdded.Equal(now) || !rec.LastModified.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", rec.DateAdded, rec.LastModified, now)
	}
}

func TestNormalizeRepairsStoredValues(t *testing.T) {
	added := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	before := added.Add(-time.Hour)
	rec := normalize(storedRecord{
		ID:           "r1",
		Name:         ptr("Acta"),
		Category:     ptr("Pergamino"),
		DateAdded:    &added,
		LastModified: &before,
		Files:        []File{{Name: "acta.pdf", URL: "/a"}, {}},
	}, time.Now())

	if rec.Category != CategoryDocument {
		t.Fatalf("invalid category kept: %q", rec.Category)
	}
	if rec.LastModified.Before(rec.DateAdded) {
		t.Fatalf("last_modified %v before date_added %v", rec.LastModified, rec.DateAdded)
	}
	if rec.DateAdded.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps")
	}
	if len(rec.Files) != 1 || rec.Files[0].Name != "acta.pdf" {
		t.Fatalf("files = %+v", rec.Files)
	}
}

func TestNormalizeFallsBackToLastModified(t *testing.T) {
	modified := time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC)
	rec := normalize(storedRecord{Category: ptr("Imagen"), LastModified: &modified}, time.Now())
	if rec.Category != CategoryImage {
		t.Fatalf("category = %q", rec.Category)
	}
	if !rec.DateAdded.Equal(modified) {
		t.Fatalf("date_added = %v, want %v", rec.DateAdded, modified)
	}
}

func TestClockIsStrictlyIncreasing(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 999, time.UTC)
	c := NewClock(func() time.Time { return at })

	first := c.Next()
	if first.Nanosecond()%1000 != 0 {
		t.Fatalf("expected microsecond truncation, got %v", first)
	}
	prev := first
	for i := 0; i < 5; i++ {
		next := c.Next()
		if !next.After(prev) {
			t.Fatalf("Next did not advance: %v then %v", prev, next)
		}
		prev = next
	}
	if !c.Now().Equal(at) {
		t.Fatalf("Now = %v, want %v", c.Now(), at)
	}
}
