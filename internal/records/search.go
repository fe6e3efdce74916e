package records

import (
	"context"
	"sort"
	"strings"

	"cruzados-backend/internal/commission"
)

// Lister is the listing slice of Repo.
type Lister interface {
	List(ctx context.Context, c commission.Commission) ([]Record, error)
}

// Searcher answers filtered listings of a commission.
type Searcher struct {
	Repo Lister
}

// Search returns the commission's records whose name, description or
// category contains term, case-insensitively. An empty term matches every
// record; any other term, spaces included, is matched as given. Results
// are ordered by last_modified, newest first, with ties kept in store
// order.
func (s *Searcher) Search(ctx context.Context, c commission.Commission, term string) ([]Record, error) {
	recs, err := s.Repo.List(ctx, c)
	if err != nil {
		return nil, &StoreError{Op: "list", Commission: c, Err: err}
	}
	out := Filter(recs, term)
	SortNewestFirst(out)
	return out, nil
}

// Filter keeps the records matching term. The input slice is not modified.
func Filter(recs []Record, term string) []Record {
	out := make([]Record, 0, len(recs))
	needle := strings.ToLower(term)
	for _, rec := range recs {
		if term == "" || matches(rec, needle) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec Record, needle string) bool {
	return strings.Contains(strings.ToLower(rec.Name), needle) ||
		strings.Contains(strings.ToLower(rec.Description), needle) ||
		strings.Contains(strings.ToLower(string(rec.Category)), needle)
}

// SortNewestFirst orders recs by last_modified descending, stably.
func SortNewestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].LastModified.After(recs[j].LastModified)
	})
}
