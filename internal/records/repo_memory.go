package records

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"cruzados-backend/internal/commission"
)

// MemoryRepo is an in-memory implementation of Repo. Records keep their
// insertion order per commission.
type MemoryRepo struct {
	clock *Clock

	mu    sync.RWMutex
	data  map[commission.Commission][]Record
	index map[commission.Commission]map[string]int
}

// NewMemoryRepo constructs a MemoryRepo. A nil clock uses wall time.
func NewMemoryRepo(clock *Clock) *MemoryRepo {
	if clock == nil {
		clock = NewClock(nil)
	}
	return &MemoryRepo{
		clock: clock,
		data:  make(map[commission.Commission][]Record),
		index: make(map[commission.Commission]map[string]int),
	}
}

// List returns copies of every record in the commission.
func (r *MemoryRepo) List(ctx context.Context, c commission.Commission) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	recs := r.data[c]
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

// Get returns the record with id, reporting false when it does not exist.
func (r *MemoryRepo) Get(ctx context.Context, c commission.Commission, id string) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[c][id]
	if !ok {
		return Record{}, false, nil
	}
	return cloneRecord(r.data[c][i]), true, nil
}

// Insert stores a new record and stamps both timestamps.
func (r *MemoryRepo) Insert(ctx context.Context, c commission.Commission, d Draft) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.index[c][id]; dup {
		return Record{}, &StoreError{Op: "insert", Commission: c, Err: errDuplicateID}
	}
	now := r.clock.Next()
	rec := Record{
		ID:           id,
		Name:         d.Name,
		Category:     d.Category,
		Description:  d.Description,
		DateAdded:    now,
		LastModified: now,
		Files:        cloneFiles(d.Files),
	}
	if r.index[c] == nil {
		r.index[c] = make(map[string]int)
	}
	r.index[c][id] = len(r.data[c])
	r.data[c] = append(r.data[c], rec)
	return cloneRecord(rec), nil
}

// Update merges the patch into the stored record and restamps last_modified.
func (r *MemoryRepo) Update(ctx context.Context, c commission.Commission, id string, p Patch) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[c][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := p.apply(r.data[c][i])
	rec.LastModified = r.clock.Next()
	r.data[c][i] = rec
	return cloneRecord(rec), nil
}

// Delete removes the record permanently.
func (r *MemoryRepo) Delete(ctx context.Context, c commission.Commission, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[c][id]
	if !ok {
		return ErrNotFound
	}
	recs := r.data[c]
	copy(recs[i:], recs[i+1:])
	recs[len(recs)-1] = Record{}
	r.data[c] = recs[:len(recs)-1]
	delete(r.index[c], id)
	for j := i; j < len(r.data[c]); j++ {
		r.index[c][r.data[c][j].ID] = j
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
