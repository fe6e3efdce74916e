package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"cruzados-backend/internal/commission"
	"cruzados-backend/internal/shared/metrics"
	"cruzados-backend/internal/shared/telemetry"
)

// Service validates record writes, resolves attachments and writes through
// to the Repo.
type Service struct {
	Repo     Repo
	Resolver Resolver
	// NewID assigns ids for records whose attachments need an id-scoped
	// path before insert. Defaults to uuid.NewString.
	NewID func() string
}

// NewService builds a Service. A nil resolver uses PlaceholderResolver.
func NewService(repo Repo, resolver Resolver) *Service {
	if resolver == nil {
		resolver = PlaceholderResolver{}
	}
	return &Service{Repo: repo, Resolver: resolver, NewID: uuid.NewString}
}

// Search lists the commission's records matching term, newest first.
func (s *Service) Search(ctx context.Context, c commission.Commission, term string) ([]Record, error) {
	if !c.Valid() {
		return nil, commission.ErrUnknownCommission
	}
	start := time.Now()
	defer func() { metrics.ObserveStoreDuration(time.Since(start)) }()

	searcher := Searcher{Repo: s.Repo}
	recs, err := searcher.Search(ctx, c, term)
	if err != nil {
		return nil, s.storeFailure("list", c, "", err)
	}
	return recs, nil
}

// Get returns one record, or ErrNotFound.
func (s *Service) Get(ctx context.Context, c commission.Commission, id string) (Record, error) {
	if !c.Valid() {
		return Record{}, commission.ErrUnknownCommission
	}
	rec, ok, err := s.Repo.Get(ctx, c, id)
	if err != nil {
		return Record{}, s.storeFailure("get", c, id, err)
	}
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Create validates in, stores its attachments and inserts the record.
func (s *Service) Create(ctx context.Context, c commission.Commission, in Input) (Record, error) {
	if !c.Valid() {
		return Record{}, commission.ErrUnknownCommission
	}
	v, err := validate(in, msgCreateInvalid)
	if err != nil {
		metrics.IncRecordWrite("create", "invalid")
		return Record{}, err
	}

	draft := Draft{Name: v.name, Category: v.category, Description: v.description}
	if len(v.uploads) > 0 {
		draft.ID = s.newID()
		files, err := s.Resolver.Resolve(ctx, c, draft.ID, v.uploads)
		if err != nil {
			metrics.IncRecordWrite("create", "storage_error")
			return Record{}, s.storageFailure("create", c, draft.ID, err)
		}
		draft.Files = files
	}

	rec, err := s.Repo.Insert(ctx, c, draft)
	if err != nil {
		s.Resolver.Remove(ctx, draft.Files)
		metrics.IncRecordWrite("create", "store_error")
		return Record{}, s.storeFailure("insert", c, draft.ID, err)
	}
	metrics.IncRecordWrite("create", "ok")
	telemetry.Info("record.created", map[string]any{
		"commission": string(c),
		"record_id":  rec.ID,
		"files":      len(rec.Files),
	})
	return rec, nil
}

// Update validates in and merges it onto the stored record. New uploads
// replace the whole attachment list; without uploads the stored files are
// kept.
func (s *Service) Update(ctx context.Context, c commission.Commission, id string, in Input) (Record, error) {
	if !c.Valid() {
		return Record{}, commission.ErrUnknownCommission
	}
	v, err := validate(in, msgUpdateInvalid)
	if err != nil {
		metrics.IncRecordWrite("update", "invalid")
		return Record{}, err
	}

	if _, ok, err := s.Repo.Get(ctx, c, id); err != nil {
		metrics.IncRecordWrite("update", "store_error")
		return Record{}, s.storeFailure("get", c, id, err)
	} else if !ok {
		metrics.IncRecordWrite("update", "not_found")
		return Record{}, ErrNotFound
	}

	patch := Patch{Name: &v.name, Category: &v.category, Description: &v.description}
	var uploaded []File
	if len(v.uploads) > 0 {
		uploaded, err = s.Resolver.Resolve(ctx, c, id, v.uploads)
		if err != nil {
			metrics.IncRecordWrite("update", "storage_error")
			return Record{}, s.storageFailure("update", c, id, err)
		}
		patch.Files = &uploaded
	}

	rec, err := s.Repo.Update(ctx, c, id, patch)
	if err != nil {
		s.Resolver.Remove(ctx, uploaded)
		if errors.Is(err, ErrNotFound) {
			metrics.IncRecordWrite("update", "not_found")
			return Record{}, ErrNotFound
		}
		metrics.IncRecordWrite("update", "store_error")
		return Record{}, s.storeFailure("update", c, id, err)
	}
	metrics.IncRecordWrite("update", "ok")
	telemetry.Info("record.updated", map[string]any{
		"commission":     string(c),
		"record_id":      id,
		"files_replaced": patch.Files != nil,
	})
	return rec, nil
}

// Delete removes the record permanently. Stored attachments are left in
// place.
func (s *Service) Delete(ctx context.Context, c commission.Commission, id string) error {
	if !c.Valid() {
		return commission.ErrUnknownCommission
	}
	if err := s.Repo.Delete(ctx, c, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncRecordWrite("delete", "not_found")
			return ErrNotFound
		}
		metrics.IncRecordWrite("delete", "store_error")
		return s.storeFailure("delete", c, id, err)
	}
	metrics.IncRecordWrite("delete", "ok")
	// TODO: remove stored attachments here once orphaned files in the
	// object store are confirmed safe to delete.
	telemetry.Info("record.deleted", map[string]any{
		"commission":           string(c),
		"record_id":            id,
		"attachments_retained": true,
	})
	return nil
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// storeFailure wraps err as a *StoreError once and logs it with context.
func (s *Service) storeFailure(op string, c commission.Commission, id string, err error) error {
	var se *StoreError
	if !errors.As(err, &se) {
		se = &StoreError{Op: op, Commission: c, Err: err}
	}
	telemetry.Error("record.store_failed", map[string]any{
		"op":         se.Op,
		"commission": string(c),
		"record_id":  id,
		"err":        se.Err,
	})
	return se
}

func (s *Service) storageFailure(op string, c commission.Commission, id string, err error) error {
	var se *StorageError
	if !errors.As(err, &se) {
		se = &StorageError{Err: err}
	}
	telemetry.Error("record.upload_failed", map[string]any{
		"op":         op,
		"commission": string(c),
		"record_id":  id,
		"file":       se.FileName,
		"err":        se.Err,
	})
	return se
}
