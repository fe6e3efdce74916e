package records

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cruzados-backend/internal/commission"
)

// FirestoreRepo implements Repo over Cloud Firestore, one collection per
// commission. Documents written by earlier versions of the site may carry
// ISO-8601 strings instead of timestamps; reads accept both.
type FirestoreRepo struct {
	Client *firestore.Client
	Clock  *Clock
}

func (r *FirestoreRepo) clock() *Clock {
	if r.Clock != nil {
		return r.Clock
	}
	return defaultClock
}

func (r *FirestoreRepo) collection(c commission.Commission) (*firestore.CollectionRef, error) {
	name := c.Collection()
	if name == "" {
		return nil, commission.ErrUnknownCommission
	}
	return r.Client.Collection(name), nil
}

// List returns every document of the commission collection.
func (r *FirestoreRepo) List(ctx context.Context, c commission.Commission) ([]Record, error) {
	coll, err := r.collection(c)
	if err != nil {
		return nil, err
	}
	iter := coll.Documents(ctx)
	defer iter.Stop()

	out := []Record{}
	now := r.clock().Now()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, normalize(decodeFields(snap.Ref.ID, snap.Data()), now))
	}
	return out, nil
}

// Get returns the document with id, reporting false when it does not exist.
func (r *FirestoreRepo) Get(ctx context.Context, c commission.Commission, id string) (Record, bool, error) {
	coll, err := r.collection(c)
	if err != nil {
		return Record{}, false, err
	}
	snap, err := coll.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return normalize(decodeFields(snap.Ref.ID, snap.Data()), r.clock().Now()), true, nil
}

// Insert creates a document, letting Firestore assign the id unless the
// draft carries one.
func (r *FirestoreRepo) Insert(ctx context.Context, c commission.Commission, d Draft) (Record, error) {
	coll, err := r.collection(c)
	if err != nil {
		return Record{}, err
	}
	ref := coll.NewDoc()
	if d.ID != "" {
		ref = coll.Doc(d.ID)
	}
	now := r.clock().Next()
	files := cloneFiles(d.Files)
	data := map[string]any{
		"name":          d.Name,
		"category":      string(d.Category),
		"description":   d.Description,
		"files":         files,
		"date_added":    now,
		"last_modified": now,
		"created_at":    firestore.ServerTimestamp,
		"updated_at":    firestore.ServerTimestamp,
	}
	if _, err := ref.Create(ctx, data); err != nil {
		return Record{}, err
	}
	return Record{
		ID:           ref.ID,
		Name:         d.Name,
		Category:     d.Category,
		Description:  d.Description,
		DateAdded:    now,
		LastModified: now,
		Files:        files,
	}, nil
}

// Update merges the patch fields into the document and restamps
// last_modified, then reads the merged document back.
func (r *FirestoreRepo) Update(ctx context.Context, c commission.Commission, id string, p Patch) (Record, error) {
	coll, err := r.collection(c)
	if err != nil {
		return Record{}, err
	}
	var updates []firestore.Update
	if p.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *p.Name})
	}
	if p.Category != nil {
		updates = append(updates, firestore.Update{Path: "category", Value: string(*p.Category)})
	}
	if p.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *p.Description})
	}
	if p.Files != nil {
		updates = append(updates, firestore.Update{Path: "files", Value: cloneFiles(*p.Files)})
	}
	updates = append(updates,
		firestore.Update{Path: "last_modified", Value: r.clock().Next()},
		firestore.Update{Path: "updated_at", Value: firestore.ServerTimestamp},
	)

	ref := coll.Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return normalize(decodeFields(snap.Ref.ID, snap.Data()), r.clock().Now()), nil
}

// Delete removes the document, failing with ErrNotFound when it is absent.
func (r *FirestoreRepo) Delete(ctx context.Context, c commission.Commission, id string) error {
	coll, err := r.collection(c)
	if err != nil {
		return err
	}
	if _, err := coll.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// decodeFields reads a loosely-typed document map. Unusable values are
// treated as missing and left for normalize to default.
func decodeFields(id string, data map[string]any) storedRecord {
	raw := storedRecord{ID: id}
	raw.Name = stringField(data, "name")
	raw.Category = stringField(data, "category")
	raw.Description = stringField(data, "description")
	raw.DateAdded = timeField(data, "date_added")
	raw.LastModified = timeField(data, "last_modified")

	if list, ok := data["files"].([]any); ok {
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			var f File
			if s := stringField(m, "name"); s != nil {
				f.Name = *s
			}
			if s := stringField(m, "url"); s != nil {
				f.URL = *s
			}
			raw.Files = append(raw.Files, f)
		}
	}
	return raw
}

func stringField(data map[string]any, key string) *string {
	if s, ok := data[key].(string); ok {
		return &s
	}
	return nil
}

func timeField(data map[string]any, key string) *time.Time {
	switch v := data[key].(type) {
	case time.Time:
		return &v
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}

var _ Repo = (*FirestoreRepo)(nil)
