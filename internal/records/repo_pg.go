package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"cruzados-backend/internal/commission"
)

// PGRepo implements Repo using Postgres, one table per commission.
type PGRepo struct {
	DB    *sql.DB
	Clock *Clock
}

const recordColumns = "id, name, category, description, files, date_added, last_modified"

// tableFor resolves the physical table. Table names only ever come from the
// commission enum, never from request input.
func tableFor(c commission.Commission) (string, error) {
	table := c.Collection()
	if table == "" {
		return "", commission.ErrUnknownCommission
	}
	return table, nil
}

func (r *PGRepo) clock() *Clock {
	if r.Clock != nil {
		return r.Clock
	}
	return defaultClock
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanRecord(row rowScanner) (Record, error) {
	var (
		raw          storedRecord
		name         sql.NullString
		category     sql.NullString
		description  sql.NullString
		files        []byte
		dateAdded    sql.NullTime
		lastModified sql.NullTime
	)
	if err := row.Scan(&raw.ID, &name, &category, &description, &files, &dateAdded, &lastModified); err != nil {
		return Record{}, err
	}
	if name.Valid {
		raw.Name = &name.String
	}
	if category.Valid {
		raw.Category = &category.String
	}
	if description.Valid {
		raw.Description = &description.String
	}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &raw.Files); err != nil {
			return Record{}, fmt.Errorf("decode files of record %s: %w", raw.ID, err)
		}
	}
	if dateAdded.Valid {
		raw.DateAdded = &dateAdded.Time
	}
	if lastModified.Valid {
		raw.LastModified = &lastModified.Time
	}
	return normalize(raw, r.clock().Now()), nil
}

// List returns every record in insertion order.
func (r *PGRepo) List(ctx context.Context, c commission.Commission) ([]Record, error) {
	table, err := tableFor(c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + recordColumns + " FROM " + table + " ORDER BY created_at ASC, id ASC"
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns the record with id, reporting false when it does not exist.
func (r *PGRepo) Get(ctx context.Context, c commission.Commission, id string) (Record, bool, error) {
	table, err := tableFor(c)
	if err != nil {
		return Record{}, false, err
	}
	query := "SELECT " + recordColumns + " FROM " + table + " WHERE id = $1"
	rec, err := r.scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, true, nil
}

// Insert stores a new record and stamps both timestamps.
func (r *PGRepo) Insert(ctx context.Context, c commission.Commission, d Draft) (Record, error) {
	table, err := tableFor(c)
	if err != nil {
		return Record{}, err
	}
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	files := cloneFiles(d.Files)
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return Record{}, fmt.Errorf("encode files: %w", err)
	}
	now := r.clock().Next()

	query := "INSERT INTO " + table + " (" + recordColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7)"
	if _, err := r.DB.ExecContext(ctx, query, id, d.Name, string(d.Category), d.Description, string(filesJSON), now, now); err != nil {
		return Record{}, err
	}
	return Record{
		ID:           id,
		Name:         d.Name,
		Category:     d.Category,
		Description:  d.Description,
		DateAdded:    now,
		LastModified: now,
		Files:        files,
	}, nil
}

// Update merges the patch into the stored row and restamps last_modified.
func (r *PGRepo) Update(ctx context.Context, c commission.Commission, id string, p Patch) (Record, error) {
	table, err := tableFor(c)
	if err != nil {
		return Record{}, err
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Category != nil {
		add("category", string(*p.Category))
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Files != nil {
		filesJSON, err := json.Marshal(cloneFiles(*p.Files))
		if err != nil {
			return Record{}, fmt.Errorf("encode files: %w", err)
		}
		add("files", string(filesJSON))
	}
	add("last_modified", r.clock().Next())
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) + " RETURNING " + recordColumns
	rec, err := r.scanRecord(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// Delete removes the row permanently.
func (r *PGRepo) Delete(ctx context.Context, c commission.Commission, id string) error {
	table, err := tableFor(c)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
