package members

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const joinColumns = "id, uid, full_name, dni, birth_date, email, phone, address, experience, motivation, submitted_at, updated_at"

func (r *PGRepo) Insert(ctx context.Context, jr JoinRequest) (JoinRequest, error) {
	if jr.ID == "" {
		jr.ID = uuid.NewString()
	}
	experience, err := json.Marshal(cloneRequest(jr).Experience)
	if err != nil {
		return JoinRequest{}, fmt.Errorf("encode experience: %w", err)
	}
	const query = `
INSERT INTO join_requests (id, uid, full_name, dni, birth_date, email, phone, address, experience, motivation, submitted_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
RETURNING ` + joinColumns
	return scanJoinRequest(r.DB.QueryRowContext(ctx, query,
		jr.ID,
		nullableString(jr.UID),
		jr.FullName,
		jr.DNI,
		jr.BirthDate,
		jr.Email,
		jr.Phone,
		nullableString(jr.Address),
		string(experience),
		nullableString(jr.Motivation),
	))
}

func (r *PGRepo) Get(ctx context.Context, id string) (JoinRequest, error) {
	const query = "SELECT " + joinColumns + " FROM join_requests WHERE id = $1"
	return notFound(scanJoinRequest(r.DB.QueryRowContext(ctx, query, id)))
}

func (r *PGRepo) FindByUID(ctx context.Context, uid string) (JoinRequest, error) {
	const query = "SELECT " + joinColumns + " FROM join_requests WHERE uid = $1 ORDER BY submitted_at ASC LIMIT 1"
	return notFound(scanJoinRequest(r.DB.QueryRowContext(ctx, query, uid)))
}

func (r *PGRepo) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (JoinRequest, error) {
	const query = `
UPDATE join_requests
SET address = $1, birth_date = $2, phone = $3, motivation = $4, updated_at = now()
WHERE id = $5
RETURNING ` + joinColumns
	return notFound(scanJoinRequest(r.DB.QueryRowContext(ctx, query,
		nullableString(p.Address),
		p.BirthDate,
		p.Phone,
		nullableString(p.Motivation),
		id,
	)))
}

func scanJoinRequest(row *sql.Row) (JoinRequest, error) {
	var (
		jr         JoinRequest
		uid        sql.NullString
		address    sql.NullString
		motivation sql.NullString
		experience []byte
	)
	if err := row.Scan(
		&jr.ID,
		&uid,
		&jr.FullName,
		&jr.DNI,
		&jr.BirthDate,
		&jr.Email,
		&jr.Phone,
		&address,
		&experience,
		&motivation,
		&jr.SubmittedAt,
		&jr.UpdatedAt,
	); err != nil {
		return JoinRequest{}, err
	}
	jr.UID = uid.String
	jr.Address = address.String
	jr.Motivation = motivation.String
	if len(experience) > 0 {
		if err := json.Unmarshal(experience, &jr.Experience); err != nil {
			return JoinRequest{}, fmt.Errorf("decode experience of %s: %w", jr.ID, err)
		}
	}
	return cloneRequest(jr), nil
}

func notFound(jr JoinRequest, err error) (JoinRequest, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return JoinRequest{}, ErrNotFound
	}
	return jr, err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
