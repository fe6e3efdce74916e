package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = "id, email, full_name, picture_url, created_at, updated_at"

func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, full_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.PictureURL),
	))
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = "SELECT " + userColumns + " FROM users WHERE id = $1 LIMIT 1"
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var fullName, pictureURL sql.NullString
	if err := row.Scan(&user.ID, &user.Email, &fullName, &pictureURL, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, err
	}
	user.FullName = fullName.String
	user.PictureURL = pictureURL.String
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
