package users

import (
	"context"
	"errors"
)

// ErrNotFound indicates no account exists for the id.
var ErrNotFound = errors.New("user not found")

// Repo persists member accounts.
type Repo interface {
	Upsert(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
