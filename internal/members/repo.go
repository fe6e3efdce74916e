package members

import "context"

// Repo persists join requests.
type Repo interface {
	Insert(ctx context.Context, jr JoinRequest) (JoinRequest, error)
	Get(ctx context.Context, id string) (JoinRequest, error)
	// FindByUID returns the earliest request submitted by the account.
	FindByUID(ctx context.Context, uid string) (JoinRequest, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (JoinRequest, error)
}
