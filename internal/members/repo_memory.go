package members

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo keeps join requests in process memory, in submission order.
type MemoryRepo struct {
	mu    sync.RWMutex
	items []JoinRequest
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

func (r *MemoryRepo) Insert(ctx context.Context, jr JoinRequest) (JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return JoinRequest{}, err
	}
	if jr.ID == "" {
		jr.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if jr.SubmittedAt.IsZero() {
		jr.SubmittedAt = r.now().UTC()
	}
	jr.UpdatedAt = jr.SubmittedAt
	jr = cloneRequest(jr)
	r.items = append(r.items, jr)
	return cloneRequest(jr), nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return JoinRequest{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, jr := range r.items {
		if jr.ID == id {
			return cloneRequest(jr), nil
		}
	}
	return JoinRequest{}, ErrNotFound
}

func (r *MemoryRepo) FindByUID(ctx context.Context, uid string) (JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return JoinRequest{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, jr := range r.items {
		if jr.UID == uid {
			return cloneRequest(jr), nil
		}
	}
	return JoinRequest{}, ErrNotFound
}

func (r *MemoryRepo) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return JoinRequest{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, jr := range r.items {
		if jr.ID != id {
			continue
		}
		jr = p.apply(jr)
		jr.UpdatedAt = r.now().UTC()
		r.items[i] = jr
		return cloneRequest(jr), nil
	}
	return JoinRequest{}, ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
