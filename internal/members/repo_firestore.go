package members

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection is the Firestore collection holding join requests.
const Collection = "joinRequests"

// FirestoreRepo implements Repo over Cloud Firestore. Dates written as
// ISO-8601 strings by older clients are read back as timestamps.
type FirestoreRepo struct {
	Client *firestore.Client
	now    func() time.Time
}

func (r *FirestoreRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

func (r *FirestoreRepo) Insert(ctx context.Context, jr JoinRequest) (JoinRequest, error) {
	coll := r.Client.Collection(Collection)
	ref := coll.NewDoc()
	if jr.ID != "" {
		ref = coll.Doc(jr.ID)
	}
	jr = cloneRequest(jr)
	jr.ID = ref.ID
	if jr.SubmittedAt.IsZero() {
		jr.SubmittedAt = r.clock()
	}
	jr.UpdatedAt = jr.SubmittedAt
	_, err := ref.Create(ctx, map[string]any{
		"uid":         jr.UID,
		"fullName":    jr.FullName,
		"dni":         jr.DNI,
		"birthDate":   jr.BirthDate,
		"email":       jr.Email,
		"phone":       jr.Phone,
		"address":     jr.Address,
		"experience":  jr.Experience,
		"motivation":  jr.Motivation,
		"submittedAt": jr.SubmittedAt,
		"updatedAt":   jr.UpdatedAt,
	})
	if err != nil {
		return JoinRequest{}, err
	}
	return jr, nil
}

func (r *FirestoreRepo) Get(ctx context.Context, id string) (JoinRequest, error) {
	snap, err := r.Client.Collection(Collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return JoinRequest{}, ErrNotFound
		}
		return JoinRequest{}, err
	}
	return decodeJoinRequest(snap.Ref.ID, snap.Data()), nil
}

func (r *FirestoreRepo) FindByUID(ctx context.Context, uid string) (JoinRequest, error) {
	iter := r.Client.Collection(Collection).Where("uid", "==", uid).Documents(ctx)
	defer iter.Stop()

	var (
		found JoinRequest
		ok    bool
	)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return JoinRequest{}, err
		}
		jr := decodeJoinRequest(snap.Ref.ID, snap.Data())
		if !ok || jr.SubmittedAt.Before(found.SubmittedAt) {
			found, ok = jr, true
		}
	}
	if !ok {
		return JoinRequest{}, ErrNotFound
	}
	return found, nil
}

func (r *FirestoreRepo) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (JoinRequest, error) {
	ref := r.Client.Collection(Collection).Doc(id)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "address", Value: p.Address},
		{Path: "birthDate", Value: p.BirthDate},
		{Path: "phone", Value: p.Phone},
		{Path: "motivation", Value: p.Motivation},
		{Path: "updatedAt", Value: r.clock()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return JoinRequest{}, ErrNotFound
		}
		return JoinRequest{}, err
	}
	return r.Get(ctx, id)
}

func decodeJoinRequest(id string, data map[string]any) JoinRequest {
	jr := JoinRequest{
		ID:          id,
		UID:         stringValue(data["uid"]),
		FullName:    stringValue(data["fullName"]),
		DNI:         stringValue(data["dni"]),
		BirthDate:   timeValue(data["birthDate"]),
		Email:       stringValue(data["email"]),
		Phone:       stringValue(data["phone"]),
		Address:     stringValue(data["address"]),
		Motivation:  stringValue(data["motivation"]),
		SubmittedAt: timeValue(data["submittedAt"]),
		UpdatedAt:   timeValue(data["updatedAt"]),
	}
	if list, ok := data["experience"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				jr.Experience = append(jr.Experience, s)
			}
		}
	}
	if jr.UpdatedAt.IsZero() {
		jr.UpdatedAt = jr.SubmittedAt
	}
	return cloneRequest(jr)
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func timeValue(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

var _ Repo = (*FirestoreRepo)(nil)
