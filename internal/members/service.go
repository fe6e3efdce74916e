package members

import (
	"context"
	"errors"
	"fmt"

	"cruzados-backend/internal/mail"
	"cruzados-backend/internal/shared/metrics"
	"cruzados-backend/internal/shared/telemetry"
	"cruzados-backend/internal/shared/util"
)

// Notifier delivers the association's inbox notifications.
type Notifier interface {
	NotifyJoinRequest(ctx context.Context, jr mail.JoinRequest) error
	NotifyContact(ctx context.Context, msg mail.Contact) error
}

// Service handles join requests, member profiles and the contact form.
type Service struct {
	Repo     Repo
	Notifier Notifier
}

func NewService(repo Repo, notifier Notifier) *Service {
	return &Service{Repo: repo, Notifier: notifier}
}

// Join validates in and stores it as a request owned by uid. The inbox
// notification is sent first; its failure is logged and does not block
// the submission.
func (s *Service) Join(ctx context.Context, uid string, in JoinInput) (JoinRequest, error) {
	jr, err := validateJoin(in)
	if err != nil {
		metrics.IncJoinRequest("invalid")
		return JoinRequest{}, err
	}
	jr.UID = uid

	if s.Notifier != nil {
		if err := s.Notifier.NotifyJoinRequest(ctx, toMail(jr)); err != nil {
			telemetry.Warn("members.join.notify_failed", map[string]any{
				"email_fp": util.Fingerprint(jr.Email),
				"error":    err.Error(),
			})
		}
	}

	saved, err := s.Repo.Insert(ctx, jr)
	if err != nil {
		metrics.IncJoinRequest("store_error")
		return JoinRequest{}, fmt.Errorf("insert join request: %w", err)
	}
	metrics.IncJoinRequest("ok")
	telemetry.Info("members.join.saved", map[string]any{
		"join_request_id": saved.ID,
		"email_fp":        util.Fingerprint(saved.Email),
	})
	return saved, nil
}

// ProfileForUser returns the join request submitted by uid.
func (s *Service) ProfileForUser(ctx context.Context, uid string) (JoinRequest, error) {
	jr, err := s.Repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return JoinRequest{}, ErrNotFound
		}
		return JoinRequest{}, fmt.Errorf("find join request: %w", err)
	}
	return jr, nil
}

// UpdateProfile changes the editable fields of join request id. Only the
// account that submitted it may do so.
func (s *Service) UpdateProfile(ctx context.Context, uid, id string, in ProfileInput) (JoinRequest, error) {
	p, err := validateProfile(in)
	if err != nil {
		return JoinRequest{}, err
	}
	current, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return JoinRequest{}, ErrNotFound
		}
		return JoinRequest{}, fmt.Errorf("get join request: %w", err)
	}
	if current.UID == "" || current.UID != uid {
		return JoinRequest{}, ErrForbidden
	}
	updated, err := s.Repo.UpdateProfile(ctx, id, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return JoinRequest{}, ErrNotFound
		}
		return JoinRequest{}, fmt.Errorf("update join request: %w", err)
	}
	return updated, nil
}

// Contact validates and forwards a contact-form message. Unlike Join the
// email is the whole operation, so a delivery failure is returned.
func (s *Service) Contact(ctx context.Context, in ContactInput) error {
	msg, err := validateContact(in)
	if err != nil {
		return err
	}
	if s.Notifier == nil {
		return fmt.Errorf("%w: no notifier", ErrDelivery)
	}
	err = s.Notifier.NotifyContact(ctx, mail.Contact{
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Message: msg.Message,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func toMail(jr JoinRequest) mail.JoinRequest {
	return mail.JoinRequest{
		FullName:   jr.FullName,
		DNI:        jr.DNI,
		BirthDate:  jr.BirthDate,
		Email:      jr.Email,
		Phone:      jr.Phone,
		Address:    jr.Address,
		Experience: append([]string(nil), jr.Experience...),
		Motivation: jr.Motivation,
	}
}
