// Package mail sends the association's notification emails.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ErrNotConfigured is returned by senders built without provider
// credentials.
var ErrNotConfigured = errors.New("mail sender not configured")

// Message is one outgoing email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers messages through an email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns a Resend-backed sender, or an unconfigured one when
// apiKey is empty.
func NewSender(apiKey string) Sender {
	if apiKey == "" {
		return Unconfigured{}
	}
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// Unconfigured fails every send with ErrNotConfigured.
type Unconfigured struct{}

// Send implements Sender.
func (Unconfigured) Send(context.Context, Message) error {
	return ErrNotConfigured
}
