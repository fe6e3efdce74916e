package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestNotifyJoinRequest(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "", "")

	err := n.NotifyJoinRequest(context.Background(), JoinRequest{
		FullName:   "Juan <b>Pérez</b>",
		DNI:        "12345678Z",
		BirthDate:  time.Date(1990, 3, 7, 0, 0, 0, 0, time.UTC),
		Email:      "juan@example.com",
		Phone:      "612345678",
		Experience: []string{"desfiles", "esgrima"},
	})
	if err != nil {
		t.Fatalf("NotifyJoinRequest: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.From != DefaultFrom || len(msg.To) != 1 || msg.To[0] != DefaultTo {
		t.Fatalf("addresses = %q -> %v", msg.From, msg.To)
	}
	if msg.Subject != "Nueva Solicitud de Unión: Juan <b>Pérez</b>" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	for _, want := range []string{
		"07/03/1990",
		"desfiles, esgrima",
		"<strong>Dirección:</strong> No especificada",
		"<strong>Motivación:</strong> No especificada",
		"Juan &lt;b&gt;Pérez&lt;/b&gt;",
	} {
		if !strings.Contains(msg.HTML, want) {
			t.Fatalf("body missing %q:\n%s", want, msg.HTML)
		}
	}
}

func TestNotifyContactSetsReplyTo(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "Cruzados <avisos@cruzados.test>", "buzon@cruzados.test")

	err := n.NotifyContact(context.Background(), Contact{
		Name:    "Ana",
		Email:   "ana@example.com",
		Subject: "Ensayos",
		Message: "Hola,\n¿cuándo ensayáis?",
	})
	if err != nil {
		t.Fatalf("NotifyContact: %v", err)
	}
	msg := sender.sent[0]
	if msg.ReplyTo != "ana@example.com" {
		t.Fatalf("reply-to = %q", msg.ReplyTo)
	}
	if msg.From != `"Formulario Web" <avisos@cruzados.test>` {
		t.Fatalf("from = %q", msg.From)
	}
	if msg.To[0] != "buzon@cruzados.test" || msg.Subject != "Nuevo Mensaje de Contacto: Ensayos" {
		t.Fatalf("message = %+v", msg)
	}
	if !strings.Contains(msg.HTML, `<p style="white-space: pre-wrap;">Hola,`) {
		t.Fatalf("body = %s", msg.HTML)
	}
}

func TestNotifierWrapsSenderErrors(t *testing.T) {
	n := NewNotifier(Unconfigured{}, "", "")
	err := n.NotifyContact(context.Background(), Contact{Name: "a", Email: "a@b.c", Subject: "s", Message: "m"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}

	boom := errors.New("provider down")
	n = NewNotifier(&recordingSender{err: boom}, "", "")
	if err := n.NotifyJoinRequest(context.Background(), JoinRequest{FullName: "x"}); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped provider error", err)
	}
}

func TestNewSenderWithoutKeyIsUnconfigured(t *testing.T) {
	if _, ok := NewSender("").(Unconfigured); !ok {
		t.Fatalf("expected Unconfigured sender without api key")
	}
	if _, ok := NewSender("re_test").(*ResendSender); !ok {
		t.Fatalf("expected ResendSender with api key")
	}
}
