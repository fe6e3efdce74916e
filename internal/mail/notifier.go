package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	netmail "net/mail"
	"strings"
	"time"

	"cruzados-backend/internal/shared/metrics"
	"cruzados-backend/internal/shared/telemetry"
)

// Default addresses used when configuration leaves them empty.
const (
	DefaultFrom = "Cruzados de la Vera Cruz <onboarding@resend.dev>"
	DefaultTo   = "custodiosdetierrasanta@gmail.com"

	contactSenderName = "Formulario Web"
	unspecified       = "No especificada"
)

// JoinRequest is the data shown in a join-request notification.
type JoinRequest struct {
	FullName   string
	DNI        string
	BirthDate  time.Time
	Email      string
	Phone      string
	Address    string
	Experience []string
	Motivation string
}

// Contact is a message left through the public contact form.
type Contact struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Notifier renders and sends the join-request and contact emails to the
// association's inbox.
type Notifier struct {
	Sender Sender
	From   string
	To     string
}

// NewNotifier builds a Notifier; empty addresses fall back to the
// defaults.
func NewNotifier(sender Sender, from, to string) *Notifier {
	if strings.TrimSpace(from) == "" {
		from = DefaultFrom
	}
	if strings.TrimSpace(to) == "" {
		to = DefaultTo
	}
	return &Notifier{Sender: sender, From: from, To: to}
}

// NotifyJoinRequest emails the details of a new join request.
func (n *Notifier) NotifyJoinRequest(ctx context.Context, jr JoinRequest) error {
	body, err := render(joinTemplate, joinView{
		FullName:   jr.FullName,
		DNI:        jr.DNI,
		BirthDate:  formatDate(jr.BirthDate),
		Email:      jr.Email,
		Phone:      jr.Phone,
		Address:    orUnspecified(jr.Address),
		Experience: orUnspecified(strings.Join(jr.Experience, ", ")),
		Motivation: orUnspecified(jr.Motivation),
	})
	if err != nil {
		return err
	}
	return n.send(ctx, "join_request", Message{
		From:    n.From,
		To:      []string{n.To},
		Subject: "Nueva Solicitud de Unión: " + jr.FullName,
		HTML:    body,
	})
}

// NotifyContact forwards a contact-form message, with Reply-To set to the
// sender so the inbox can answer directly.
func (n *Notifier) NotifyContact(ctx context.Context, msg Contact) error {
	body, err := render(contactTemplate, msg)
	if err != nil {
		return err
	}
	return n.send(ctx, "contact", Message{
		From:    withDisplayName(n.From, contactSenderName),
		To:      []string{n.To},
		ReplyTo: msg.Email,
		Subject: "Nuevo Mensaje de Contacto: " + msg.Subject,
		HTML:    body,
	})
}

func (n *Notifier) send(ctx context.Context, kind string, msg Message) error {
	err := n.Sender.Send(ctx, msg)
	result := "ok"
	switch {
	case errors.Is(err, ErrNotConfigured):
		result = "not_configured"
	case err != nil:
		result = "error"
	}
	metrics.IncMailSent(kind, result)
	if err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	telemetry.Info("mail.sent", map[string]any{"kind": kind})
	return nil
}

type joinView struct {
	FullName   string
	DNI        string
	BirthDate  string
	Email      string
	Phone      string
	Address    string
	Experience string
	Motivation string
}

var joinTemplate = template.Must(template.New("join").Parse(`
<h1>Nueva Solicitud de Unión</h1>
<p>Se ha recibido una nueva solicitud para unirse a los Cruzados de la Vera Cruz.</p>
<h2>Detalles del Solicitante:</h2>
<ul>
  <li><strong>Nombre Completo:</strong> {{.FullName}}</li>
  <li><strong>DNI/NIE:</strong> {{.DNI}}</li>
  <li><strong>Fecha de Nacimiento:</strong> {{.BirthDate}}</li>
  <li><strong>Correo Electrónico:</strong> {{.Email}}</li>
  <li><strong>Teléfono:</strong> {{.Phone}}</li>
  <li><strong>Dirección:</strong> {{.Address}}</li>
  <li><strong>Experiencia:</strong> {{.Experience}}</li>
  <li><strong>Motivación:</strong> {{.Motivation}}</li>
</ul>
`))

var contactTemplate = template.Must(template.New("contact").Parse(`
<h1>Nuevo Mensaje desde el Formulario de Contacto</h1>
<p>Has recibido un nuevo mensaje a través de la web.</p>
<h2>Detalles del Mensaje:</h2>
<ul>
  <li><strong>Nombre:</strong> {{.Name}}</li>
  <li><strong>Correo Electrónico del Remitente:</strong> {{.Email}}</li>
  <li><strong>Asunto:</strong> {{.Subject}}</li>
</ul>
<h2>Mensaje:</h2>
<p style="white-space: pre-wrap;">{{.Message}}</p>
`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return unspecified
	}
	return t.Format("02/01/2006")
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return unspecified
	}
	return s
}

// withDisplayName keeps the address of from but shows name instead.
func withDisplayName(from, name string) string {
	addr, err := netmail.ParseAddress(from)
	if err != nil {
		return from
	}
	return (&netmail.Address{Name: name, Address: addr.Address}).String()
}
