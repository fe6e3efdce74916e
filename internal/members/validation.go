package members

import (
	netmail "net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const maxMotivation = 200

var (
	phonePattern = regexp.MustCompile(`^(?:\+34|0034|34)?[6789]\d{8}$`)
	dniPattern   = regexp.MustCompile(`(?i)^[XYZ\d]?\d{7,8}[A-Z]$`)
)

const (
	msgFullNameRequired  = "El nombre completo es menester."
	msgDNIInvalid        = "Por favor, introduce un DNI o NIE válido."
	msgBirthDateRequired = "La fecha de nacimiento es menester."
	msgBirthDateInvalid  = "La fecha de nacimiento no es válida."
	msgEmailInvalid      = "Por favor, introduce un correo electrónico válido."
	msgPhoneInvalid      = "Por favor, introduce un número de teléfono móvil español válido."
	msgMotivationTooLong = "La motivación no puede exceder los 200 caracteres."
	msgNormativa         = "Es menester aceptar la normativa para unirse."
	msgImagen            = "Es menester aceptar el uso de imagen y sonido."
	msgProteccionDatos   = "Es menester aceptar la cláusula de protección de datos."

	msgNameRequired    = "El nombre es menester."
	msgSubjectRequired = "El asunto es menester."
	msgMessageRequired = "El mensaje es menester."

	msgJoinInvalid    = "Faltan campos o son inválidos. No se pudo enviar la solicitud."
	msgProfileInvalid = "Los datos proporcionados no son válidos."
	msgContactInvalid = "Faltan campos o son inválidos. No se pudo enviar el mensaje."
)

// JoinInput is the untrusted join form. The three acceptance flags must
// each be "si".
type JoinInput struct {
	FullName        string   `json:"fullName"`
	DNI             string   `json:"dni"`
	BirthDate       string   `json:"birthDate"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Address         string   `json:"address"`
	Experience      []string `json:"experience"`
	Motivation      string   `json:"motivation"`
	Normativa       string   `json:"normativa"`
	Imagen          string   `json:"imagen"`
	ProteccionDatos string   `json:"proteccion_datos"`
}

// ProfileInput is the untrusted settings form.
type ProfileInput struct {
	Address    string `json:"address"`
	BirthDate  string `json:"birthDate"`
	Phone      string `json:"phone"`
	Motivation string `json:"motivation"`
}

// ContactInput is the untrusted contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type fieldErrors map[string]string

func (f fieldErrors) err(summary string) error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Message: summary, Fields: f}
}

func validateJoin(in JoinInput) (JoinRequest, error) {
	fields := fieldErrors{}
	jr := JoinRequest{
		FullName:   strings.TrimSpace(in.FullName),
		DNI:        strings.ToUpper(strings.TrimSpace(in.DNI)),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		Motivation: strings.TrimSpace(in.Motivation),
		Experience: cleanList(in.Experience),
	}
	if jr.FullName == "" {
		fields["fullName"] = msgFullNameRequired
	}
	if !dniPattern.MatchString(jr.DNI) {
		fields["dni"] = msgDNIInvalid
	}
	if d, msg := parseBirthDate(in.BirthDate); msg != "" {
		fields["birthDate"] = msg
	} else {
		jr.BirthDate = d
	}
	if !validEmail(jr.Email) {
		fields["email"] = msgEmailInvalid
	}
	if !phonePattern.MatchString(jr.Phone) {
		fields["phone"] = msgPhoneInvalid
	}
	if utf8.RuneCountInString(jr.Motivation) > maxMotivation {
		fields["motivation"] = msgMotivationTooLong
	}
	if !accepted(in.Normativa) {
		fields["normativa"] = msgNormativa
	}
	if !accepted(in.Imagen) {
		fields["imagen"] = msgImagen
	}
	if !accepted(in.ProteccionDatos) {
		fields["proteccion_datos"] = msgProteccionDatos
	}
	if err := fields.err(msgJoinInvalid); err != nil {
		return JoinRequest{}, err
	}
	return jr, nil
}

func validateProfile(in ProfileInput) (ProfileUpdate, error) {
	fields := fieldErrors{}
	p := ProfileUpdate{
		Address:    strings.TrimSpace(in.Address),
		Phone:      strings.TrimSpace(in.Phone),
		Motivation: strings.TrimSpace(in.Motivation),
	}
	if d, msg := parseBirthDate(in.BirthDate); msg != "" {
		fields["birthDate"] = msg
	} else {
		p.BirthDate = d
	}
	if !phonePattern.MatchString(p.Phone) {
		fields["phone"] = msgPhoneInvalid
	}
	if utf8.RuneCountInString(p.Motivation) > maxMotivation {
		fields["motivation"] = msgMotivationTooLong
	}
	if err := fields.err(msgProfileInvalid); err != nil {
		return ProfileUpdate{}, err
	}
	return p, nil
}

func validateContact(in ContactInput) (ContactInput, error) {
	fields := fieldErrors{}
	out := ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if out.Name == "" {
		fields["name"] = msgNameRequired
	}
	if !validEmail(out.Email) {
		fields["email"] = msgEmailInvalid
	}
	if out.Subject == "" {
		fields["subject"] = msgSubjectRequired
	}
	if out.Message == "" {
		fields["message"] = msgMessageRequired
	}
	if err := fields.err(msgContactInvalid); err != nil {
		return ContactInput{}, err
	}
	return out, nil
}

// parseBirthDate accepts a calendar date or a full timestamp and returns
// the UTC date. The second result is the field message on failure.
func parseBirthDate(raw string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, msgBirthDateRequired
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), ""
		}
	}
	return time.Time{}, msgBirthDateInvalid
}

// validEmail accepts a bare address; display-name forms are rejected.
func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := netmail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

func accepted(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "si")
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
