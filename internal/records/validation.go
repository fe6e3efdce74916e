package records

import "strings"

// Per-field messages shown to members.
const (
	msgNameRequired        = "El nombre es menester."
	msgCategoryInvalid     = "Por favor, elegid un tipo."
	msgDescriptionRequired = "La descripción es menester."

	msgCreateInvalid = "Faltan campos. No se pudo crear la información."
	msgUpdateInvalid = "Faltan campos. No se pudo enmendar la información."
)

// Input is the untrusted payload of a create or update.
type Input struct {
	Name        string
	Category    string
	Description string
	Uploads     []Upload
}

type validInput struct {
	name        string
	category    Category
	description string
	uploads     []Upload
}

func validate(in Input, summary string) (validInput, error) {
	out := validInput{
		name:        strings.TrimSpace(in.Name),
		description: strings.TrimSpace(in.Description),
	}
	fields := make(map[string]string)
	if out.name == "" {
		fields["name"] = msgNameRequired
	}
	cat, ok := ParseCategory(in.Category)
	if !ok {
		fields["category"] = msgCategoryInvalid
	}
	out.category = cat
	if out.description == "" {
		fields["description"] = msgDescriptionRequired
	}
	if len(fields) > 0 {
		return validInput{}, &ValidationError{Message: summary, Fields: fields}
	}
	for _, u := range in.Uploads {
		if len(u.Data) > 0 {
			out.uploads = append(out.uploads, u)
		}
	}
	return out, nil
}
