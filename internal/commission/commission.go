package commission

import (
	"errors"
	"strings"
)

// ErrUnknownCommission indicates a tag outside the closed commission table.
var ErrUnknownCommission = errors.New("unknown commission")

// Commission selects the logical collection a record belongs to.
type Commission string

const (
	RedesSociales   Commission = "redes-sociales"
	Avituallamiento Commission = "avituallamiento"
	Patrimonio      Commission = "patrimonio"
	Musica          Commission = "musica"
	Historia        Commission = "historia"
	Diseno          Commission = "diseno"
	Dinamizacion    Commission = "dinamizacion"
	Relaciones      Commission = "relaciones"
	General         Commission = "general"
)

// All lists every commission in display order.
var All = []Commission{
	RedesSociales,
	Avituallamiento,
	Patrimonio,
	Musica,
	Historia,
	Diseno,
	Dinamizacion,
	Relaciones,
	General,
}

// Parse validates a raw tag. Surrounding whitespace and case are ignored.
func Parse(raw string) (Commission, error) {
	c := Commission(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", ErrUnknownCommission
	}
	return c, nil
}

// Valid reports whether c is one of the known commissions.
func (c Commission) Valid() bool {
	return c.Collection() != ""
}

// Collection returns the physical collection (or table) name for c, or ""
// for an unknown value.
func (c Commission) Collection() string {
	switch c {
	case RedesSociales:
		return "records_redes_sociales"
	case Avituallamiento:
		return "records_avituallamiento"
	case Patrimonio:
		return "records_patrimonio"
	case Musica:
		return "records_musica"
	case Historia:
		return "records_historia"
	case Diseno:
		return "records_diseno"
	case Dinamizacion:
		return "records_dinamizacion"
	case Relaciones:
		return "records_relaciones"
	case General:
		return "records_general"
	default:
		return ""
	}
}

// Label is the human-readable commission name shown in the dashboard.
func (c Commission) Label() string {
	switch c {
	case RedesSociales:
		return "Redes Sociales"
	case Avituallamiento:
		return "Avituallamiento"
	case Patrimonio:
		return "Patrimonio"
	case Musica:
		return "Música"
	case Historia:
		return "Historia"
	case Diseno:
		return "Diseño"
	case Dinamizacion:
		return "Dinamización"
	case Relaciones:
		return "Relaciones"
	case General:
		return "General"
	default:
		return ""
	}
}

func (c Commission) String() string {
	return string(c)
}
