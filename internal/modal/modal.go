// Package modal derives which dashboard create/edit/delete dialog is open
// from the navigation path and query string.
package modal

import (
	"context"
	"net/url"
	"strings"

	"cruzados-backend/internal/commission"
	"cruzados-backend/internal/records"
	"cruzados-backend/internal/shared/telemetry"
)

// Kind is the dialog state.
type Kind string

const (
	KindIdle             Kind = "idle"
	KindCreating         Kind = "creating"
	KindLoading          Kind = "loading"
	KindEditing          Kind = "editing"
	KindConfirmingDelete Kind = "confirming_delete"
)

// Action is the value of the action query parameter.
type Action string

const (
	ActionNew    Action = "new"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

const msgLoadFailed = "No se pudo cargar la información."

// Intent is what the URL asks for before any record is fetched.
type Intent struct {
	Kind   Kind
	Action Action
	ID     string
}

// Route is the full dashboard view request: commission, search term and
// dialog intent.
type Route struct {
	Commission commission.Commission
	Query      string
	Intent     Intent
}

// Parse derives the Route for a dashboard path and its query parameters.
func Parse(path string, q url.Values) (Route, error) {
	c, err := commission.FromPath(path)
	if err != nil {
		return Route{}, err
	}
	return Route{Commission: c, Query: q.Get("q"), Intent: Derive(q)}, nil
}

// Derive maps the action and id parameters onto an Intent. Anything other
// than action=new, or action=edit/delete with an id, is Idle.
func Derive(q url.Values) Intent {
	action := Action(strings.TrimSpace(q.Get("action")))
	id := strings.TrimSpace(q.Get("id"))
	switch action {
	case ActionNew:
		return Intent{Kind: KindCreating, Action: action}
	case ActionEdit, ActionDelete:
		if id == "" {
			return Intent{Kind: KindIdle}
		}
		return Intent{Kind: KindLoading, Action: action, ID: id}
	default:
		return Intent{Kind: KindIdle}
	}
}

// State is the resolved dialog. Record is set for Editing and
// ConfirmingDelete. NotFound reports that a requested record was absent.
type State struct {
	Kind     Kind            `json:"kind"`
	Action   Action          `json:"action,omitempty"`
	ID       string          `json:"id,omitempty"`
	Record   *records.Record `json:"record,omitempty"`
	NotFound bool            `json:"notFound,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Initial is the state shown while in is unresolved.
func Initial(in Intent) State {
	return State{Kind: in.Kind, Action: in.Action, ID: in.ID}
}

// Load resolves a Loading intent by fetching its record. A missing record
// or a failed fetch both fall back to Idle.
func Load(ctx context.Context, g records.Getter, c commission.Commission, in Intent) State {
	if in.Kind != KindLoading {
		return Initial(in)
	}
	rec, ok, err := g.Get(ctx, c, in.ID)
	if err != nil {
		telemetry.Warn("modal.load_failed", map[string]any{
			"commission": string(c),
			"record_id":  in.ID,
			"action":     string(in.Action),
			"err":        err,
		})
		return State{Kind: KindIdle, Action: in.Action, ID: in.ID, Error: msgLoadFailed}
	}
	if !ok {
		return State{Kind: KindIdle, Action: in.Action, ID: in.ID, NotFound: true}
	}
	kind := KindEditing
	if in.Action == ActionDelete {
		kind = KindConfirmingDelete
	}
	return State{Kind: kind, Action: in.Action, ID: in.ID, Record: &rec}
}
