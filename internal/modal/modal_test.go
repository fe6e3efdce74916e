package modal

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"cruzados-backend/internal/commission"
	"cruzados-backend/internal/records"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{name: "no params", query: "", want: Intent{Kind: KindIdle}},
		{name: "new", query: "action=new", want: Intent{Kind: KindCreating, Action: ActionNew}},
		{name: "new ignores id", query: "action=new&id=abc", want: Intent{Kind: KindCreating, Action: ActionNew}},
		{name: "edit", query: "action=edit&id=abc", want: Intent{Kind: KindLoading, Action: ActionEdit, ID: "abc"}},
		{name: "delete", query: "action=delete&id=abc", want: Intent{Kind: KindLoading, Action: ActionDelete, ID: "abc"}},
		{name: "edit without id", query: "action=edit", want: Intent{Kind: KindIdle}},
		{name: "blank id", query: "action=delete&id=%20", want: Intent{Kind: KindIdle}},
		{name: "unknown action", query: "action=archive&id=abc", want: Intent{Kind: KindIdle}},
		{name: "search only", query: "q=juramento", want: Intent{Kind: KindIdle}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			if got := Derive(q); got != tt.want {
				t.Fatalf("Derive(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	q := url.Values{"q": {"acta"}, "action": {"edit"}, "id": {"r1"}}
	route, err := Parse("/dashboard/info/patrimonio", q)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if route.Commission != commission.Patrimonio || route.Query != "acta" || route.Intent.ID != "r1" {
		t.Fatalf("route = %+v", route)
	}

	route, err = Parse("/dashboard", url.Values{})
	if err != nil || route.Commission != commission.General {
		t.Fatalf("root path route = %+v err=%v", route, err)
	}

	if _, err := Parse("/dashboard/info/tesoreria", url.Values{}); !errors.Is(err, commission.ErrUnknownCommission) {
		t.Fatalf("Parse unknown error = %v", err)
	}
}

type stubGetter struct {
	recs map[string]records.Record
	err  error
}

func (g stubGetter) Get(_ context.Context, _ commission.Commission, id string) (records.Record, bool, error) {
	if g.err != nil {
		return records.Record{}, false, g.err
	}
	rec, ok := g.recs[id]
	return rec, ok, nil
}

func TestLoad(t *testing.T) {
	t.Parallel()

	getter := stubGetter{recs: map[string]records.Record{"r1": {ID: "r1", Name: "Acta"}}}
	tests := []struct {
		name     string
		getter   records.Getter
		intent   Intent
		kind     Kind
		record   bool
		notFound bool
		failed   bool
	}{
		{name: "edit found", getter: getter, intent: Intent{Kind: KindLoading, Action: ActionEdit, ID: "r1"}, kind: KindEditing, record: true},
		{name: "delete found", getter: getter, intent: Intent{Kind: KindLoading, Action: ActionDelete, ID: "r1"}, kind: KindConfirmingDelete, record: true},
		{name: "absent", getter: getter, intent: Intent{Kind: KindLoading, Action: ActionEdit, ID: "gone"}, kind: KindIdle, notFound: true},
		{name: "fetch error", getter: stubGetter{err: errors.New("offline")}, intent: Intent{Kind: KindLoading, Action: ActionDelete, ID: "r1"}, kind: KindIdle, failed: true},
		{name: "creating passes through", getter: getter, intent: Intent{Kind: KindCreating, Action: ActionNew}, kind: KindCreating},
		{name: "idle passes through", getter: getter, intent: Intent{Kind: KindIdle}, kind: KindIdle},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Load(context.Background(), tt.getter, commission.General, tt.intent)
			if s.Kind != tt.kind {
				t.Fatalf("kind = %q, want %q", s.Kind, tt.kind)
			}
			if (s.Record != nil) != tt.record {
				t.Fatalf("record = %+v", s.Record)
			}
			if s.NotFound != tt.notFound {
				t.Fatalf("notFound = %v", s.NotFound)
			}
			if (s.Error != "") != tt.failed {
				t.Fatalf("error = %q", s.Error)
			}
		})
	}
}

func TestTrackerDropsStaleLoads(t *testing.T) {
	tr := NewTracker()
	if tr.State().Kind != KindIdle {
		t.Fatalf("new tracker not idle")
	}

	first := tr.Navigate(url.Values{"action": {"edit"}, "id": {"r1"}})
	if tr.State().Kind != KindLoading {
		t.Fatalf("state after navigate = %q", tr.State().Kind)
	}
	second := tr.Navigate(url.Values{"action": {"delete"}, "id": {"r2"}})

	if tr.Settle(first, State{Kind: KindEditing, ID: "r1"}) {
		t.Fatalf("stale result applied")
	}
	if !tr.Settle(second, State{Kind: KindConfirmingDelete, ID: "r2"}) {
		t.Fatalf("current result dropped")
	}
	if s := tr.State(); s.Kind != KindConfirmingDelete || s.ID != "r2" {
		t.Fatalf("state = %+v", s)
	}
	if second.Intent().Action != ActionDelete {
		t.Fatalf("ticket intent = %+v", second.Intent())
	}
}

func TestTrackerCloseDiscardsInFlightLoad(t *testing.T) {
	tr := NewTracker()
	tk := tr.Navigate(url.Values{"action": {"edit"}, "id": {"r1"}})
	tr.Close()

	if tr.Settle(tk, State{Kind: KindEditing, ID: "r1"}) {
		t.Fatalf("load settled after close")
	}
	if tr.State().Kind != KindIdle {
		t.Fatalf("state after close = %q", tr.State().Kind)
	}
}
