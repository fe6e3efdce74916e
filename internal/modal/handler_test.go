package modal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/commission"
	"cruzados-backend/internal/records"
)

func newViewRouter(t *testing.T) (*gin.Engine, records.Record) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := records.NewMemoryRepo(nil)
	svc := records.NewService(repo, nil)
	rec, err := svc.Create(context.Background(), commission.Historia, records.Input{
		Name:        "Juramento",
		Category:    "Texto",
		Description: "Texto del juramento",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	r := gin.New()
	h := &Handler{Records: svc, Getter: repo}
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, rec
}

func getView(t *testing.T, r http.Handler, rawQuery string) (*httptest.ResponseRecorder, ViewResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/view?"+rawQuery, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	var body ViewResponse
	if resp.Code == http.StatusOK {
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode view: %v", err)
		}
	}
	return resp, body
}

func TestViewEditDialog(t *testing.T) {
	r, rec := newViewRouter(t)

	resp, body := getView(t, r, "path=/dashboard/info/historia&action=edit&id="+rec.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
	if body.Commission.Tag != "historia" || body.Commission.Label != "Historia" {
		t.Fatalf("commission = %+v", body.Commission)
	}
	if len(body.Records) != 1 {
		t.Fatalf("records = %+v", body.Records)
	}
	if body.Modal.Kind != KindEditing || body.Modal.Record == nil || body.Modal.Record.ID != rec.ID {
		t.Fatalf("modal = %+v", body.Modal)
	}
}

func TestViewMissingRecordDegradesToIdle(t *testing.T) {
	r, _ := newViewRouter(t)

	resp, body := getView(t, r, "path=/dashboard/info/historia&action=delete&id=nonexistent-id&q=nada")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if body.Modal.Kind != KindIdle || !body.Modal.NotFound {
		t.Fatalf("modal = %+v", body.Modal)
	}
	if body.Query != "nada" || len(body.Records) != 0 {
		t.Fatalf("filtered view = %+v", body)
	}
}

func TestViewUnknownCommission(t *testing.T) {
	r, _ := newViewRouter(t)
	resp, _ := getView(t, r, "path=/dashboard/info/tesoreria")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
}
