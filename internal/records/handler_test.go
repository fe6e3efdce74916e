package records

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, maxUpload int64, write ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewService(NewMemoryRepo(nil), nil), maxUpload)
	h.RegisterRoutes(r.Group("/api/v1"), write...)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return env
}

func TestHandlerRecordLifecycle(t *testing.T) {
	r := newTestRouter(t, 0)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/commissions/historia/records",
		`{"name":"Juramento","category":"Texto","description":"Texto del juramento"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", resp.Code, resp.Body.String())
	}
	var created RecordResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.ID == "" || created.Commission != "historia" || created.Files == nil {
		t.Fatalf("created = %+v", created)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/commissions/historia/records?q=JURA", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list status = %d", resp.Code)
	}
	var list ListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Query != "JURA" || len(list.Records) != 1 || list.Records[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	resp = doJSON(t, r, http.MethodPut, "/api/v1/commissions/historia/records/"+created.ID,
		`{"name":"Juramento solemne","category":"Texto","description":"Texto del juramento"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", resp.Code, resp.Body.String())
	}
	var updated RecordResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Name != "Juramento solemne" || !updated.LastModified.After(created.LastModified) {
		t.Fatalf("updated = %+v", updated)
	}

	resp = doJSON(t, r, http.MethodDelete, "/api/v1/commissions/historia/records/"+created.ID, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodDelete, "/api/v1/commissions/historia/records/"+created.ID, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", resp.Code)
	}
	if env := decodeError(t, resp); env.Error.Code != "not_found" || env.Error.Message != msgNotFound {
		t.Fatalf("second delete error = %+v", env.Error)
	}
}

func TestHandlerValidationError(t *testing.T) {
	r := newTestRouter(t, 0)
	resp := doJSON(t, r, http.MethodPost, "/api/v1/commissions/historia/records",
		`{"name":"","category":"InvalidValue","description":"x"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.Code)
	}
	env := decodeError(t, resp)
	if env.Error.Code != "validation_error" || env.Error.Message != msgCreateInvalid {
		t.Fatalf("error = %+v", env.Error)
	}
	if env.Error.Details["name"] != msgNameRequired || env.Error.Details["category"] != msgCategoryInvalid {
		t.Fatalf("details = %+v", env.Error.Details)
	}
	if _, ok := env.Error.Details["description"]; ok {
		t.Fatalf("valid field reported: %+v", env.Error.Details)
	}
}

func TestHandlerUnknownCommissionAndMissingRecord(t *testing.T) {
	r := newTestRouter(t, 0)

	tests := []struct {
		name string
		path string
		code string
	}{
		{name: "unknown commission", path: "/api/v1/commissions/tesoreria/records", code: "unknown_commission"},
		{name: "missing record", path: "/api/v1/commissions/historia/records/nonexistent-id", code: "not_found"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := doJSON(t, r, http.MethodGet, tt.path, "")
			if resp.Code != http.StatusNotFound {
				t.Fatalf("status = %d", resp.Code)
			}
			if env := decodeError(t, resp); env.Error.Code != tt.code {
				t.Fatalf("code = %q, want %q", env.Error.Code, tt.code)
			}
		})
	}
}

func TestHandlerMultipartCreateWithFiles(t *testing.T) {
	r := newTestRouter(t, 0)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	_ = w.WriteField("name", "Estandarte")
	_ = w.WriteField("category", "Imagen")
	_ = w.WriteField("description", "Diseño oficial")
	fw, err := w.CreateFormFile("files", "estandarte.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte{0xff, 0xd8, 0xff})
	if _, err := w.CreateFormFile("files", "empty.jpg"); err != nil {
		t.Fatalf("create empty form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/commissions/diseno/records", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
	var created RecordResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	if len(created.Files) != 1 || created.Files[0].URL != PlaceholderPrefix+"estandarte.jpg" {
		t.Fatalf("files = %+v", created.Files)
	}
}

func TestHandlerRejectsOversizedBody(t *testing.T) {
	r := newTestRouter(t, 32)
	resp := doJSON(t, r, http.MethodPost, "/api/v1/commissions/historia/records",
		`{"name":"Juramento","category":"Texto","description":"`+strings.Repeat("x", 64)+`"}`)
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestHandlerWriteMiddlewareGuardsMutations(t *testing.T) {
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	r := newTestRouter(t, 0, deny)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/commissions/general/records",
		`{"name":"a","category":"Texto","description":"b"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("create status = %d, want 401", resp.Code)
	}
	resp = doJSON(t, r, http.MethodGet, "/api/v1/commissions/general/records", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.Code)
	}
}

func TestHandlerCatalogRoutes(t *testing.T) {
	r := newTestRouter(t, 0)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/commissions", "")
	var comms []CommissionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &comms); err != nil {
		t.Fatalf("decode commissions: %v", err)
	}
	if len(comms) != 9 || comms[0].Tag != "redes-sociales" || comms[0].Label != "Redes Sociales" {
		t.Fatalf("commissions = %+v", comms)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/categories", "")
	var policies []Policy
	if err := json.Unmarshal(resp.Body.Bytes(), &policies); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(policies) != 3 || policies[2].Category != CategoryImage || policies[2].MaxFiles != 4 {
		t.Fatalf("categories = %+v", policies)
	}
}
