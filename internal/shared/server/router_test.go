package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/services/health"
	"cruzados-backend/internal/shared/auth"
	"cruzados-backend/internal/shared/config"
	localstore "cruzados-backend/internal/shared/storage/object/local"
)

type rejectAll struct{}

func (rejectAll) Verify(string) (auth.Claims, error) { return auth.Claims{}, errors.New("no") }

func TestRouterServesHealthAndMetrics(t *testing.T) {
	r := NewRouter(RouterDeps{
		Config:   config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		Verifier: rejectAll{},
		Health:   &health.Service{RecordStore: "memory"},
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health status = %d", resp.Code)
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "# TYPE") {
		t.Fatalf("metrics = %d %q", resp.Code, resp.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Authorization", "Bearer forged")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("forged token status = %d", resp.Code)
	}
}

func TestRouterServesLocalFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(dir+"/historia/rec-1", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(dir+"/historia/rec-1/acta.txt", []byte("acta"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewRouter(RouterDeps{Verifier: rejectAll{}, Files: localstore.New(dir, "/api/v1/files")})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/files/historia/rec-1/acta.txt", nil))
	body, _ := io.ReadAll(resp.Body)
	if resp.Code != http.StatusOK || string(body) != "acta" {
		t.Fatalf("file = %d %q", resp.Code, body)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/files/historia/rec-1/missing.txt", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("missing file status = %d", resp.Code)
	}
}

func TestRouterServesStoredFilesWithReservedCharacters(t *testing.T) {
	store := localstore.New(t.TempDir(), "/api/v1/files")
	r := NewRouter(RouterDeps{Verifier: rejectAll{}, Files: store})

	for _, name := range []string{"plain.pdf", "¿dudas?.pdf", "100%.pdf", "acta#2.pdf"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fileURL, _, err := store.Put(context.Background(), "historia/rec1/"+name, "application/pdf", strings.NewReader(name))
			if err != nil {
				t.Fatalf("Put: %v", err)
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, fileURL, nil))
			body, _ := io.ReadAll(resp.Body)
			if resp.Code != http.StatusOK || string(body) != name {
				t.Fatalf("GET %s = %d %q", fileURL, resp.Code, body)
			}
		})
	}
}

func TestRateLimitGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got string
	r.POST("/api/v1/contact", func(c *gin.Context) { got = rateLimitGroup(c) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil))
	if got != "FORMS" {
		t.Fatalf("group = %q, want FORMS", got)
	}
}

func TestAddr(t *testing.T) {
	for in, want := range map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"} {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
