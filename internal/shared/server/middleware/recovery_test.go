package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/shared/telemetry"
)

func TestRecoveryReturnsInternalEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "internal" {
		t.Fatalf("expected code internal, got %q", payload.Error.Code)
	}
}

func TestRecoveryLogsRecordContext(t *testing.T) {
	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	t.Cleanup(func() { telemetry.SetOutput(nil) })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.DELETE("/commissions/:commission/records/:id", func(c *gin.Context) {
		c.Set(CommissionKey, c.Param("commission"))
		c.Set(RecordIDKey, c.Param("id"))
		panic("nil map")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/commissions/musica/records/rec-9", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	out := buf.String()
	for _, want := range []string{`"msg":"http.panic"`, `"commission":"musica"`, `"record_id":"rec-9"`, `"panic":"nil map"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s: %s", want, out)
		}
	}
}
