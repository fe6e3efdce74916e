package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/shared/auth"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := testIssuer(t)
	token, err := issuer.Sign(auth.Claims{Sub: "member-7"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	router := gin.New()
	router.Use(RequestID(), Auth(issuer), Logging())
	router.GET("/test/:commission/:id", func(c *gin.Context) {
		c.Set(CommissionKey, c.Param("commission"))
		c.Set(RecordIDKey, c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = origStdout
	}()

	req := httptest.NewRequest(http.MethodGet, "/test/historia/rec-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read log output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		t.Fatalf("expected log output")
	}
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "commission", "record_id", "duration_ms", "status", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["user_id"] != "member-7" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["commission"] != "historia" {
		t.Fatalf("unexpected commission: %v", payload["commission"])
	}
	if payload["record_id"] != "rec-1" {
		t.Fatalf("unexpected record_id: %v", payload["record_id"])
	}
	if payload["route"] != "/test/:commission/:id" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
}
