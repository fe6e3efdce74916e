package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	googleauth "cruzados-backend/internal/auth"
	"cruzados-backend/internal/members"
	"cruzados-backend/internal/modal"
	"cruzados-backend/internal/records"
	"cruzados-backend/internal/services/health"
	"cruzados-backend/internal/shared/config"
	"cruzados-backend/internal/shared/metrics"
	"cruzados-backend/internal/shared/server/middleware"
	"cruzados-backend/internal/shared/server/respond"
	"cruzados-backend/internal/shared/storage/object"
	"cruzados-backend/internal/users"
)

// RouterDeps carries the handlers NewRouter mounts. Nil handlers are
// skipped.
type RouterDeps struct {
	Config         config.Config
	Verifier       middleware.Verifier
	Tracer         trace.TracerProvider
	Health         *health.Service
	RecordHandler  *records.Handler
	ModalHandler   *modal.Handler
	MemberHandler  *members.Handler
	UserHandler    *users.Handler
	GoogleAuth     *googleauth.GoogleService
	Files          object.ObjectStore
	RateLimitRules map[string]middleware.RateLimitRule
}

// DefaultRateLimitRules throttles the public forms harder than reads.
var DefaultRateLimitRules = map[string]middleware.RateLimitRule{
	middleware.RateLimitDefault: {Rate: 20, Burst: 60},
	middleware.RateLimitForms:   {Rate: 0.2, Burst: 5},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	rules := deps.RateLimitRules
	if rules == nil {
		rules = DefaultRateLimitRules
	}

	r.Use(
		middleware.RequestID(),
		middleware.Tracing(deps.Tracer),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Verifier),
		middleware.RateLimit(middleware.RateLimitConfig{Rules: rules, GroupFor: rateLimitGroup}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.RecordHandler != nil {
		deps.RecordHandler.RegisterRoutes(api, middleware.RequireMember())
	}
	if deps.ModalHandler != nil {
		deps.ModalHandler.RegisterRoutes(api)
	}
	if deps.MemberHandler != nil {
		deps.MemberHandler.RegisterRoutes(api)
	}
	if deps.Files != nil {
		api.GET("/files/*key", serveFile(deps.Files))
	}

	return r
}

// rateLimitGroup puts form submissions in the FORMS bucket.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return middleware.RateLimitDefault
	}
	switch c.FullPath() {
	case "/api/v1/join", "/api/v1/contact":
		return middleware.RateLimitForms
	}
	return middleware.RateLimitDefault
}

// serveFile streams attachments kept by the local object store.
func serveFile(store object.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				respond.Error(c, http.StatusNotFound, "not_found", "No se encontró el archivo.", nil)
				return
			}
			respond.Error(c, http.StatusBadRequest, "bad_request", "La ruta del archivo no es válida.", nil)
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(path.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Header("Cache-Control", "private, max-age=300")
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, rc)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
