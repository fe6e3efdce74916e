package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/shared/server/respond"
	"cruzados-backend/internal/shared/telemetry"
)

const msgInternal = "Ha ocurrido un error inesperado."

// Recovery converts a panic in a later handler into a 500 envelope. The
// log line carries the route and record context set so far.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"route":      c.FullPath(),
			}
			if commission := c.GetString(CommissionKey); commission != "" {
				fields["commission"] = commission
			}
			if id := c.GetString(RecordIDKey); id != "" {
				fields["record_id"] = id
			}
			telemetry.Error("http.panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", msgInternal, nil)
		}()
		c.Next()
	}
}
