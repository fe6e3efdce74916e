package modal

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/commission"
	"cruzados-backend/internal/records"
	"cruzados-backend/internal/shared/server/middleware"
	"cruzados-backend/internal/shared/server/respond"
)

// Searcher lists a commission's records for a term.
type Searcher interface {
	Search(ctx context.Context, c commission.Commission, term string) ([]records.Record, error)
}

// Handler serves the dashboard view: one round trip with the record table
// and the open dialog.
type Handler struct {
	Records Searcher
	Getter  records.Getter
}

// ViewResponse is the body of GET /dashboard/view.
type ViewResponse struct {
	Commission records.CommissionResponse `json:"commission"`
	Query      string                     `json:"query"`
	Records    []records.RecordResponse   `json:"records"`
	Modal      State                      `json:"modal"`
}

// RegisterRoutes attaches the dashboard view route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/view", h.view)
}

func (h *Handler) view(c *gin.Context) {
	route, err := Parse(c.Query("path"), c.Request.URL.Query())
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_commission", "La comisión indicada no existe.", gin.H{"path": c.Query("path")})
		return
	}
	c.Set(middleware.CommissionKey, string(route.Commission))
	if route.Intent.ID != "" {
		c.Set(middleware.RecordIDKey, route.Intent.ID)
	}

	ctx := c.Request.Context()
	recs, err := h.Records.Search(ctx, route.Commission, route.Query)
	if err != nil {
		if errors.Is(err, commission.ErrUnknownCommission) {
			respond.Error(c, http.StatusNotFound, "unknown_commission", "La comisión indicada no existe.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "store_error", "Error de la base de datos: No se pudo cargar la información.", nil)
		return
	}

	respond.OK(c, ViewResponse{
		Commission: records.CommissionResponse{Tag: string(route.Commission), Label: route.Commission.Label()},
		Query:      route.Query,
		Records:    records.ToResponses(route.Commission, recs),
		Modal:      Load(ctx, h.Getter, route.Commission, route.Intent),
	})
}
