package members

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/shared/server/middleware"
	"cruzados-backend/internal/shared/server/respond"
)

const (
	msgBadRequest    = "La petición no es válida."
	msgNotFound      = "No se encontró tu solicitud de unión."
	msgForbidden     = "No podéis modificar la solicitud de otro miembro."
	msgJoinFailed    = "Hubo un problema al guardar tu solicitud. Por favor, inténtalo de nuevo."
	msgProfileFailed = "No se pudo actualizar la información en la base de datos."
	msgLoadFailed    = "No se pudo cargar tu perfil."
	msgContactFailed = "Error del servidor: No se pudo enviar el mensaje. Inténtalo más tarde."
	msgContactSent   = "¡Mensaje enviado con éxito!"
	msgJoinSent      = "¡Solicitud enviada con éxito!"
)

// Handler wires membership HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the join, profile and contact routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.contact)

	member := rg.Group("", middleware.RequireMember())
	member.POST("/join", h.join)
	member.GET("/members/me/profile", h.profile)
	member.PUT("/members/:id/profile", h.updateProfile)
}

type joinResponse struct {
	Message string      `json:"message"`
	Request JoinRequest `json:"request"`
}

func (h *Handler) join(c *gin.Context) {
	var in JoinInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", msgBadRequest, nil)
		return
	}
	jr, err := h.Svc.Join(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, msgJoinFailed)
		return
	}
	respond.Created(c, joinResponse{Message: msgJoinSent, Request: jr})
}

func (h *Handler) profile(c *gin.Context) {
	jr, err := h.Svc.ProfileForUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, msgLoadFailed)
		return
	}
	respond.OK(c, jr)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", msgBadRequest, nil)
		return
	}
	jr, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), in)
	if err != nil {
		writeError(c, err, msgProfileFailed)
		return
	}
	respond.OK(c, jr)
}

func (h *Handler) contact(c *gin.Context) {
	var in ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", msgBadRequest, nil)
		return
	}
	if err := h.Svc.Contact(c.Request.Context(), in); err != nil {
		writeError(c, err, msgContactFailed)
		return
	}
	respond.OK(c, gin.H{"message": msgContactSent})
}

func writeError(c *gin.Context, err error, storeMsg string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", verr.Message, verr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", msgNotFound, nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", msgForbidden, nil)
	case errors.Is(err, ErrDelivery):
		respond.Error(c, http.StatusBadGateway, "delivery_error", msgContactFailed, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "store_error", storeMsg, nil)
	}
}
