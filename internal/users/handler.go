package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cruzados-backend/internal/shared/server/middleware"
	"cruzados-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches /me. The route must run behind the Auth
// middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", middleware.RequireMember(), h.me)
}

// me answers from the stored account, falling back to the token claims
// when the account is not (or no longer) stored.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	switch {
	case errors.Is(err, ErrNotFound):
		user = User{
			ID:         userID,
			Email:      middleware.UserEmailFromContext(c),
			FullName:   middleware.UserNameFromContext(c),
			PictureURL: middleware.UserPictureFromContext(c),
		}
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "No se pudo cargar el perfil.", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"fullName":   user.FullName,
		"pictureUrl": user.PictureURL,
	})
}
