package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "cruzados-backend/internal/shared/auth"
	"cruzados-backend/internal/shared/server/respond"
	"cruzados-backend/internal/shared/telemetry"
	"cruzados-backend/internal/shared/util"
	"cruzados-backend/internal/users"
)

const userInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

const (
	msgNotConfigured = "El inicio de sesión con Google no está configurado."
	msgBadCallback   = "La respuesta de Google no es válida. Iniciad sesión de nuevo."
	msgProfileFailed = "No se pudo obtener vuestro perfil de Google."
	msgLoginFailed   = "No se pudo completar el inicio de sesión."
)

// Signer issues session tokens for authenticated members.
type Signer interface {
	Sign(claims sharedauth.Claims) (string, error)
}

// GoogleService runs the Google login flow. A successful callback stores
// the member account and redirects to the site with a session token and
// the page the member started from.
type GoogleService struct {
	oauth      *oauth2.Config
	uiRedirect string
	states     *stateStore
	signer     Signer
	users      *users.Service
}

// NewGoogleService builds a GoogleService. Without client credentials the
// routes answer 503.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, signer Signer, userSvc *users.Service) *GoogleService {
	return &GoogleService{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		uiRedirect: uiRedirect,
		states:     newStateStore(),
		signer:     signer,
		users:      userSvc,
	}
}

func (s *GoogleService) configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != "" && s.oauth.RedirectURL != ""
}

// RegisterRoutes attaches the Google login routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

// start accepts an optional next=/dashboard/... path to return to.
func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", msgNotConfigured, nil)
		return
	}
	state := uuid.NewString()
	s.states.put(state, safeNext(c.Query("next")))
	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL(state))
}

func (s *GoogleService) callback(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", msgNotConfigured, nil)
		return
	}
	state, code := c.Query("state"), c.Query("code")
	next, ok := s.states.consume(state)
	if code == "" || !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", msgBadCallback, nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.exchange_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadRequest, "invalid_request", msgBadCallback, nil)
		return
	}
	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		telemetry.Error("auth.profile_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadGateway, "auth_failed", msgProfileFailed, nil)
		return
	}

	user := users.User{
		ID:         "google:" + profile.Sub,
		Email:      profile.Email,
		FullName:   profile.Name,
		PictureURL: profile.Picture,
	}
	if s.users != nil {
		if user, err = s.users.UpsertFromAuth(ctx, user); err != nil {
			telemetry.Error("auth.user_upsert_failed", map[string]any{"user_id": "google:" + profile.Sub, "error": err.Error()})
			respond.Error(c, http.StatusInternalServerError, "internal_error", msgLoginFailed, nil)
			return
		}
	}

	jwt, err := s.signer.Sign(sharedauth.Claims{
		Sub:     user.ID,
		Email:   user.Email,
		Name:    user.FullName,
		Picture: user.PictureURL,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", msgLoginFailed, nil)
		return
	}
	target, err := appendToken(s.uiRedirect, jwt, next)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", msgLoginFailed, nil)
		return
	}
	telemetry.Info("auth.login", map[string]any{"user_id": user.ID, "email_fp": util.Fingerprint(user.Email)})
	c.Redirect(http.StatusFound, target)
}

type googleProfile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchProfile(ctx context.Context, token *oauth2.Token) (googleProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return googleProfile{}, err
	}
	resp, err := s.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return googleProfile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleProfile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return googleProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if strings.TrimSpace(p.Sub) == "" {
		return googleProfile{}, fmt.Errorf("userinfo without subject")
	}
	return p, nil
}
