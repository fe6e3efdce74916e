package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuerName = "cruzados-backend"

// Claims represents the member identity contained in a session token.
type Claims struct {
	Sub     string
	Email   string
	Name    string
	Picture string
	Exp     time.Time
	Iat     time.Time
}

var (
	// ErrMissingSecret is returned when production runs without JWT_SECRET.
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer. Outside production an empty secret falls back
// to a fixed development secret.
func NewIssuer(secret string, ttl time.Duration, env string) (*Issuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		switch strings.ToLower(strings.TrimSpace(env)) {
		case "production", "prod":
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", ErrMissingSecret)
		}
		secret = "dev-secret"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Sign issues a token for the given claims. Zero Iat/Exp are filled in.
func (i *Issuer) Sign(claims Claims) (string, error) {
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}
	now := i.now().UTC()
	if claims.Iat.IsZero() {
		claims.Iat = now
	}
	if claims.Exp.IsZero() {
		claims.Exp = claims.Iat.Add(i.ttl)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   claims.Sub,
			IssuedAt:  jwt.NewNumericDate(claims.Iat),
			ExpiresAt: jwt.NewNumericDate(claims.Exp),
		},
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})
	return token.SignedString(i.secret)
}

// Verify checks signature, issuer and expiry and returns the claims.
func (i *Issuer) Verify(token string) (Claims, error) {
	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &parsed, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{
		Sub:     parsed.Subject,
		Email:   parsed.Email,
		Name:    parsed.Name,
		Picture: parsed.Picture,
	}
	if parsed.ExpiresAt != nil {
		out.Exp = parsed.ExpiresAt.Time
	}
	if parsed.IssuedAt != nil {
		out.Iat = parsed.IssuedAt.Time
	}
	return out, nil
}
