package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"lms-admin/internal/model"
)

const (
	tokenIssuer     = "lmsadmin-devserver"
	contextClaims   = "claims"
	defaultTokenTTL = 12 * time.Hour
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Email string         `json:"email,omitempty"`
	Role  model.UserRole `json:"role,omitempty"`
}

// canAdmin lists the roles allowed into the admin API.
func canAdmin(r model.UserRole) bool {
	return r == model.RoleAdmin || r == model.RoleOperations || r == model.RoleInstructor
}

func (s *Server) issueToken(u model.User) (string, time.Time, error) {
	now := s.store.now()
	exp := now.Add(s.opts.TokenTTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: u.Email,
		Role:  u.Role,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "signing token")
	}
	return ss, exp, nil
}

func (s *Server) parseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.opts.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// requireBearer rejects requests without a valid admin token.
func (s *Server) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return errUnauthorized
		}
		claims, err := s.parseToken(strings.TrimSpace(raw))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token").SetInternal(err)
		}
		if !canAdmin(claims.Role) {
			return errForbidden
		}
		c.Set(contextClaims, claims)
		return next(c)
	}
}

func contextClaimsOf(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(contextClaims).(*Claims)
	return claims, ok
}

type tokenRequest struct {
	GrantType string `json:"grantType"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Subject     string    `json:"sub"`
}

// handleToken is the password grant of the auth provider.
func (s *Server) handleToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest("invalid body")
	}
	if req.GrantType != "" && req.GrantType != "password" {
		return errBadRequest("unsupported grantType")
	}
	u, err := s.store.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if u.Status != model.UserActive {
		return echo.NewHTTPError(http.StatusForbidden, "account "+string(u.Status))
	}
	if !canAdmin(u.Role) {
		return errForbidden
	}
	tok, exp, err := s.issueToken(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: tok, ExpiresAt: exp.UTC(), Subject: u.ID})
}
