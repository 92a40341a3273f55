package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/assessio/assessment-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const identityContextKey = "identity"

type sessionClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth parses the Bearer token and places an Identity in the context.
// Requests without a valid token get the 401 envelope; role checks are left
// to the handlers so each endpoint can report Forbidden separately.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims := &sessionClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
			}

			identity := models.Identity{
				Role:  models.ParseRole(claims.Role),
				Email: claims.Email,
			}

			// Subject carries the numeric account id. A missing or
			// non-numeric subject leaves AccountID at zero; the profile
			// flow falls back to the email claim in that case.
			if n, err := strconv.ParseUint(claims.Subject, 10, 64); err == nil {
				identity.AccountID = uint(n)
			}

			c.Set(identityContextKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the Identity stored by Auth, if any.
func IdentityFrom(c echo.Context) (models.Identity, bool) {
	id, ok := c.Get(identityContextKey).(models.Identity)
	return id, ok
}

// SetIdentity is used by handler tests to inject a caller directly.
func SetIdentity(c echo.Context, id models.Identity) {
	c.Set(identityContextKey, id)
}
