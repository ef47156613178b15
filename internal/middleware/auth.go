package middleware

import (
	"net/http"
	"strings"

	"github.com/chorebattle/backend/internal/auth"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Identity is the decoded session placed on the request context by
// RequireAuth.
type Identity struct {
	UserID      string
	Email       string
	HouseholdID string
}

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		claims, err := m.tokens.Verify(tokenStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		c.Set(identityKey, Identity{
			UserID:      claims.UserID,
			Email:       claims.Email,
			HouseholdID: claims.HouseholdID,
		})
		return next(c)
	}
}

// CurrentUser returns the identity set by RequireAuth, or the zero Identity
// on routes that skipped authentication.
func CurrentUser(c echo.Context) Identity {
	ident, _ := c.Get(identityKey).(Identity)
	return ident
}
