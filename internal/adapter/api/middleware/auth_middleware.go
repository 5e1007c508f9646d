package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/infrastructure/auth"
)

const (
	ContextUsername = "username"
	ContextRole     = "role"
)

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate accepts a Bearer token, or a token query parameter for
// browser websocket upgrades which can't set headers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")

		if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
			}
			token = parts[1]
		}

		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		claims, err := m.tokens.VerifyToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)

		return next(c)
	}
}

// Identity returns the authenticated caller set by Authenticate.
func Identity(c echo.Context) (entity.Identity, bool) {
	username, ok := c.Get(ContextUsername).(string)
	if !ok || username == "" {
		return entity.Identity{}, false
	}
	role, _ := c.Get(ContextRole).(string)
	return entity.Identity{Username: username, Role: role}, true
}

// DeviceID identifies the admin's browser for the device-local read ledger.
func DeviceID(c echo.Context) string {
	if id := c.Request().Header.Get("X-Device-ID"); id != "" {
		return id
	}
	return c.QueryParam("device_id")
}
