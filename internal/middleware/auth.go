package middleware

import (
	"course-store/internal/service"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const IdentityKey = "identity"

// RequireAuth resolves the bearer credential through the session
// coordinator, so simultaneous requests from the same client share one
// verification instead of each paying for their own.
func RequireAuth(sessions *service.SessionCoordinator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			identity, err := sessions.Identity(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// IdentityFrom returns the identity set by RequireAuth.
func IdentityFrom(c echo.Context) (*service.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(*service.Identity)
	return identity, ok
}
