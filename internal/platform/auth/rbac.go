package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Roles as they appear in the credentials file.
const (
	RoleAdministrador = "Administrador"
	RoleEnfermeria    = "Enfermeria"
	RoleCirujano      = "Cirujano"
)

// HasRole reports whether the session holds one of roles. Matching is exact;
// no role implies another. An empty roles list admits any session.
func HasRole(s *Session, roles ...string) bool {
	if s == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// RequireRole returns middleware that rejects sessions whose role is not one
// of roles. It runs before the handler, so a rejected request never mutates
// a dataset.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !HasRole(sess, roles...) {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
			}
			return next(c)
		}
	}
}
