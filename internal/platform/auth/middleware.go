package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SessionMiddleware authenticates every request not matched by skipper. A
// valid, unrevoked bearer token puts its Session on the request context and
// the username on the echo context for the access log.
func SessionMiddleware(sessions *SessionManager, revoked *TokenRevocationStore, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			tokenStr, err := bearerToken(c.Request())
			if err != nil {
				return err
			}

			sess, err := sessions.Parse(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			if revoked != nil && revoked.IsRevoked(sess.ID) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session has been revoked")
			}

			c.Set("username", sess.Username)
			c.SetRequest(c.Request().WithContext(WithSession(c.Request().Context(), sess)))
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}
