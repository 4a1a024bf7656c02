package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists route paths that bypass session authentication: health
// checks, metrics and the login endpoint itself.
var publicPaths = map[string]bool{
	"/health":     true,
	"/health/db":  true,
	"/metrics":    true,
	"/auth/login": true,
}

// AuthSkipper returns true for requests whose route should skip
// authentication. Pass it to SessionMiddleware.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether path is reachable without a session.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
