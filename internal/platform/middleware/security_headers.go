package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	apiCSP        = "default-src 'none'; frame-ancestors 'none'"
	attachmentCSP = "default-src 'none'; frame-ancestors 'none'; sandbox"
	hstsValue     = "max-age=31536000; includeSubDomains"
)

// SecurityHeaders sets the headers every response carrying patient data
// needs. hsts adds Strict-Transport-Security and belongs only on deployments
// served over TLS.
//
// Exported checklists leave as attachments. Once a handler marks the
// response that way, the policy is tightened right before the header is
// written: the document is sandboxed if a browser opens it inline and it may
// not be embedded cross-origin.
func SecurityHeaders(hsts bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response()
			h := res.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", apiCSP)
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}

			res.Before(func() {
				if !isAttachment(h.Get(echo.HeaderContentDisposition)) {
					return
				}
				h.Set("Content-Security-Policy", attachmentCSP)
				h.Set("Cache-Control", "private, no-store, max-age=0")
				h.Set("Cross-Origin-Resource-Policy", "same-origin")
			})

			return next(c)
		}
	}
}

func isAttachment(disposition string) bool {
	kind, _, _ := strings.Cut(disposition, ";")
	return strings.EqualFold(strings.TrimSpace(kind), "attachment")
}
