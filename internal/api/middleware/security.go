package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// pagePolicy lets the page load its own script and style, open its
// websocket, and show catalog images from any host.
const pagePolicy = "default-src 'self'; img-src * data:; connect-src 'self' ws: wss:; frame-ancestors 'self'"

// SecurityHeaders sets the response headers every route shares.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", pagePolicy)

			// API and fragment responses are never cached.
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/fragments") {
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
				h.Set("Pragma", "no-cache")
			}

			return next(c)
		}
	}
}
