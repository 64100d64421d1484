package portal

import (
	"github.com/labstack/echo/v4"
)

// responses below the session middleware carry data of one user
var noCacheHeaders = map[string][]string{
	"Cache-Control": {"no-store, max-age=0"},
	"Expires":       {"0"},
	"Pragma":        {"no-cache"},
	"Vary":          {"Cookie"},
}

// NoCaching keeps browsers and shared caches from storing session responses.
// Passthrough answers replace these with the headers of the backend.
func NoCaching(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Response().Header()
		for name, values := range noCacheHeaders {
			header[name] = append([]string(nil), values...)
		}
		return next(c)
	}
}
