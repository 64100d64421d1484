package utils

import "github.com/labstack/echo/v4"

// GetRequestID returns the ID the request ID middleware assigned, or the one
// the caller sent when the middleware did not run.
func GetRequestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
