package portal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/utils"
)

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// upstreamError answers a failed backend call. A session that could not be
// recovered gets a 401 telling the browser where to go, backend errors are
// passed on with their status and body.
func upstreamError(c echo.Context, scope apiclient.Scope, data kvstore.Store, err error) error {
	ctx := c.Request().Context()
	switch {
	case errors.Is(err, gwerrors.ErrNoRefreshToken), errors.Is(err, gwerrors.ErrRefreshFailed):
		location := popRedirect(ctx, data)
		if location == "" && errors.Is(err, gwerrors.ErrNoRefreshToken) {
			location = scope.LoginLocation
		}
		if location == "" {
			location = scope.ExpiredLocation
		}
		return c.JSON(http.StatusUnauthorized, redirectResponse{Redirect: location})
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "the backend did not answer in time")
	case errors.Is(err, context.Canceled):
		// the browser is gone, nobody reads this answer
		return c.NoContent(499)
	}
	var apiErr *gwerrors.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Body) > 0 && json.Valid(apiErr.Body) {
			return c.JSONBlob(apiErr.StatusCode, apiErr.Body)
		}
		return c.JSON(apiErr.StatusCode, messageResponse{Message: apiErr.Message})
	}
	slog.Error("PORTAL", "message", "backend call failed", "scope", scope.Name, "error", err, "requestID", utils.GetRequestID(c))
	return echo.NewHTTPError(http.StatusBadGateway, "the backend cannot be reached")
}
