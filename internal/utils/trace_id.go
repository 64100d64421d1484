package utils

import (
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

const SentryTraceHeader string = "sentry-trace"

// TraceParent returns the sentry-trace value of the request so that backend
// spans join the gateway trace. It is empty when tracing is off.
func TraceParent(c echo.Context) string {
	if span := sentryecho.GetSpanFromContext(c); span != nil {
		return span.ToSentryTrace()
	}
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		return hub.GetTraceparent()
	}
	return ""
}
