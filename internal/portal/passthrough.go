package portal

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/utils"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	redirectHeader       = "X-Gateway-Redirect"
	// uploads of KYC documents are the largest bodies
	maxPassthroughBody int64 = 32 << 20
)

// headers that belong to one connection or to the browser session and are
// never forwarded in either direction
var droppedHeaders = []string{
	"Authorization",
	"Connection",
	"Content-Length",
	"Cookie",
	"Host",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Set-Cookie",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func filterHeaders(in http.Header) http.Header {
	out := in.Clone()
	if out == nil {
		return http.Header{}
	}
	for _, name := range droppedHeaders {
		out.Del(name)
	}
	return out
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// passthrough forwards everything below prefix to the backend through the
// authenticated client of scope and streams the answer back.
func (s *Server) passthrough(scope apiclient.Scope, prefix string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		path := strings.TrimPrefix(req.URL.EscapedPath(), prefix)
		if path == "" {
			path = "/"
		}
		if req.URL.RawQuery != "" {
			path += "?" + req.URL.RawQuery
		}
		body, err := io.ReadAll(io.LimitReader(req.Body, maxPassthroughBody+1))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "the request body cannot be read")
		}
		if int64(len(body)) > maxPassthroughBody {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "the request body is too large")
		}
		header := filterHeaders(req.Header)
		if isMutating(req.Method) && header.Get(idempotencyKeyHeader) == "" {
			header.Set(idempotencyKeyHeader, uuid.NewString())
		}
		if trace := utils.TraceParent(c); trace != "" {
			header.Set(utils.SentryTraceHeader, trace)
		}
		scoped, data, err := s.scopedClient(c, scope)
		if err != nil {
			return err
		}
		res, err := scoped.Client.Do(req.Context(), req.Method, path, header, body)
		if err != nil {
			return upstreamError(c, scope, data, err)
		}
		defer res.Body.Close()
		for name, values := range filterHeaders(res.Header) {
			c.Response().Header()[name] = values
		}
		if location := popRedirect(req.Context(), data); location != "" {
			c.Response().Header().Set(redirectHeader, location)
		}
		c.Response().WriteHeader(res.StatusCode)
		_, err = io.Copy(c.Response(), res.Body)
		if err != nil {
			// the status line is already out, all that is left is to log
			slog.Info("PORTAL", "message", "streaming the backend response failed", "path", path, "error", err, "requestID", utils.GetRequestID(c))
		}
		return nil
	}
}
