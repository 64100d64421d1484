// Package portal contains the HTTP surface the onboarding web application talks
// to. Browsers never see backend tokens: the portal keeps them in the session
// and calls the backend through one authenticated client per credential scope.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/sessions"
	"github.com/zephapay/onboarding-gateway/internal/utils"
)

type Server struct {
	basePath string
	sessions *sessions.SessionStore
	registry *ClientRegistry
	events   LoginEvents
	version  string
	healthy  func(ctx context.Context) error
}

// DataKeys are all the keys the portal writes into a session namespace.
func DataKeys() []string {
	keys := []string{pendingRedirectKey, darkModeKey, profileLockedKey}
	for _, scope := range []apiclient.Scope{apiclient.CustomerScope, apiclient.AdminScope} {
		keys = append(keys, scope.Keys.AccessToken, scope.Keys.RefreshToken, scope.Keys.LoggedIn, loginEmailKey(scope))
	}
	return keys
}

func (s *Server) RegisterHandlers(e *echo.Echo, commonMiddlewares ...echo.MiddlewareFunc) {
	e.GET(s.basePath+"/health", s.GetHealth)
	e.GET(s.basePath+"/version", s.GetVersion)

	g := e.Group(s.basePath, append(commonMiddlewares, s.sessions.Middleware(), NoCaching)...)
	g.POST("/auth/login", s.login(apiclient.CustomerScope))
	g.POST("/auth/logout", s.logout(apiclient.CustomerScope, false))
	g.GET("/auth/status", s.status(apiclient.CustomerScope))
	g.POST("/admin/auth/login", s.login(apiclient.AdminScope))
	g.POST("/admin/auth/logout", s.logout(apiclient.AdminScope, false))
	g.POST("/admin/auth/logout-all", s.logout(apiclient.AdminScope, true))
	g.GET("/admin/auth/status", s.status(apiclient.AdminScope))
	g.POST("/session/end", s.PostSessionEnd)
	g.GET("/preferences", s.GetPreferences)
	g.PUT("/preferences", s.PutPreferences)
	g.POST("/profile/lock", s.PostProfileLock)
	g.POST("/profile/unlock", s.PostProfileUnlock)
	g.Any("/v1/*", s.passthrough(apiclient.CustomerScope, s.basePath+"/v1"))
	g.Any("/admin/v1/*", s.passthrough(apiclient.AdminScope, s.basePath+"/admin/v1"))
}

func (s *Server) GetHealth(c echo.Context) error {
	if s.healthy == nil {
		return c.NoContent(http.StatusOK)
	}
	err := s.healthy(c.Request().Context())
	if err != nil {
		slog.Error("PORTAL", "message", "health check failed", "error", err, "requestID", utils.GetRequestID(c))
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) GetVersion(c echo.Context) error {
	return c.String(http.StatusOK, s.version)
}

// scopedClient returns the client of the request's session for scope together
// with the session's key-value namespace.
func (s *Server) scopedClient(c echo.Context, scope apiclient.Scope) (*ScopedClient, kvstore.Store, error) {
	session, err := sessions.FromContext(c)
	if err != nil {
		return nil, nil, err
	}
	data := s.sessions.Data(session)
	scoped, err := s.registry.Client(c.Request().Context(), session.ID, session.ExpiresAt, data, scope)
	if err != nil {
		return nil, nil, err
	}
	return scoped, data, nil
}

type ServerOption func(*Server) error

func WithBasePath(basePath string) ServerOption {
	return func(s *Server) error {
		s.basePath = basePath
		return nil
	}
}

func WithSessionStore(sessions *sessions.SessionStore) ServerOption {
	return func(s *Server) error {
		s.sessions = sessions
		return nil
	}
}

func WithClientRegistry(registry *ClientRegistry) ServerOption {
	return func(s *Server) error {
		s.registry = registry
		return nil
	}
}

func WithEvents(events LoginEvents) ServerOption {
	return func(s *Server) error {
		s.events = events
		return nil
	}
}

func WithVersion(version string) ServerOption {
	return func(s *Server) error {
		s.version = version
		return nil
	}
}

// WithHealthCheck makes the health endpoint fail while check does.
func WithHealthCheck(check func(ctx context.Context) error) ServerOption {
	return func(s *Server) error {
		s.healthy = check
		return nil
	}
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := Server{}
	for _, opt := range options {
		err := opt(&server)
		if err != nil {
			return &Server{}, err
		}
	}
	if server.sessions == nil {
		return &Server{}, fmt.Errorf("session store not initialized")
	}
	if server.registry == nil {
		return &Server{}, fmt.Errorf("client registry not initialized")
	}
	return &server, nil
}
