package portal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/models"
	"github.com/zephapay/onboarding-gateway/internal/services"
	"github.com/zephapay/onboarding-gateway/internal/sessions"
	"github.com/zephapay/onboarding-gateway/internal/utils"
)

type authStatus struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Redirect      string     `json:"redirect,omitempty"`
}

type loginService interface {
	Login(ctx context.Context, credentials models.LoginRequest) (models.TokenPair, error)
}

func loginServiceFor(scope apiclient.Scope, client *apiclient.Client) (loginService, error) {
	if scope.Name == apiclient.AdminScope.Name {
		return services.NewAdminService(client)
	}
	return services.NewCustomerService(client)
}

func (s *Server) login(scope apiclient.Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		var credentials models.LoginRequest
		err := c.Bind(&credentials)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "the login request cannot be parsed")
		}
		if credentials.Email == "" || credentials.Password == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
		}
		scoped, data, err := s.scopedClient(c, scope)
		if err != nil {
			return err
		}
		logins, err := loginServiceFor(scope, scoped.Client)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		_, err = logins.Login(ctx, credentials)
		if err != nil {
			return upstreamError(c, scope, data, err)
		}
		err = scoped.Watcher.Start()
		if err != nil {
			return err
		}
		if s.events != nil {
			err = s.events.UserLoggedIn(credentials.Email, scope.Name)
			if err != nil {
				slog.Error("PORTAL", "message", "could not report the login", "error", err, "requestID", utils.GetRequestID(c))
			}
		}
		err = data.Set(ctx, loginEmailKey(scope), credentials.Email)
		if err != nil {
			slog.Error("PORTAL", "message", "could not record the login email", "error", err, "requestID", utils.GetRequestID(c))
		}
		// a stale redirect from an earlier session must not bounce the fresh login
		popRedirect(ctx, data)
		return c.JSON(http.StatusOK, s.currentStatus(c, scoped))
	}
}

func (s *Server) logout(scope apiclient.Scope, everywhere bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := sessions.FromContext(c)
		if err != nil {
			return err
		}
		scoped, data, err := s.scopedClient(c, scope)
		if err != nil {
			return err
		}
		forgetLoginEmail(c, data, scope)
		if everywhere {
			err = scoped.Client.LogoutAll(c.Request().Context())
		} else {
			err = scoped.Client.Logout(c.Request().Context())
		}
		s.registry.Evict(session.ID, scope.Name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, authStatus{Authenticated: false, Redirect: scope.LoginLocation})
	}
}

// PostSessionEnd logs out every scope that is still logged in and then deletes
// the browser session together with its data.
func (s *Server) PostSessionEnd(c echo.Context) error {
	session, err := sessions.FromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	for _, scope := range []apiclient.Scope{apiclient.CustomerScope, apiclient.AdminScope} {
		scoped, _, err := s.scopedClient(c, scope)
		if err != nil {
			return err
		}
		_, err = scoped.Tokens.GetAccessToken(ctx)
		if err != nil {
			continue
		}
		err = scoped.Client.Logout(ctx)
		if err != nil {
			slog.Error("PORTAL", "message", "could not log out while ending the session", "scope", scope.Name, "error", err, "requestID", utils.GetRequestID(c))
		}
	}
	s.registry.EvictSession(session.ID)
	err = s.sessions.Delete(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authStatus{Authenticated: false, Redirect: apiclient.CustomerScope.LoginLocation})
}

func forgetLoginEmail(c echo.Context, data kvstore.Store, scope apiclient.Scope) {
	err := data.Delete(c.Request().Context(), loginEmailKey(scope))
	if err != nil {
		slog.Error("PORTAL", "message", "could not clear the login email", "error", err, "requestID", utils.GetRequestID(c))
	}
}

func (s *Server) status(scope apiclient.Scope) echo.HandlerFunc {
	return func(c echo.Context) error {
		scoped, data, err := s.scopedClient(c, scope)
		if err != nil {
			return err
		}
		output := s.currentStatus(c, scoped)
		output.Redirect = popRedirect(c.Request().Context(), data)
		return c.JSON(http.StatusOK, output)
	}
}

func (s *Server) currentStatus(c echo.Context, scoped *ScopedClient) authStatus {
	ctx := c.Request().Context()
	authenticated, err := scoped.Tokens.IsAuthenticated(ctx)
	if err != nil {
		slog.Error("PORTAL", "message", "could not read the token store", "error", err, "requestID", utils.GetRequestID(c))
		return authStatus{}
	}
	if !authenticated {
		scoped.Watcher.Stop()
		return authStatus{}
	}
	output := authStatus{Authenticated: true}
	token, err := scoped.Tokens.Token(ctx)
	if err == nil && !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		output.ExpiresAt = &expiry
	}
	return output
}
