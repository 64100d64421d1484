package portal

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zephapay/onboarding-gateway/internal/apiclient"
	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/kvstore"
	"github.com/zephapay/onboarding-gateway/internal/models"
	"github.com/zephapay/onboarding-gateway/internal/services"
	"github.com/zephapay/onboarding-gateway/internal/sessions"
)

const (
	darkModeKey      string = "darkMode"
	profileLockedKey string = "profileLocked"
)

type unlockRequest struct {
	Password string `json:"password"`
}

func readFlag(ctx context.Context, data kvstore.Store, key string) (bool, error) {
	raw, err := data.Get(ctx, key)
	if errors.Is(err, gwerrors.ErrMissingDBResource) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return raw == "true", nil
}

// writeFlag stores true flags and deletes false ones.
func writeFlag(ctx context.Context, data kvstore.Store, key string, value bool) error {
	if !value {
		return data.Delete(ctx, key)
	}
	return data.Set(ctx, key, strconv.FormatBool(value))
}

func readPreferences(ctx context.Context, data kvstore.Store) (models.Preferences, error) {
	darkMode, err := readFlag(ctx, data, darkModeKey)
	if err != nil {
		return models.Preferences{}, err
	}
	locked, err := readFlag(ctx, data, profileLockedKey)
	if err != nil {
		return models.Preferences{}, err
	}
	return models.Preferences{DarkMode: darkMode, ProfileLocked: locked}, nil
}

func (s *Server) sessionData(c echo.Context) (kvstore.Store, error) {
	session, err := sessions.FromContext(c)
	if err != nil {
		return nil, err
	}
	return s.sessions.Data(session), nil
}

func (s *Server) GetPreferences(c echo.Context) error {
	data, err := s.sessionData(c)
	if err != nil {
		return err
	}
	preferences, err := readPreferences(c.Request().Context(), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preferences)
}

// PutPreferences only changes the dark mode, the profile lock follows the backend.
func (s *Server) PutPreferences(c echo.Context) error {
	var input models.Preferences
	err := c.Bind(&input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the preferences cannot be parsed")
	}
	data, err := s.sessionData(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	err = writeFlag(ctx, data, darkModeKey, input.DarkMode)
	if err != nil {
		return err
	}
	preferences, err := readPreferences(ctx, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preferences)
}

func (s *Server) PostProfileLock(c echo.Context) error {
	scope := apiclient.CustomerScope
	scoped, data, err := s.scopedClient(c, scope)
	if err != nil {
		return err
	}
	dashboard, err := services.NewDashboardService(scoped.Client)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := dashboard.CurrentUser(ctx)
	if err != nil {
		return upstreamError(c, scope, data, err)
	}
	profile, err := user.Profile()
	if err != nil {
		return err
	}
	err = dashboard.LockProfile(ctx, user.ID, profile)
	if err != nil {
		return upstreamError(c, scope, data, err)
	}
	return s.respondWithLock(c, data, true)
}

// PostProfileUnlock asks for the password again before the profile can be edited.
func (s *Server) PostProfileUnlock(c echo.Context) error {
	var input unlockRequest
	err := c.Bind(&input)
	if err != nil || input.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "the password is required")
	}
	scope := apiclient.CustomerScope
	scoped, data, err := s.scopedClient(c, scope)
	if err != nil {
		return err
	}
	dashboard, err := services.NewDashboardService(scoped.Client)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := dashboard.CurrentUser(ctx)
	if err != nil {
		return upstreamError(c, scope, data, err)
	}
	profile, err := user.Profile()
	if err != nil {
		return err
	}
	credentials := models.LoginRequest{Email: user.Email, Password: input.Password}
	err = dashboard.UnlockProfile(ctx, user.ID, credentials, profile)
	if err != nil {
		return upstreamError(c, scope, data, err)
	}
	return s.respondWithLock(c, data, false)
}

func (s *Server) respondWithLock(c echo.Context, data kvstore.Store, locked bool) error {
	ctx := c.Request().Context()
	err := writeFlag(ctx, data, profileLockedKey, locked)
	if err != nil {
		return err
	}
	preferences, err := readPreferences(ctx, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preferences)
}
