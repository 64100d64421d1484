package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/models"
)

// request is kept in a replayable form: the body is buffered and the retried
// marker travels with it.
type request struct {
	method    string
	path      string
	header    http.Header
	body      []byte
	anonymous bool
	retried   bool
	sentWith  string
}

// resolve joins a path, optionally with a query, onto the base url. Paths that
// climb out of the base path are rejected.
func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("only paths relative to the API are allowed, got %q", path)
	}
	u := c.baseURL.JoinPath(ref.EscapedPath())
	if c.baseURL.Path != "" && u.Path != c.baseURL.Path && !strings.HasPrefix(u.Path, c.baseURL.Path+"/") {
		return "", fmt.Errorf("the path %q leaves the API base path", path)
	}
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req *request) (*http.Request, error) {
	target, err := c.resolve(req.path)
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, err
	}
	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if req.body != nil && httpReq.Header.Get(headerContentType) == "" {
		httpReq.Header.Set(headerContentType, mimeJSON)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", mimeJSON)
	}
	return httpReq, nil
}

// authorize attaches the bearer token and returns it. Without an explicit token
// the stored one is used, and a missing token simply leaves the request anonymous.
func (c *Client) authorize(ctx context.Context, httpReq *http.Request, token string) string {
	if token == "" {
		stored, err := c.tokens.GetAccessToken(ctx)
		if err != nil {
			if !errors.Is(err, gwerrors.ErrTokenNotFound) {
				slog.Warn("API CLIENT", "message", "could not read the access token", "scope", c.scope.Name, "error", err)
			}
			return ""
		}
		token = stored
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	return token
}

func (c *Client) roundTrip(ctx context.Context, req *request, token string) (*http.Response, error) {
	ctx, cancel := c.withTimeout(ctx)
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}
	if !req.anonymous {
		req.sentWith = c.authorize(ctx, httpReq, token)
	}
	res, err := c.clientFor(req.method).Do(httpReq)
	if err != nil {
		cancel()
		return nil, err
	}
	res.Body = &cancelOnClose{ReadCloser: res.Body, cancel: cancel}
	return res, nil
}

// send performs the request and recovers from a first 401 by replaying once.
// When the stored token changed while the request was in flight the replay uses
// it directly, otherwise the session is refreshed first. Any other response is
// returned as is.
func (c *Client) send(ctx context.Context, req *request) (*http.Response, error) {
	res, err := c.roundTrip(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusUnauthorized || req.retried || req.anonymous {
		return res, nil
	}
	original := readAPIError(res)
	req.retried = true
	stored, err := c.tokens.GetAccessToken(ctx)
	if err == nil && stored != req.sentWith {
		slog.Debug("API CLIENT", "message", "session was refreshed meanwhile, replaying", "scope", c.scope.Name, "path", req.path)
		return c.roundTrip(ctx, req, stored)
	}
	slog.Debug("API CLIENT", "message", "request was not authorized, recovering the session", "scope", c.scope.Name, "path", req.path)
	token, err := c.recoverSession(ctx, original)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, req, token)
}

// recoverSession returns a fresh access token. Only one caller per scope talks
// to the refresh endpoint, everybody else waits for its outcome.
func (c *Client) recoverSession(ctx context.Context, original *gwerrors.APIError) (string, error) {
	wait, leader := c.coordinator.acquire()
	if !leader {
		slog.Debug("API CLIENT", "message", "refresh in progress, parking request", "scope", c.scope.Name)
		select {
		case result := <-wait:
			return result.token, result.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	token, err := c.refreshSession(ctx, original)
	c.coordinator.settle(token, err)
	return token, err
}

func (c *Client) refreshSession(ctx context.Context, original *gwerrors.APIError) (string, error) {
	cleanupCtx := context.WithoutCancel(ctx)
	refreshToken, err := c.tokens.GetRefreshToken(cleanupCtx)
	if errors.Is(err, gwerrors.ErrTokenNotFound) {
		slog.Info("API CLIENT", "message", "no refresh token available, ending session", "scope", c.scope.Name)
		c.endSession(cleanupCtx, c.scope.LoginLocation, "no_refresh_token")
		return "", fmt.Errorf("%w: %w", gwerrors.ErrNoRefreshToken, original)
	}
	if err != nil {
		err = fmt.Errorf("%w: cannot read the refresh token: %w", gwerrors.ErrRefreshFailed, err)
		c.metrics.RefreshCompleted(c.scope.Name, err)
		c.endSession(cleanupCtx, c.scope.ExpiredLocation, "refresh_failed")
		return "", err
	}
	pair, err := c.refresh(ctx, refreshToken)
	c.metrics.RefreshCompleted(c.scope.Name, err)
	if err != nil {
		slog.Info("API CLIENT", "message", "token refresh failed, ending session", "scope", c.scope.Name, "error", err)
		c.endSession(cleanupCtx, c.scope.ExpiredLocation, "refresh_failed")
		return "", err
	}
	slog.Debug("API CLIENT", "message", "token refreshed", "scope", c.scope.Name)
	return pair.AccessToken, nil
}

// refresh exchanges the refresh token on the bare refresh client. The call is
// detached from the caller's cancellation so one impatient caller does not end
// the session of everybody waiting on it.
func (c *Client) refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()
	payload, err := json.Marshal(models.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return models.TokenPair{}, err
	}
	target, err := c.resolve(c.scope.RefreshPath)
	if err != nil {
		return models.TokenPair{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return models.TokenPair{}, err
	}
	httpReq.Header.Set(headerContentType, mimeJSON)
	httpReq.Header.Set("Accept", mimeJSON)
	res, err := c.refreshClient.Do(httpReq)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", gwerrors.ErrRefreshFailed, err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", gwerrors.ErrRefreshFailed, err)
	}
	if !isSuccess(res.StatusCode) {
		return models.TokenPair{}, fmt.Errorf("%w: %w", gwerrors.ErrRefreshFailed, newAPIError(res.StatusCode, body))
	}
	env, err := models.DecodeEnvelope[models.TokenPair](body)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", gwerrors.ErrRefreshFailed, err)
	}
	if !env.Success || !env.Data.Valid() {
		return models.TokenPair{}, fmt.Errorf("%w: the refresh response carries no access token", gwerrors.ErrRefreshFailed)
	}
	pair := env.Data
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	err = c.tokens.SetTokens(ctx, pair.AccessToken, pair.RefreshToken)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: cannot store the new tokens: %w", gwerrors.ErrRefreshFailed, err)
	}
	return pair, nil
}

// endSession clears the scope and sends the user to location.
func (c *Client) endSession(ctx context.Context, location string, reason string) {
	err := c.tokens.ClearTokens(ctx)
	if err != nil {
		slog.Error("API CLIENT", "message", "could not clear the token store", "scope", c.scope.Name, "error", err)
	}
	c.metrics.LoggedOut(c.scope.Name, reason)
	c.redirector.Redirect(ctx, location)
}
