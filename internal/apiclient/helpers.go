package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
	"github.com/zephapay/onboarding-gateway/internal/models"
)

func newJSONRequest(method string, path string, in any) (*request, error) {
	req := request{method: method, path: path, header: http.Header{}}
	if in == nil {
		return &req, nil
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("cannot encode the request body: %w", err)
	}
	req.body = payload
	req.header.Set(headerContentType, mimeJSON)
	return &req, nil
}

// decodeResponse turns non-2xx responses into *gwerrors.APIError and decodes the
// envelope payload of the rest into out.
func decodeResponse(res *http.Response, out any) error {
	if !isSuccess(res.StatusCode) {
		return readAPIError(res)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	env, err := models.DecodeEnvelope[json.RawMessage](body)
	if err != nil {
		return err
	}
	if isNull(env.Data) {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (c *Client) exchange(ctx context.Context, req *request, out any) error {
	res, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	return decodeResponse(res, out)
}

// Call sends in as JSON and decodes the payload of the response into out.
// Either of them may be nil.
func (c *Client) Call(ctx context.Context, method string, path string, in any, out any) error {
	req, err := newJSONRequest(method, path, in)
	if err != nil {
		return err
	}
	return c.exchange(ctx, req, out)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.Call(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in any, out any) error {
	return c.Call(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in any, out any) error {
	return c.Call(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in any, out any) error {
	return c.Call(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, in any, out any) error {
	return c.Call(ctx, http.MethodDelete, path, in, out)
}

// PostAnonymous calls a public endpoint: no token is attached and a 401 is
// returned to the caller instead of starting a refresh.
func (c *Client) PostAnonymous(ctx context.Context, path string, in any, out any) error {
	req, err := newJSONRequest(http.MethodPost, path, in)
	if err != nil {
		return err
	}
	req.anonymous = true
	return c.exchange(ctx, req, out)
}

// Do forwards a raw request. The response is returned whatever its status, the
// caller owns its body.
func (c *Client) Do(ctx context.Context, method string, path string, header http.Header, body []byte) (*http.Response, error) {
	req := request{method: method, path: path, header: header.Clone(), body: body}
	if req.header == nil {
		req.header = http.Header{}
	}
	return c.send(ctx, &req)
}

// Upload posts a multipart form with the given text fields and one file.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, fileField string, fileName string, r io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, val := range fields {
		err := writer.WriteField(key, val)
		if err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, r)
	if err != nil {
		return fmt.Errorf("cannot read the uploaded file: %w", err)
	}
	err = writer.Close()
	if err != nil {
		return err
	}
	req := request{method: http.MethodPost, path: path, header: http.Header{}, body: buf.Bytes()}
	req.header.Set(headerContentType, writer.FormDataContentType())
	return c.exchange(ctx, &req, out)
}

// Download is a streamed file. The request timeout runs until Body is closed.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Filename      string
	Header        http.Header
}

func (c *Client) Download(ctx context.Context, path string) (*Download, error) {
	req := request{method: http.MethodGet, path: path, header: http.Header{"Accept": []string{"*/*"}}}
	res, err := c.send(ctx, &req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(res.StatusCode) {
		return nil, readAPIError(res)
	}
	download := Download{
		Body:          res.Body,
		ContentType:   res.Header.Get(headerContentType),
		ContentLength: res.ContentLength,
		Header:        res.Header,
	}
	if disposition := res.Header.Get("Content-Disposition"); disposition != "" {
		_, params, err := mime.ParseMediaType(disposition)
		if err == nil {
			download.Filename = params["filename"]
		}
	}
	return &download, nil
}

// Login exchanges credentials for a token pair and stores it.
func (c *Client) Login(ctx context.Context, credentials models.LoginRequest) (models.TokenPair, error) {
	var pair models.TokenPair
	err := c.PostAnonymous(ctx, c.scope.LoginPath, credentials, &pair)
	if err != nil {
		return models.TokenPair{}, err
	}
	if !pair.Valid() {
		return models.TokenPair{}, fmt.Errorf("%w: the login response carries no access token", gwerrors.ErrUnauthorized)
	}
	err = c.tokens.SetTokens(ctx, pair.AccessToken, pair.RefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	slog.Debug("API CLIENT", "message", "logged in", "scope", c.scope.Name)
	return pair, nil
}

// VerifyCredentials checks credentials against the login endpoint without
// touching the stored tokens.
func (c *Client) VerifyCredentials(ctx context.Context, credentials models.LoginRequest) (bool, error) {
	var pair models.TokenPair
	err := c.PostAnonymous(ctx, c.scope.LoginPath, credentials, &pair)
	var apiErr *gwerrors.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return pair.Valid(), nil
}

// Logout tells the backend the session is over. The local tokens are cleared
// whatever the backend answers.
func (c *Client) Logout(ctx context.Context) error {
	return c.logoutAt(ctx, c.scope.LogoutPath)
}

// LogoutAll ends every session of the user, where the scope supports it.
func (c *Client) LogoutAll(ctx context.Context) error {
	if c.scope.LogoutAllPath == "" {
		return fmt.Errorf("the %s scope cannot log out all sessions", c.scope.Name)
	}
	return c.logoutAt(ctx, c.scope.LogoutAllPath)
}

func (c *Client) logoutAt(ctx context.Context, path string) error {
	err := c.Post(ctx, path, nil, nil)
	if err != nil {
		slog.Info("API CLIENT", "message", "backend logout failed, clearing the tokens anyway", "scope", c.scope.Name, "error", err)
	}
	c.metrics.LoggedOut(c.scope.Name, "logout")
	return c.tokens.ClearTokens(context.WithoutCancel(ctx))
}

// ForceLogout ends the session locally and sends the user to the expired location.
func (c *Client) ForceLogout(ctx context.Context) {
	c.endSession(context.WithoutCancel(ctx), c.scope.ExpiredLocation, "expired")
}
