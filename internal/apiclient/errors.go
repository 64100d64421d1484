package apiclient

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/zephapay/onboarding-gateway/internal/gwerrors"
)

const maxErrorBody int64 = 1 << 20

const headerContentType string = "Content-Type"
const mimeJSON string = "application/json"

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

type errorBody struct {
	Message string `json:"message"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
}

// newAPIError builds the error of a non-2xx response, picking the message from
// the envelope or from a problem document when there is one.
func newAPIError(status int, body []byte) *gwerrors.APIError {
	apiErr := gwerrors.APIError{StatusCode: status, Body: body}
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		switch {
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		case parsed.Detail != "":
			apiErr.Message = parsed.Detail
		case parsed.Title != "":
			apiErr.Message = parsed.Title
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(http.StatusText(status))
	}
	return &apiErr
}

// readAPIError consumes and closes the body of a failed response.
func readAPIError(res *http.Response) *gwerrors.APIError {
	defer res.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return newAPIError(res.StatusCode, body)
}
