package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
)

const maxErrorBody = 1 << 20

// UpstreamError is a non-2xx response from an upstream HTTP service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s returned status %d (%s): %s", e.Service, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Message)
}

// Unwrap maps the status onto the shared sentinel errors.
func (e *UpstreamError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidInput
	case e.StatusCode == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode >= 500:
		return apperrors.ErrServiceUnavail
	default:
		return nil
	}
}

// Retryable reports whether the same request may succeed later.
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// errorBody matches the {"error":{"code":...,"message":...}} envelope used
// by our own services and by OpenAI-compatible APIs. Code may be a string or
// a number depending on the provider.
type errorBody struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// returns it as an *UpstreamError.
func ParseResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()

	upErr := &UpstreamError{Service: service, StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		upErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return upErr
	}

	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
		upErr.Code = strings.Trim(string(parsed.Error.Code), `"`)
		if upErr.Code == "null" {
			upErr.Code = ""
		}
		upErr.Message = parsed.Error.Message
		return upErr
	}

	upErr.Message = strings.TrimSpace(string(body))
	if upErr.Message == "" {
		upErr.Message = http.StatusText(resp.StatusCode)
	}
	return upErr
}
