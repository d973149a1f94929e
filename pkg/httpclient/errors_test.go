package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestParseResponseError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  string
		wantMsg   string
		wantIs    error
		retryable bool
	}{
		{
			name:     "structured string code",
			status:   http.StatusBadRequest,
			body:     `{"error":{"code":"INVALID_INPUT","message":"rating out of range"}}`,
			wantCode: "INVALID_INPUT",
			wantMsg:  "rating out of range",
			wantIs:   apperrors.ErrInvalidInput,
		},
		{
			name:     "structured numeric code",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"code":401,"message":"No auth credentials found"}}`,
			wantCode: "401",
			wantMsg:  "No auth credentials found",
			wantIs:   apperrors.ErrUnauthorized,
		},
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"code":null,"message":"Rate limit exceeded"}}`,
			wantMsg:   "Rate limit exceeded",
			wantIs:    apperrors.ErrServiceUnavail,
			retryable: true,
		},
		{
			name:      "unstructured body",
			status:    http.StatusBadGateway,
			body:      "upstream connect error",
			wantMsg:   "upstream connect error",
			wantIs:    apperrors.ErrServiceUnavail,
			retryable: true,
		},
		{
			name:    "empty body",
			status:  http.StatusNotFound,
			wantMsg: "Not Found",
			wantIs:  apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseResponseError(response(tt.status, tt.body), "openrouter")

			var upErr *UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, "openrouter", upErr.Service)
			assert.Equal(t, tt.status, upErr.StatusCode)
			assert.Equal(t, tt.wantCode, upErr.Code)
			assert.Equal(t, tt.wantMsg, upErr.Message)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.retryable, upErr.Retryable())
			assert.Contains(t, err.Error(), "openrouter returned status")
		})
	}
}
