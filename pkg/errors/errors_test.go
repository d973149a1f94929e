package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden,
		ErrInternal, ErrServiceUnavail, ErrPersistence, ErrCorruptData,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	inner := fmt.Errorf("disk full")
	appErr := &AppError{Code: "PERSISTENCE_ERROR", Message: "save failed", Err: inner}
	assert.Equal(t, "PERSISTENCE_ERROR: save failed: disk full", appErr.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "review not found"}
	assert.Equal(t, "NOT_FOUND: review not found", bare.Error())
}

func TestNotFound(t *testing.T) {
	err := NotFound("review", "42")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, "review with id 42 not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("rating must be between 1 and 5")
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPersistence_WrapsCauseAndSentinel(t *testing.T) {
	cause := errors.New("permission denied")
	err := Persistence(cause)

	assert.Equal(t, "PERSISTENCE_ERROR", err.Code)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.NotContains(t, err.Message, "permission denied")
}

func TestCorruptData_WrapsCauseAndSentinel(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := CorruptData(cause)

	assert.Equal(t, "CORRUPT_DATA", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, ErrCorruptData))
	assert.True(t, errors.Is(err, cause))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Forbidden("nope"), http.StatusForbidden},
		{"wrapped app error", fmt.Errorf("ctx: %w", NotFound("review", "1")), http.StatusNotFound},
		{"bare not found", ErrNotFound, http.StatusNotFound},
		{"bare invalid input", fmt.Errorf("x: %w", ErrInvalidInput), http.StatusBadRequest},
		{"bare persistence", ErrPersistence, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	original := NotFound("review", "9")
	assert.Same(t, original, FromError(fmt.Errorf("get: %w", original)))

	bare := FromError(fmt.Errorf("validate: %w", ErrInvalidInput))
	assert.Equal(t, "INVALID_INPUT", bare.Code)
	assert.Equal(t, "validate: invalid input", bare.Message)

	unknown := FromError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "INTERNAL_ERROR", unknown.Code)
	assert.Equal(t, "an internal error occurred", unknown.Message)
	assert.ErrorContains(t, unknown, "password authentication failed")
}

func TestNotFound_UnwrapsToSentinelOnly(t *testing.T) {
	err := NotFound("review", "1")
	assert.Same(t, ErrNotFound, err.Unwrap())
}
