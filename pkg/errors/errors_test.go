package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrInternal, ErrServiceUnavail,
		ErrClassification, ErrStorage,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("db connection lost")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "db connection lost")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "restaurant not found"}
	assert.Equal(t, "NOT_FOUND: restaurant not found", appErr.Error())
}

func TestAppError_Unwrap_Nil(t *testing.T) {
	appErr := &AppError{Code: "TEST", Message: "test"}
	assert.Nil(t, appErr.Unwrap())
}

// --- Constructor functions ---

func TestNotFound(t *testing.T) {
	err := NotFound("restaurant", "Spice Route")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, `restaurant "Spice Route" not found`, err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("rating must be between 1 and 5")
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestClassificationFailed_WrapsCauseAndSentinel(t *testing.T) {
	cause := errors.New("model returned garbage")
	err := ClassificationFailed("classifier rejected input", cause)

	assert.Equal(t, "CLASSIFICATION_FAILED", err.Code)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.True(t, errors.Is(err, ErrClassification))
	assert.True(t, errors.Is(err, cause))
}

func TestServiceUnavailable(t *testing.T) {
	cause := errors.New("circuit breaker is open")
	err := ServiceUnavailable("classifier unavailable", cause)

	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.True(t, errors.Is(err, ErrServiceUnavail))
	assert.True(t, errors.Is(err, cause))
}

func TestStorageUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := StorageUnavailable(cause)

	assert.Equal(t, "STORAGE_UNAVAILABLE", err.Code)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
}

func TestInternal(t *testing.T) {
	inner := errors.New("boom")
	err := Internal(inner)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, inner))
}

// --- IsDomain ---

func TestIsDomain(t *testing.T) {
	assert.True(t, IsDomain(InvalidInput("bad")))
	assert.True(t, IsDomain(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.False(t, IsDomain(errors.New("connection reset")))
	assert.False(t, IsDomain(StorageUnavailable(errors.New("down"))))
}

// --- HTTPStatus ---

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", InvalidInput("x"), http.StatusBadRequest},
		{"wrapped app error", fmt.Errorf("ctx: %w", NotFound("restaurant", "x")), http.StatusNotFound},
		{"not found sentinel", fmt.Errorf("ctx: %w", ErrNotFound), http.StatusNotFound},
		{"invalid sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"classification sentinel", ErrClassification, http.StatusBadGateway},
		{"storage sentinel", ErrStorage, http.StatusServiceUnavailable},
		{"unavailable sentinel", ErrServiceUnavail, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
