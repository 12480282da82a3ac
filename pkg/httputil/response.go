package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/vnkatpara-dev/TastePulse/pkg/errors"
	"github.com/vnkatpara-dev/TastePulse/pkg/logger"
	"github.com/vnkatpara-dev/TastePulse/pkg/validator"
)

// maxBodyBytes caps request bodies accepted by DecodeJSON.
const maxBodyBytes = 1 << 20

// ErrorEnvelope wraps every error body as {"error": {...}}. Success bodies are
// written bare.
type ErrorEnvelope struct {
	Error *ErrorResponse `json:"error"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status code and writes the error envelope.
// Server-side failures (5xx) are logged with the request-scoped logger when the
// RequestLogger middleware is mounted, and with fallback otherwise.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeValidation(w, valErr, requestID)
		return
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fallbackError(err)
	}
	status := appErr.Status
	resp := &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, ErrorEnvelope{Error: resp})
}

// fallbackError maps an error that is not an AppError by its sentinel.
// Anything unrecognised becomes an internal error.
func fallbackError(err error) *apperrors.AppError {
	status := apperrors.HTTPStatus(err)
	switch status {
	case http.StatusNotFound:
		return &apperrors.AppError{Code: "NOT_FOUND", Message: "resource not found", Status: status, Err: err}
	case http.StatusBadRequest:
		return &apperrors.AppError{Code: "INVALID_INPUT", Message: err.Error(), Status: status, Err: err}
	case http.StatusBadGateway:
		return &apperrors.AppError{Code: "CLASSIFICATION_FAILED", Message: "sentiment classification failed", Status: status, Err: err}
	case http.StatusServiceUnavailable:
		return &apperrors.AppError{Code: "SERVICE_UNAVAILABLE", Message: "a dependency is temporarily unavailable", Status: status, Err: err}
	default:
		return apperrors.Internal(err)
	}
}

// WriteValidationError writes a 400 response. Field-level details are included
// when err is a *validator.ValidationError.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeValidation(w, valErr, "")
		return
	}
	WriteJSON(w, http.StatusBadRequest, ErrorEnvelope{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeValidation(w http.ResponseWriter, valErr *validator.ValidationError, requestID string) {
	WriteJSON(w, http.StatusBadRequest, ErrorEnvelope{
		Error: &ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			Fields:    valErr.Fields(),
			RequestID: requestID,
		},
	})
}

// DecodeJSON decodes a size-limited JSON body into dst. Unknown fields are
// tolerated; a malformed body yields an invalid-input error.
func DecodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
