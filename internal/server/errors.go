package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

const (
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"
	ErrorCodeMissingParameter    ErrorCode = "missing_parameter"
	ErrorCodeInvalidFormat       ErrorCode = "invalid_format"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodePayloadTooLarge     ErrorCode = "payload_too_large"
	ErrorCodeInvalidFile         ErrorCode = "invalid_file"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"-"`
}

// Error makes APIError implement the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAPIError is a constructor for APIError.
func NewAPIError(code ErrorCode, message string, details any, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
	}
}

// respondWithJSON sends payload as a JSON response.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// respondWithError sends apiErr with its status code.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, apiErr *APIError) {
	respondWithJSON(w, logger, apiErr.StatusCode, apiErr)
}
