// Package apierrors is the JSON error envelope returned by the HTTP API.
package apierrors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// FieldError is one failed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// InvalidRequest reports a body or parameter that could not be parsed.
func InvalidRequest(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// Validation reports one or more invalid fields.
func Validation(fields []FieldError) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", fields)
}

// NotFound reports a missing resource, e.g. NotFound("trade").
func NotFound(resource string) *APIError {
	return New(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource))
}

// TooLarge reports an upload over the configured limit.
func TooLarge(limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the size limit", limit)
}

// Internal hides the cause; callers log it.
func Internal() *APIError {
	return New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// Render implements render.Renderer.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// Write renders err as an ErrorResponse.
func Write(w http.ResponseWriter, r *http.Request, err *APIError) {
	_ = render.Render(w, r, &ErrorResponse{Success: false, Error: err})
}
