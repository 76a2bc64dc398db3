package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
)

// APIError is the JSON body of every failed API request.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func errorFor(err error) *APIError {
	switch {
	case errors.Is(err, dashboard.ErrRefreshFailed):
		return newAPIError(http.StatusBadGateway, "REFRESH_FAILED", err.Error())
	case errors.Is(err, dashboard.ErrInvalidStatus):
		return newAPIError(http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, chat.ErrEmptyMessage):
		return newAPIError(http.StatusBadRequest, "EMPTY_MESSAGE", err.Error())
	case errors.Is(err, chat.ErrMessageTooLong):
		return newAPIError(http.StatusBadRequest, "MESSAGE_TOO_LONG", err.Error())
	case errors.Is(err, ErrUnauthorized):
		return newAPIError(http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	default:
		return newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}
