package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/shutterboard/internal/domain/chat"
	"github.com/rpggio/shutterboard/internal/domain/dashboard"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, dashboard.ErrRefreshFailed):
		return &APIError{
			Code:         "REFRESH_FAILED",
			Message:      err.Error(),
			RecoveryHint: "The previous dashboard data is still available; retry later",
			cause:        err,
		}
	case errors.Is(err, dashboard.ErrInvalidStatus):
		return &APIError{
			Code:         "INVALID_STATUS",
			Message:      err.Error(),
			RecoveryHint: "Use completed, in_progress, pending or cancelled",
			cause:        err,
		}
	case errors.Is(err, chat.ErrEmptyMessage):
		return &APIError{
			Code:         "EMPTY_MESSAGE",
			Message:      "message is empty",
			RecoveryHint: "Provide the text to send",
			cause:        err,
		}
	case errors.Is(err, chat.ErrMessageTooLong):
		return &APIError{
			Code:         "MESSAGE_TOO_LONG",
			Message:      err.Error(),
			RecoveryHint: fmt.Sprintf("Keep messages to %d characters or fewer", chat.MaxMessageLength),
			cause:        err,
		}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
