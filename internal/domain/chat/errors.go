package chat

import "errors"

var (
	// ErrEmptyMessage indicates the message had no visible text.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrMessageTooLong indicates the message exceeds MaxMessageLength.
	ErrMessageTooLong = errors.New("message is too long")
	// ErrWebhook wraps failures talking to the chat webhook.
	ErrWebhook = errors.New("chat webhook request failed")
)
