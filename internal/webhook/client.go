// Package webhook posts chat messages to the assistant automation endpoint.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
	"github.com/rpggio/shutterboard/internal/domain/chat"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Payload is the request body sent for every user message.
type Payload struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Client implements chat.Webhook over HTTP.
type Client struct {
	http   fastshot.ClientHttpMethods
	logger *slog.Logger
}

// NewClient builds a client for webhookURL. A zero timeout means none.
func NewClient(webhookURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	builder := fastshot.NewClient(webhookURL)
	if timeout > 0 {
		builder.Config().SetTimeout(timeout)
	}
	return &Client{
		http: builder.Header().Add("Content-Type", "application/json").
			Build(),
		logger: logger,
	}
}

// Send posts text and decodes the assistant's reply. Transport failures,
// non-2xx statuses and undecodable bodies all wrap chat.ErrWebhook.
func (c *Client) Send(ctx context.Context, text string, sentAt time.Time) (chat.Reply, error) {
	payload := Payload{
		Message:   text,
		Timestamp: sentAt.UTC().Format(TimestampLayout),
	}

	resp, err := c.http.POST("").
		Context().Set(ctx).
		Header().Add("Accept", "application/json").
		Body().AsJSON(payload).
		Send()
	if err != nil {
		return chat.Reply{}, fmt.Errorf("%w: %w", chat.ErrWebhook, err)
	}
	defer resp.Body().Close()

	if !resp.Status().Is2xxSuccessful() {
		msg, readErr := resp.Body().AsString()
		if readErr != nil {
			msg = readErr.Error()
		}
		return chat.Reply{}, fmt.Errorf("%w: %s: %w", chat.ErrWebhook, resp.Status().Text(), errors.New(msg))
	}

	var reply chat.Reply
	if err := resp.Body().AsJSON(&reply); err != nil {
		return chat.Reply{}, fmt.Errorf("%w: decoding reply: %w", chat.ErrWebhook, err)
	}
	c.logger.Debug("webhook replied", "refresh", reply.WantsRefresh())
	return reply, nil
}

var _ chat.Webhook = (*Client)(nil)
