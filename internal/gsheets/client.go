// Package gsheets fetches the published CSV export of the studio's sheet.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
)

// ErrUnexpectedStatus is returned when the export URL answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status from sheet export")

// Client downloads the raw CSV text. It does not parse it.
type Client struct {
	http   fastshot.ClientHttpMethods
	logger *slog.Logger
}

// NewClient builds a client for exportURL. A zero timeout means none.
func NewClient(exportURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	builder := fastshot.NewClient(exportURL)
	if timeout > 0 {
		builder.Config().SetTimeout(timeout)
	}
	return &Client{
		http: builder.Config().SetFollowRedirects(true).
			Header().Add("Accept", "text/csv").
			Build(),
		logger: logger,
	}
}

// Fetch returns the export body as text.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	resp, err := c.http.GET("").
		Context().Set(ctx).
		Send()
	if err != nil {
		return "", fmt.Errorf("fetching sheet: %w", err)
	}
	defer resp.Body().Close()

	body, err := resp.Body().AsString()
	if err != nil {
		return "", fmt.Errorf("reading sheet body: %w", err)
	}
	if !resp.Status().Is2xxSuccessful() {
		return "", fmt.Errorf("%w %s: %s", ErrUnexpectedStatus, resp.Status().Text(), truncate(body, 200))
	}

	c.logger.Debug("sheet fetched", "bytes", len(body))
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
