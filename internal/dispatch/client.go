// Package dispatch delivers the finished post payload to the Make.com
// automation webhook that performs the actual social posting.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxAttempts = 3

// backoffs are the waits between attempts; Instagram error 9007 (media not
// yet available) clears with a little patience.
var backoffs = [maxAttempts - 1]time.Duration{2 * time.Second, 4 * time.Second}

const defaultPreDelay = 15 * time.Second

// Post is the webhook payload for one finished run.
type Post struct {
	InstagramCaption string `json:"instagram_caption"`
	FacebookCaption  string `json:"facebook_caption"`
	MediaURL         string `json:"media_url"`
	MediaType        string `json:"media_type"`
	Timestamp        string `json:"timestamp"`
}

// Client sends posts to the automation webhook with a CDN propagation delay
// and bounded retries.
type Client struct {
	endpoint   string
	apiKey     string
	preDelay   time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	sleep      func(time.Duration)
}

// NewClient creates a dispatch client. A non-positive preDelay uses the
// default propagation wait.
func NewClient(endpoint, apiKey string, preDelay time.Duration, logger *slog.Logger) *Client {
	if preDelay <= 0 {
		preDelay = defaultPreDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		preDelay:   preDelay,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Send delivers the post. It waits the propagation delay unconditionally,
// then tries up to three times; only an HTTP 200 counts as accepted. The
// returned error carries the last failure after exhaustion.
func (c *Client) Send(ctx context.Context, post Post) error {
	if post.Timestamp == "" {
		post.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("encode dispatch payload: %w", err)
	}

	c.logger.Info("waiting for CDN propagation before dispatch", "delay", c.preDelay)
	c.sleep(c.preDelay)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		c.logger.Info("dispatching post payload", "attempt", attempt, "max_attempts", maxAttempts)

		lastErr = c.attempt(ctx, body)
		if lastErr == nil {
			c.logger.Info("post payload accepted by webhook")
			return nil
		}

		c.logger.Warn("dispatch attempt failed", "attempt", attempt, "error", lastErr)
		if attempt < maxAttempts {
			wait := backoffs[attempt-1]
			c.logger.Info("waiting before retry", "wait", wait)
			c.sleep(wait)
		}
	}

	return fmt.Errorf("dispatch failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-make-apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
