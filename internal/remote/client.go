// Package remote mirrors player transitions to the remote control
// endpoint with bounded retries and a per-attempt timeout.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultMaxAttempts    = 5
	defaultAttemptTimeout = 30 * time.Second
)

type Config struct {
	BaseURL        string
	MaxAttempts    int
	AttemptTimeout time.Duration
}

type Client struct {
	baseURL        string
	maxAttempts    int
	attemptTimeout time.Duration
	httpClient     *http.Client
	logger         *slog.Logger
}

func NewClient(cfg *Config, logger *slog.Logger) *Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}

	attemptTimeout := cfg.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		maxAttempts:    maxAttempts,
		attemptTimeout: attemptTimeout,
		httpClient:     &http.Client{},
		logger:         logger,
	}
}

func (c *Client) Play(ctx context.Context, videoId string) error {
	_, err := c.call(ctx, "/play/"+url.PathEscape(videoId))
	return err
}

func (c *Client) Pause(ctx context.Context) error {
	_, err := c.call(ctx, "/pause")
	return err
}

func (c *Client) Resume(ctx context.Context) error {
	_, err := c.call(ctx, "/resume")
	return err
}

func (c *Client) Stop(ctx context.Context) error {
	_, err := c.call(ctx, "/stop")
	return err
}

func (c *Client) Seek(ctx context.Context, position int) error {
	_, err := c.call(ctx, "/seek/"+strconv.Itoa(position))
	return err
}

func (c *Client) Volume(ctx context.Context, level int) error {
	_, err := c.call(ctx, "/volume/"+strconv.Itoa(level))
	return err
}

// call performs the request up to maxAttempts times with no backoff
// between attempts. A cancellation of the parent context aborts the
// whole call immediately; a per-attempt timeout only fails that
// attempt. The body of the first successful attempt is returned.
func (c *Client) call(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err := c.attempt(ctx, c.baseURL+path)
		if err == nil {
			return body, nil
		}
		lastErr = err

		c.logger.WarnContext(ctx, "remote call attempt failed",
			"path", path,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", err,
		)

		if errors.Is(err, context.Canceled) {
			return nil, &CallError{Attempts: attempt, Err: err}
		}
	}

	return nil, &CallError{Attempts: c.maxAttempts, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// non-2xx counts as a transport failure for retry purposes
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
