// Package httpx is the JSON-over-HTTP client shared by the upstream gateways
// and model backends. It maps HTTP failures onto domain errors.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
)

// maxErrorBody bounds how much of an error response is kept for details.
const maxErrorBody = 512

// Config holds the configuration for a Client.
type Config struct {
	// Name identifies the upstream in error messages, e.g. "fantasy platform".
	Name    string
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// Client performs JSON requests against one upstream.
type Client struct {
	name       string
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
}

// NewClient creates a new Client. Timeout applies to each request.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		name:       cfg.Name,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		headers:    cfg.Headers,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Do performs the request. Errors are UpstreamUnavailable (transport, 5xx,
// undecodable body), UpstreamNotFound (404) or UpstreamRateLimited (429).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainerrors.NewUpstreamUnavailableError(c.name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domainerrors.NewUpstreamNotFoundError(c.name, path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return domainerrors.NewUpstreamRateLimitedError(c.name, RetryAfterDuration(resp, 0, time.Minute))
	case resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domainerrors.NewUpstreamUnavailableError(c.name,
			&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domainerrors.NewUpstreamUnavailableError(c.name, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// StatusError carries an unexpected HTTP status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// HTTPStatusCode returns the response status.
func (e *StatusError) HTTPStatusCode() int {
	return e.Code
}

// RetryAfterDuration reads a Retry-After header given in seconds.
func RetryAfterDuration(resp *http.Response, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

// JitterSleep spreads base by ±20%.
func JitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := float64(base) * 0.2
	return time.Duration(float64(base) - delta + rand.Float64()*2*delta)
}

// RetryPolicy bounds Retry.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. Delays double from BaseDelay and honor an upstream
// Retry-After hint, both capped at MaxDelay.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := policy.BaseDelay

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil || !domainerrors.IsRetryable(err) || attempt >= attempts {
			return err
		}

		sleepFor := JitterSleep(backoff)
		if hint := domainerrors.RetryAfter(err); hint > sleepFor {
			sleepFor = hint
		}
		if policy.MaxDelay > 0 && sleepFor > policy.MaxDelay {
			sleepFor = policy.MaxDelay
		}

		timer := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		backoff *= 2
	}
}
