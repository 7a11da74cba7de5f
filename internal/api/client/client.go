// Package client is a Go client for the advisor HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rosteriq/advisor-service/internal/api/dto"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
	"github.com/rosteriq/advisor-service/internal/api/routes"
)

// Config holds the configuration for the API client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client calls the advisor API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// NewClient creates a new API client. Turns can take minutes, so the default
// HTTP client has a long timeout.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/") + routes.BasePath,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

// CreateSession starts a session, answering opening when it is not empty.
func (c *Client) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	var resp dto.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSessions lists a user's sessions.
func (c *Client) ListSessions(ctx context.Context, userID, leagueID string, includeArchived bool) ([]*dto.SessionResponse, error) {
	query := url.Values{"userId": {userID}}
	if leagueID != "" {
		query.Set("leagueId", leagueID)
	}
	if includeArchived {
		query.Set("includeArchived", "true")
	}

	var resp dto.ListSessionsResponse
	if err := c.do(ctx, http.MethodGet, "/sessions", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// GetSession fetches one session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	var resp dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ArchiveSession archives a session.
func (c *Client) ArchiveSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	var resp dto.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/archive", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMessage posts a message and waits for the reply.
func (c *Client) SendMessage(ctx context.Context, sessionID, content string) (*dto.MessageResponse, error) {
	var resp dto.SendMessageResponse
	path := "/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, nil, dto.SendMessageRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	return resp.Message, nil
}

// GetMessages returns up to limit recent messages, oldest first. A limit of
// zero uses the server default.
func (c *Client) GetMessages(ctx context.Context, sessionID string, limit int) ([]*dto.MessageResponse, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}

	var resp dto.GetMessagesResponse
	if err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID)+"/messages", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// InvalidateLeague drops the service's cached data for a league.
func (c *Client) InvalidateLeague(ctx context.Context, leagueID string) (int64, error) {
	var resp dto.InvalidateCacheResponse
	if err := c.do(ctx, http.MethodDelete, "/leagues/"+url.PathEscape(leagueID)+"/cache", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
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
	c.setHeaders(req, body != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
			apiErr.Details = errResp.Details
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, c.apiKey)
	}
}
