// Package adminapi is a thin client for the backend /api/admin endpoints
// consumed by dashboard panels.
package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("adminapi: not found")
	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("adminapi: unauthorized")
)

// StatusError carries unexpected HTTP statuses.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("adminapi: %s returned status %d", e.Path, e.Status)
}

// Caller identifies the dashboard user on whose behalf a call is made.
type Caller struct {
	UserID string
	Role   string
}

// Client wraps interactions with the admin REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// QuoteSummary returns aggregate quote figures visible to the caller.
func (c *Client) QuoteSummary(ctx context.Context, caller Caller) (QuoteSummary, error) {
	var out QuoteSummary
	err := c.get(ctx, caller, "/api/admin/quotes/summary", nil, &out)
	return out, err
}

// ListQuotes returns the caller's quotations, newest first.
func (c *Client) ListQuotes(ctx context.Context, caller Caller, limit int) ([]Quote, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []Quote
	err := c.get(ctx, caller, "/api/admin/quotes", q, &out)
	return out, err
}

// GetQuote fetches a single quotation.
func (c *Client) GetQuote(ctx context.Context, caller Caller, id string) (Quote, error) {
	var out Quote
	err := c.get(ctx, caller, "/api/admin/quotes/"+url.PathEscape(id), nil, &out)
	return out, err
}

// ActiveUserCount returns the number of active accounts.
func (c *Client) ActiveUserCount(ctx context.Context, caller Caller) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.get(ctx, caller, "/api/admin/users/active-count", nil, &out)
	return out.Count, err
}

// ListUsers returns the user directory.
func (c *Client) ListUsers(ctx context.Context, caller Caller) ([]User, error) {
	var out []User
	err := c.get(ctx, caller, "/api/admin/users", nil, &out)
	return out, err
}

// AnalyticsSummary returns conversion figures for a period (YYYY-MM).
func (c *Client) AnalyticsSummary(ctx context.Context, period string) (AnalyticsSummary, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	var out AnalyticsSummary
	err := c.get(ctx, Caller{}, "/api/admin/analytics", q, &out)
	return out, err
}

// SystemStatus returns backend component health.
func (c *Client) SystemStatus(ctx context.Context, caller Caller) (SystemStatus, error) {
	var out SystemStatus
	err := c.get(ctx, caller, "/api/admin/system", nil, &out)
	return out, err
}

// SecurityEvents returns the most recent sign-in events.
func (c *Client) SecurityEvents(ctx context.Context, caller Caller, limit int) ([]SecurityEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []SecurityEvent
	err := c.get(ctx, caller, "/api/admin/security/events", q, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, caller Caller, path string, query url.Values, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if caller.UserID != "" {
		req.Header.Set("X-User-ID", caller.UserID)
	}
	if caller.Role != "" {
		req.Header.Set("X-User-Role", caller.Role)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("adminapi: %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Path: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("adminapi: decode %s: %w", path, err)
	}
	return nil
}
