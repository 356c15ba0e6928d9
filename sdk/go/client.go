package kaizensdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Kaizen HTTP API client.
type Client struct {
	BaseURL     string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Space represents the API space model.
type Space struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Goal               string `json:"goal,omitempty"`
	DateCreated        string `json:"date_created"`
	DateModified       string `json:"date_modified"`
	TotalClockedInTime int    `json:"total_clocked_in_time"`
	IsClockedIn        bool   `json:"is_clocked_in"`
	ClockInStartTime   string `json:"clock_in_start_time,omitempty"`
}

// Action represents a repeatable point-earning activity.
type Action struct {
	ID          string `json:"id"`
	SpaceID     string `json:"space_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Points      int    `json:"points"`
}

// LogEntry represents one record of the activity log.
type LogEntry struct {
	ID         string `json:"id"`
	SpaceID    string `json:"space_id"`
	Timestamp  string `json:"timestamp"`
	ActionName string `json:"action_name"`
	Points     int    `json:"points"`
	Type       string `json:"type"`
}

// Summary carries the derived metrics of a space.
type Summary struct {
	TotalPoints           int     `json:"total_points"`
	TotalWastePoints      int     `json:"total_waste_points"`
	SessionPoints         int     `json:"session_points"`
	SessionElapsedSeconds int     `json:"session_elapsed_seconds"`
	PointsPerHour         float64 `json:"points_per_hour"`
	TotalClockedMinutes   int     `json:"total_clocked_minutes"`
	IsClockedIn           bool    `json:"is_clocked_in"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateSpace creates a space.
func (c *Client) CreateSpace(ctx context.Context, name, goal string) (Space, error) {
	body := map[string]any{
		"name": name,
		"goal": goal,
	}
	var resp Space
	err := c.do(ctx, http.MethodPost, "v0/spaces", body, &resp)
	return resp, err
}

// ListSpaces returns every space, most recently modified first.
func (c *Client) ListSpaces(ctx context.Context) ([]Space, error) {
	var resp []Space
	err := c.do(ctx, http.MethodGet, "v0/spaces", nil, &resp)
	return resp, err
}

// ClockIn starts a clock session on the space.
func (c *Client) ClockIn(ctx context.Context, spaceID string) (Space, error) {
	var resp Space
	endpoint := fmt.Sprintf("v0/spaces/%s/clock-in", url.PathEscape(spaceID))
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp, err
}

// ClockOut ends the clock session on the space.
func (c *Client) ClockOut(ctx context.Context, spaceID string) (Space, error) {
	var resp Space
	endpoint := fmt.Sprintf("v0/spaces/%s/clock-out", url.PathEscape(spaceID))
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp, err
}

// CreateAction creates an action in a space.
func (c *Client) CreateAction(ctx context.Context, spaceID, name string, points int) (Action, error) {
	body := map[string]any{
		"space_id": spaceID,
		"name":     name,
		"points":   points,
	}
	var resp Action
	err := c.do(ctx, http.MethodPost, "v0/actions", body, &resp)
	return resp, err
}

// LogAction records one performance of an action.
func (c *Client) LogAction(ctx context.Context, actionID string) (LogEntry, error) {
	var resp LogEntry
	endpoint := fmt.Sprintf("v0/actions/%s/log", url.PathEscape(actionID))
	err := c.do(ctx, http.MethodPost, endpoint, nil, &resp)
	return resp, err
}

// LogWaste records waste observations against the given category ids.
func (c *Client) LogWaste(ctx context.Context, spaceID string, categoryIDs []string) error {
	body := map[string]any{
		"space_id":     spaceID,
		"category_ids": categoryIDs,
	}
	return c.do(ctx, http.MethodPost, "v0/waste", body, nil)
}

// Logs returns recent log entries, newest first.
func (c *Client) Logs(ctx context.Context, spaceID string, limit int) ([]LogEntry, error) {
	endpoint := fmt.Sprintf("v0/spaces/%s/logs", url.PathEscape(spaceID))
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []LogEntry
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// SpaceSummary returns the derived metrics of a space.
func (c *Client) SpaceSummary(ctx context.Context, spaceID string) (Summary, error) {
	var resp Summary
	endpoint := fmt.Sprintf("v0/spaces/%s/summary", url.PathEscape(spaceID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
