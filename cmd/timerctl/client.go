package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/KUKARAF/webtimer/pkg/timersync"
)

// errNotFound marks a 404 from the server so callers can treat a vanished
// timer as a reconciliation event rather than a failure.
var errNotFound = errors.New("timer not found")

// Client is a thin HTTP client for the timer API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, env.Message)
	}
	return &env, nil
}

// CreateTimer creates a timer with the given duration and optional name.
func (c *Client) CreateTimer(ctx context.Context, durationSeconds int64, name string) (*timersync.TimerView, error) {
	payload := map[string]interface{}{"duration_seconds": durationSeconds}
	if name != "" {
		payload["name"] = name
	}
	env, err := c.do(ctx, http.MethodPost, "/timers", payload)
	if err != nil {
		return nil, err
	}
	var view timersync.TimerView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// GetTimer fetches a timer by id or name.
func (c *Client) GetTimer(ctx context.Context, identifier string) (*timersync.TimerView, error) {
	env, err := c.do(ctx, http.MethodGet, "/timers/"+identifier, nil)
	if err != nil {
		return nil, err
	}
	var view timersync.TimerView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListTimers fetches all live timers in creation order.
func (c *Client) ListTimers(ctx context.Context) ([]timersync.TimerView, error) {
	env, err := c.do(ctx, http.MethodGet, "/timers", nil)
	if err != nil {
		return nil, err
	}
	var views []timersync.TimerView
	if err := json.Unmarshal(env.Data, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// DeleteTimer removes a timer by id or name.
func (c *Client) DeleteTimer(ctx context.Context, identifier string) error {
	_, err := c.do(ctx, http.MethodDelete, "/timers/"+identifier, nil)
	return err
}
