package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running supportbot over its HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout < time.Second {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type ChatRequest struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	MessageID int64  `json:"message_id"`
}

func (c *Client) Chat(ctx context.Context, payload ChatRequest) (ChatResponse, error) {
	var out ChatResponse
	err := c.post(ctx, "/api/v1/chat", payload, &out)
	return out, err
}

type SessionMessage struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type Session struct {
	SessionID string           `json:"session_id"`
	UserID    int64            `json:"user_id"`
	CreatedAt string           `json:"created_at"`
	IsActive  bool             `json:"is_active"`
	Messages  []SessionMessage `json:"messages"`
}

func (c *Client) Session(ctx context.Context, token string) (Session, error) {
	var out Session
	err := c.get(ctx, "/api/v1/sessions/"+token, &out)
	return out, err
}

type ListSessionsResponse struct {
	Items []Session `json:"items"`
	Count int       `json:"count"`
}

func (c *Client) ListSessions(ctx context.Context, userID int64) (ListSessionsResponse, error) {
	path := "/api/v1/sessions"
	if userID > 0 {
		path = fmt.Sprintf("%s?user_id=%d", path, userID)
	}
	var out ListSessionsResponse
	err := c.get(ctx, path, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api status %d: %s", res.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api status %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
