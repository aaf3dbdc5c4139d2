// Package sessions is a typed client for the chat session and message service.
// Credentials travel as cookies, so one Client represents one signed-in user.
package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// ErrNotAuthenticated is returned when the service reports no signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Service is the session and message contract consumed by the application.
type Service interface {
	CreateSession(ctx context.Context, sessionID string) (*CreatedSession, error)
	ListSessions(ctx context.Context) ([]Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ListMessages(ctx context.Context, sessionID string) ([]Message, error)
	SendMessage(ctx context.Context, sessionID, content string) (*Reply, error)
	UpdateMessage(ctx context.Context, sessionID, messageID, content string) error
	DeleteMessage(ctx context.Context, sessionID, messageID string) error
	CheckAuth(ctx context.Context) (*AuthStatus, error)
}

type Session struct {
	SessionID   string `json:"session_id"`
	LastUpdated string `json:"last_updated"`
}

type CreatedSession struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type Message struct {
	ID        string `json:"_id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type Reply struct {
	UserMessage string `json:"user_message"`
	BotResponse string `json:"bot_response"`
}

type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Client implements Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a client for the service at baseURL (for example
// "http://localhost:5000/api") with its own cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: 10 * time.Second, Jar: jar})
}

// NewClientWithHTTP allows supplying the HTTP client (used for tests).
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) CreateSession(ctx context.Context, sessionID string) (*CreatedSession, error) {
	payload := map[string]string{}
	if sessionID != "" {
		payload["session_id"] = sessionID
	}
	out := &CreatedSession{}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("sessions"), payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var out []Session
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("sessions"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, c.endpoint("sessions", sessionID), nil, nil)
}

func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	var out []Message
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("sessions", sessionID, "messages"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendMessage(ctx context.Context, sessionID, content string) (*Reply, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message is required")
	}
	out := &Reply{}
	body := map[string]string{"message": content}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("sessions", sessionID, "messages"), body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateMessage(ctx context.Context, sessionID, messageID, content string) error {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("session id and message id are required")
	}
	body := map[string]string{"content": content}
	return c.doJSON(ctx, http.MethodPatch, c.endpoint("sessions", sessionID, "messages", messageID), body, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, sessionID, messageID string) error {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("session id and message id are required")
	}
	return c.doJSON(ctx, http.MethodDelete, c.endpoint("sessions", sessionID, "messages", messageID), nil, nil)
}

// CheckAuth reports the current sign-in state. An unauthenticated caller is
// not an error here.
func (c *Client) CheckAuth(ctx context.Context) (*AuthStatus, error) {
	out := &AuthStatus{}
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint("check-auth"), nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode check-auth response: %w", err)
	}
	return out, nil
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("session api returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("session api returned status %d", resp.StatusCode)
	}
	return raw, nil
}

// doJSON performs the request and decodes into out. The service answers
// unauthenticated calls with 200 and {"authenticated": false}, which maps to
// ErrNotAuthenticated.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	raw, err := c.do(req)
	if err != nil {
		return err
	}

	var probe struct {
		Authenticated *bool `json:"authenticated"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		if err := json.Unmarshal(raw, &probe); err == nil && probe.Authenticated != nil && !*probe.Authenticated {
			return ErrNotAuthenticated
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode session api response: %w", err)
	}
	return nil
}
