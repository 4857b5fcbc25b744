package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTimeout bounds every directory request. When it expires the login
// path falls back to local accounts.
const DefaultTimeout = 10 * time.Second

// StatusError is returned when the directory answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("directory: status %d", e.StatusCode)
	}
	return fmt.Sprintf("directory: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the remote directory over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a Client for the directory at baseURL
// (e.g. "https://dummyjson.com"). A zero timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Login exchanges a username and password for the directory's user payload
// including its access token.
func (c *Client) Login(ctx context.Context, username, password string) (*UserPayload, error) {
	req := LoginRequest{
		Username:      username,
		Password:      password,
		ExpiresInMins: DefaultExpiresInMins,
	}

	var payload UserPayload
	if err := c.postJSON(ctx, "/auth/login", req, &payload); err != nil {
		return nil, fmt.Errorf("directory: login: %w", err)
	}
	if payload.SessionToken() == "" {
		return nil, fmt.Errorf("directory: login: response carried no token")
	}
	return &payload, nil
}

// AddUser mirrors a local registration into the directory.
func (c *Client) AddUser(ctx context.Context, req AddUserRequest) (*UserPayload, error) {
	var payload UserPayload
	if err := c.postJSON(ctx, "/users/add", req, &payload); err != nil {
		return nil, fmt.Errorf("directory: adding user: %w", err)
	}
	return &payload, nil
}

// Me returns the profile that belongs to a directory access token.
//
// The request is sent through an oauth2 client so the bearer header is
// attached the same way for every authenticated directory call.
func (c *Client) Me(ctx context.Context, token string) (*UserPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("directory: building /auth/me request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory: calling /auth/me: %w", err)
	}
	defer resp.Body.Close()

	var payload UserPayload
	if err := decodeResponse(resp, &payload); err != nil {
		return nil, fmt.Errorf("directory: /auth/me: %w", err)
	}
	return &payload, nil
}

// postJSON sends body as JSON to path and decodes a 2xx response into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// decodeResponse turns non-2xx responses into *StatusError and decodes the
// body of successful ones into out.
func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var ep errorPayload
		_ = json.Unmarshal(body, &ep)
		return &StatusError{StatusCode: resp.StatusCode, Message: ep.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
