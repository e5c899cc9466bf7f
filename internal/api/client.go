package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token attached to requests. An empty token
// means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Client talks to the task-management REST backend. All operations return
// the unwrapped data of a successful response or a classified *Error.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client

	// onUnauthorized runs whenever a non-auth endpoint answers 401. The app
	// wires it to session teardown; it is a global effect, not scoped to the
	// calling operation.
	onUnauthorized func()
}

// New creates a client for the given base URL (including the /api/v1 prefix).
func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetTokenSource installs the token source after construction. The session
// store is built on top of the client, so the two are tied together here
// rather than in New.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// OnUnauthorized registers the hook invoked on a 401 from any non-auth
// endpoint. A 401 from /auth/login or /auth/register means bad credentials,
// not an expired session, so those never trip the hook.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// envelope is the wire wrapper around every response body.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do issues one request and decodes the unwrapped data into out (out may be
// nil for operations with no payload, e.g. delete).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and refused connections surface the same way as 5xx.
		return &Error{Kind: KindNetworkOrServer, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetworkOrServer, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		message := ""
		if err := json.Unmarshal(raw, &env); err == nil {
			message = env.Message
		}
		apiErr := classify(resp.StatusCode, message)
		if apiErr.Kind == KindUnauthorized && !isAuthPath(path) && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Kind: KindNetworkOrServer, Message: "malformed response: " + err.Error()}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &Error{Kind: KindNetworkOrServer, Message: "response has no data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindNetworkOrServer, Message: "malformed response data: " + err.Error()}
	}
	return nil
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth/")
}
