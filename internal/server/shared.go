// Package server - shared.go contains request helpers shared by every endpoint.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error represents a transport or protocol failure talking to the module server.
type Error struct {
	Code    string `json:"code"`              // Machine-readable error code
	Message string `json:"message"`           // Human-readable message
	Details any    `json:"details,omitempty"` // Additional context
}

func (e *Error) Error() string { return e.Message }

// HTTPError is returned for non-2xx responses. Body holds the response text
// so callers can surface the server's own message verbatim.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if msg := serverMessage(e.Body); msg != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("HTTP %s", e.Status)
}

// serverMessage extracts the "message" field of a JSON error body, or returns
// the trimmed body when it is not JSON.
func serverMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	if looksLikeJSON(body) {
		var parsed struct {
			Message string `json:"message"`
		}
		if json.Unmarshal([]byte(body), &parsed) == nil && parsed.Message != "" {
			return parsed.Message
		}
	}
	return body
}

// applyCredentials applies credentials and extra headers to an HTTP request.
func applyCredentials(req *http.Request, creds *Credentials, headers map[string]string) {
	if creds != nil && creds.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.BearerToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// looksLikeJSON reports whether s is a JSON object or array after trimming.
func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}

// do sends req and returns the response body. Non-2xx statuses become *HTTPError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	applyCredentials(req, c.creds, c.headers)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Code: "request_failed", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: "response_read_failed", Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	return body, nil
}

// getJSON issues a GET for path and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.getRaw(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &Error{Code: "decode_failed", Message: fmt.Sprintf("decode %s: %v", path, err)}
	}
	return nil
}

// getRaw issues a GET for path and returns the raw body.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, &Error{Code: "request_build_failed", Message: err.Error()}
	}
	return c.do(req)
}

// postJSON marshals body, POSTs it to path and returns the raw response.
func (c *Client) postJSON(ctx context.Context, path string, body any) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	b, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Code: "body_marshal_failed", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(b))
	if err != nil {
		return nil, &Error{Code: "request_build_failed", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
