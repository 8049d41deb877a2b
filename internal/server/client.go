// Package server is the HTTP client for the module server REST surface.
//
// The server exposes:
//   - /modules               list of module identifiers
//   - /modules/{id}          module metadata (GET) and execution (POST)
//   - /objects               list of object ids
//   - /objects/upload        multipart upload
//   - /objects/{id}[/{fmt}]  raw or format-converted object bytes
//   - /admin/menuNew         nested menu dictionary
//
// The client returns raw JSON where key order or validation matters to the
// caller (module metadata, menus) and decoded values elsewhere.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds every request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// DefaultMenuPath is the admin endpoint serving the nested menu dictionary.
const DefaultMenuPath = "/admin/menuNew"

// Credentials is what the keychain stores for a server.
type Credentials struct {
	BearerToken string `json:"bearerToken,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Timeout     time.Duration
	Credentials *Credentials
	Headers     map[string]string
}

// Client talks to one module server.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	creds   *Credentials
	headers map[string]string
}

// New creates a Client. A nil HTTPClient uses http.DefaultClient.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		timeout: timeout,
		creds:   opts.Credentials,
		headers: opts.Headers,
	}
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// ObjectsURL returns the base URL object links are built from.
func (c *Client) ObjectsURL() string { return c.base + "/objects" }

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return c.base + path
	}
	return c.base + "/" + path
}

// ListModules returns the raw module identifiers in server order.
func (c *Client) ListModules(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.getJSON(ctx, "/modules", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ModuleDetails returns the raw metadata document for one module.
func (c *Client) ModuleDetails(ctx context.Context, rawID string) ([]byte, error) {
	return c.getRaw(ctx, "/modules/"+url.PathEscape(rawID))
}

// ExecuteModuleRaw posts payload to the module's execution endpoint and
// returns the raw response. A nil payload is sent as JSON null.
func (c *Client) ExecuteModuleRaw(ctx context.Context, rawID string, payload map[string]any) ([]byte, error) {
	var body any
	if payload != nil {
		body = payload
	}
	return c.postJSON(ctx, "/modules/"+url.PathEscape(rawID), body)
}

// ListObjects returns the ids of all server-managed objects.
func (c *Client) ListObjects(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.getJSON(ctx, "/objects", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// UploadObject uploads r as a multipart "file" field and returns the id the
// server assigned. typeHint (e.g. "image", "text") is optional.
//
// The server answers either {"id": ...} or, for files that produce several
// objects, [{"id": ...}, ...]; the first id is returned.
func (c *Client) UploadObject(ctx context.Context, filename string, r io.Reader, typeHint string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", &Error{Code: "body_build_failed", Message: err.Error()}
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", &Error{Code: "body_build_failed", Message: fmt.Sprintf("read %s: %v", filename, err)}
	}
	if err := mw.Close(); err != nil {
		return "", &Error{Code: "body_build_failed", Message: err.Error()}
	}

	target := c.url("/objects/upload")
	if typeHint != "" {
		target += "?" + url.Values{"type": {typeHint}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return "", &Error{Code: "request_build_failed", Message: err.Error()}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return parseUploadID(body)
}

type uploadResult struct {
	ID string `json:"id"`
}

func parseUploadID(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var results []uploadResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return "", &Error{Code: "decode_failed", Message: fmt.Sprintf("decode upload response: %v", err)}
		}
		for _, r := range results {
			if r.ID != "" {
				return r.ID, nil
			}
		}
		return "", &Error{Code: "missing_id", Message: "upload response has no object id"}
	}

	var result uploadResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return "", &Error{Code: "decode_failed", Message: fmt.Sprintf("decode upload response: %v", err)}
	}
	if result.ID == "" {
		return "", &Error{Code: "missing_id", Message: "upload response has no object id"}
	}
	return result.ID, nil
}

// FetchObject downloads an object. An empty format returns the raw object.
func (c *Client) FetchObject(ctx context.Context, id, format string) ([]byte, error) {
	path := "/objects/" + url.PathEscape(id)
	if format != "" {
		path += "/" + url.PathEscape(format)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, &Error{Code: "request_build_failed", Message: err.Error()}
	}
	req.Header.Set("Accept", "*/*")
	return c.do(req)
}

// FetchMenu returns the raw nested menu dictionary served at path
// (DefaultMenuPath when empty).
func (c *Client) FetchMenu(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		path = DefaultMenuPath
	}
	return c.getRaw(ctx, path)
}
