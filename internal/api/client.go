package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenSource supplies the current bearer access token, or "" when logged out.
// The session holder implements this; the client never stores tokens itself.
type TokenSource interface {
	AccessToken() string
}

// TokenFunc adapts a closure to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) AccessToken() string { return f() }

// Client is the single configured HTTP client for the Lucky Cat API origin.
//
// Calls carry a bearer token when one is available, and state-mutating calls
// fetch a CSRF token first. There is no retry policy: a failed call surfaces
// once and the operation is abandoned until the user retries manually.
type Client struct {
	base   *url.URL
	hc     *http.Client
	tokens TokenSource
	logf   func(format string, args ...any)
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLogger sets the debug log sink. The default discards.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(c *Client) { c.logf = logf }
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: bad base url %q: %w", baseURL, err)
	}
	c := &Client{
		base:   u,
		hc:     &http.Client{Timeout: timeout},
		tokens: tokens,
		logf:   func(string, ...any) {},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// APIError is a rejected call: non-2xx status plus the server's detail text.
type APIError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("api: %s: status %d: %s", e.Endpoint, e.Status, e.Detail)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// resolve turns an endpoint path into an absolute URL. Cursor links from page
// envelopes arrive absolute and pass through unchanged.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return c.base.String() + path
	}
	return c.base.ResolveReference(ref).String()
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// do issues one JSON request. body (if non-nil) is marshaled; out (if non-nil)
// receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: %s: encode: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), rd)
	if err != nil {
		return fmt.Errorf("api: %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutating(method) {
		tok, err := c.CSRFToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("X-CSRFToken", tok)
	}
	return c.send(req, path, out)
}

func (c *Client) send(req *http.Request, endpoint string, out any) error {
	if tok := c.tokens.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: %s: decode: %w", endpoint, err)
	}
	return nil
}

// readDetail extracts the server's error text. DRF-style bodies carry a
// "detail" key; anything else is passed through truncated.
func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(b, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// CSRFToken fetches a fresh CSRF token. Called before every mutating request.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve("auth/csrf/"), nil)
	if err != nil {
		return "", fmt.Errorf("api: auth/csrf/: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	var payload struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := c.send(req, "auth/csrf/", &payload); err != nil {
		return "", err
	}
	return payload.CSRFToken, nil
}
