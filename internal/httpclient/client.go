// Package httpclient talks to the remote storefront API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenSource supplies the bearer token attached to authenticated requests.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// ErrUnavailable wraps transport failures reaching the storefront API.
var ErrUnavailable = errors.New("storefront api unavailable")

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("storefront api: status %d", e.Status)
	}
	return fmt.Sprintf("storefront api: status %d: %s", e.Status, e.Detail)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logrus.FieldLogger
}

// New creates a Client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger.WithField("component", "httpclient"),
	}
}

func (c *Client) sessionToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	c.logger.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": req.Header.Get("X-Request-ID"),
		"elapsed":    time.Since(started),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail extracts the error message of a FastAPI-style {"detail": ...} body.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(raw))
}
