// Package fetcher provides HTTP client functionality for retrieving ONES Wiki
// page content, including the primary/alternative endpoint fallback and the
// authenticated request headers the wiki API expects.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// browser-like defaults sent on every outbound request. The wiki backend
// serves different payloads to non-browser clients, so these mirror what the
// web UI sends.
var defaultHeaders = map[string]string{
	"Content-Type":    "application/json",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en",
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36",
}

// HTTPClient provides HTTP client functionality with a request timeout and
// rate limiting for concurrent requests.
type HTTPClient struct {
	client      *http.Client
	rateLimiter *rate.Limiter
}

// NewHTTPClient creates a new HTTP client with the specified timeout and
// maximum number of concurrent requests.
//
// The request timeout is the only temporal bound on an operation; there is
// no retry loop. A request that times out fails like any other request.
func NewHTTPClient(timeout time.Duration, maxConcurrent int) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(maxConcurrent), maxConcurrent),
	}
}

// GetJSON issues a GET request to the given URL with the provided extra
// headers and decodes the JSON response body into out.
//
// Returns an error for network failures, non-2xx status codes, and malformed
// response bodies.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	applyHeaders(req, headers)

	return c.do(req, out)
}

// PostJSON issues a POST request with the given body marshalled as JSON and
// decodes the JSON response body into out.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body any, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	applyHeaders(req, nil)

	return c.do(req, out)
}

// do executes the request, enforces a 2xx status, and decodes the body.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: HTTP %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func applyHeaders(req *http.Request, extra map[string]string) {
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
}
