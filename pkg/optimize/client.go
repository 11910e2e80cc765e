// Package optimize is the HTTP client for the remote optimization boundary.
// The service internals (product matching, price history, agents) are out of
// scope; this side speaks only the request/response JSON contract.
package optimize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cartscope/cartscope/pkg/domain"
)

// maxErrorBody caps how much of a failure response is read for the message.
const maxErrorBody = 4096

// Client posts cart payloads to the optimization endpoint. No deadline is
// set on the underlying client; cancellation and timeouts come from the
// caller's context.
type Client struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

// New creates a boundary client for the given endpoint URL.
func New(endpoint, userAgent string) *Client {
	return &Client{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    &http.Client{},
	}
}

// OptimizeCart posts the request and parses the optimization result. Any
// non-2xx status, transport error or malformed body returns an error with a
// human-readable message suitable for the session's error field.
func (c *Client) OptimizeCart(ctx context.Context, req domain.OptimizeRequest) (*domain.OptimizationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode optimization request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("optimization service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("optimization service returned %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}

	var result domain.OptimizationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("malformed optimization response: %w", err)
	}
	return &result, nil
}

// errorMessage extracts the service's {"error": "..."} body when present,
// falling back to the raw text.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return "no details"
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return string(bytes.TrimSpace(data))
}
