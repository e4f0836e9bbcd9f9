// Package rest implements the repository interfaces against a
// json-server style REST store: plain JSON collections, 404 for absent
// resources, PATCH merges on the server side.
package rest

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

// Client is the shared HTTP plumbing for the store repositories.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a store client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do executes one JSON request. A nil body sends no payload; a non-nil
// out decodes the response into it. notFoundOK turns a 404 into
// (false, nil) instead of an error.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, notFoundOK bool) (found bool, err error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFoundOK {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("store error: %s %s: status=%d, body=%s", method, path, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return true, nil
}
