// Package github implements the authentication collaborator: resolving
// OAuth bearer tokens into GitHub profiles and exchanging authorization
// codes through the token-exchange proxy.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pegasis/internal/domain"
)

const apiBaseURL = "https://api.github.com"

// Client talks to the GitHub API and the OAuth proxy.
type Client struct {
	apiURL     string
	proxyURL   string
	httpClient *http.Client
}

// NewClient creates a GitHub client. proxyURL points at the OAuth
// code-exchange proxy and may be empty when only token login is used.
func NewClient(proxyURL string) *Client {
	return &Client{
		apiURL:   apiBaseURL,
		proxyURL: proxyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchUser resolves a bearer token into the GitHub profile.
func (c *Client) FetchUser(ctx context.Context, token string) (*domain.GithubProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GitHub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub user API error: status=%d", resp.StatusCode)
	}

	var profile domain.GithubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub profile: %w", err)
	}
	return &profile, nil
}

// ExchangeCode trades an OAuth authorization code for an access token
// via the proxy, which holds the client secret.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	if c.proxyURL == "" {
		return "", fmt.Errorf("oauth proxy URL not configured")
	}

	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return "", fmt.Errorf("failed to marshal exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call oauth proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("oauth proxy error: status=%d, body=%s", resp.StatusCode, string(data))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.Error != "" || token.AccessToken == "" {
		return "", fmt.Errorf("oauth exchange rejected: %s", token.Error)
	}
	return token.AccessToken, nil
}
