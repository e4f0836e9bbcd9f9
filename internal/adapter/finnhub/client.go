// Package finnhub fetches quotes and company profiles for the market
// sync job.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pegasis/internal/domain"
)

const baseURL = "https://finnhub.io/api/v1"

// Client is a minimal Finnhub REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Finnhub client.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type quote struct {
	Current       float64 `json:"c"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
}

type profile struct {
	Name      string  `json:"name"`
	Logo      string  `json:"logo"`
	Currency  string  `json:"currency"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"finnhubIndustry"`
	MarketCap float64 `json:"marketCapitalization"`
	WebURL    string  `json:"weburl"`
}

// FetchStock fetches the quote and profile for one symbol and builds a
// market catalog entry. A zero or missing quote price is rejected so
// stale junk never reaches the store.
func (c *Client) FetchStock(ctx context.Context, symbol string) (*domain.Stock, error) {
	var q quote
	if err := c.get(ctx, "/quote", symbol, &q); err != nil {
		return nil, err
	}
	if q.Current <= 0 {
		return nil, fmt.Errorf("no usable quote for %s", symbol)
	}

	var p profile
	if err := c.get(ctx, "/stock/profile2", symbol, &p); err != nil {
		return nil, err
	}

	name := p.Name
	if name == "" {
		name = symbol
	}
	logo := p.Logo
	if logo == "" && p.WebURL != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(p.WebURL, "https://"), "http://")
		logo = "https://logo.clearbit.com/" + host
	}

	return &domain.Stock{
		ID:          symbol,
		Symbol:      symbol,
		Description: name,
		Price:       q.Current,
		Change:      q.PercentChange,
		Logo:        logo,
		High:        q.High,
		Low:         q.Low,
		Open:        q.Open,
		PrevClose:   q.PrevClose,
		Currency:    p.Currency,
		Exchange:    p.Exchange,
		Industry:    p.Industry,
		MarketCap:   p.MarketCap,
		WebURL:      p.WebURL,
		UpdatedAt:   time.Now(),
	}, nil
}

func (c *Client) get(ctx context.Context, path, symbol string, out interface{}) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call finnhub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub %s error for %s: status=%d", path, symbol, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode finnhub response: %w", err)
	}
	return nil
}
