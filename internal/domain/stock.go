package domain

import "time"

// Stock is one market catalog entry: the latest quote plus the cached
// company profile, as written by the market sync job.
type Stock struct {
	ID          string  `json:"id"`
	Symbol      string  `json:"symbol"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Change      float64 `json:"change"` // percent change on the day
	Logo        string  `json:"logo"`

	// Raw quote fields, kept under the provider's short names.
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Open      float64 `json:"o"`
	PrevClose float64 `json:"pc"`

	Currency  string    `json:"currency,omitempty"`
	Exchange  string    `json:"exchange,omitempty"`
	Industry  string    `json:"finnhubIndustry,omitempty"`
	MarketCap float64   `json:"marketCapitalization,omitempty"`
	WebURL    string    `json:"weburl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Badge is one entry of the global badge catalog. The catalog is
// read-only to the engine; it is fetched once per session.
type Badge struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Multiplier  float64   `json:"multiplier"`
	Date        time.Time `json:"date"`
}

// DefaultBadgeID is the starter badge seeded at first login.
const DefaultBadgeID = 1
