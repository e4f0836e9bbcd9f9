package domain

import "context"

// Notifier receives user-facing progression messages (toasts). Delivery
// is best effort; the engine never blocks or fails on notification.
type Notifier interface {
	Notify(level NotifyLevel, message string)
}

// NotifyLevel classifies a notification for display.
type NotifyLevel string

const (
	NotifySuccess NotifyLevel = "success"
	NotifyError   NotifyLevel = "error"
	NotifyInfo    NotifyLevel = "info"
)

// GithubClient defines the authentication collaborator.
type GithubClient interface {
	// FetchUser resolves a bearer token into the GitHub profile.
	FetchUser(ctx context.Context, token string) (*GithubProfile, error)
}

// GithubProfile is the subset of the GitHub user payload the engine needs.
type GithubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// QuoteProvider fetches live quotes and company profiles for the market
// sync job.
type QuoteProvider interface {
	FetchStock(ctx context.Context, symbol string) (*Stock, error)
}
