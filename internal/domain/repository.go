package domain

import "context"

// UserRepository defines the interface for user data operations against
// the remote store.
type UserRepository interface {
	// Find retrieves a user by ID. Returns (nil, nil) when absent.
	Find(ctx context.Context, id string) (*User, error)

	// Create inserts a new user and returns the stored record.
	Create(ctx context.Context, user *User) (*User, error)

	// Update applies a partial update and returns the merged record.
	// Callers should re-fetch via Find rather than trusting the return
	// value as session state.
	Update(ctx context.Context, id string, update *UserUpdate) (*User, error)
}

// UserUpdate is an explicit partial-update payload: only non-nil fields
// are transmitted. Balance, level, XP and the owned collections are the
// only fields the engine ever writes back.
type UserUpdate struct {
	Balance   *float64         `json:"balance,omitempty"`
	Level     *int             `json:"level,omitempty"`
	XP        *int             `json:"xp,omitempty"`
	BadgeIDs  *[]int           `json:"badgeIds,omitempty"`
	Goals     *[]Goal          `json:"goals,omitempty"`
	Watchlist *[]string        `json:"watchlist,omitempty"`
	Portfolio *[]PortfolioItem `json:"portfolio,omitempty"`
	History   *[]Transaction   `json:"history,omitempty"`
}

// UpdateFrom builds the full-state update payload for a resolved user:
// every engine-owned field set, PATCH semantics on the wire.
func UpdateFrom(u *User) *UserUpdate {
	return &UserUpdate{
		Balance:   &u.Balance,
		Level:     &u.Level,
		XP:        &u.XP,
		BadgeIDs:  &u.BadgeIDs,
		Goals:     &u.Goals,
		Watchlist: &u.Watchlist,
		Portfolio: &u.Portfolio,
		History:   &u.History,
	}
}

// BadgeRepository defines the interface for the global badge catalog.
type BadgeRepository interface {
	// GetAll retrieves the full catalog.
	GetAll(ctx context.Context) ([]Badge, error)
}

// MarketRepository defines the interface for market catalog operations.
type MarketRepository interface {
	// Upsert creates or replaces a market entry.
	Upsert(ctx context.Context, stock *Stock) error

	// GetAll retrieves the full market catalog.
	GetAll(ctx context.Context) ([]Stock, error)

	// GetByID retrieves one entry. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*Stock, error)
}
