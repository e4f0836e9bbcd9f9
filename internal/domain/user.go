package domain

import (
	"time"
)

// User represents a player account backed by the remote store.
// All mutation goes through the session orchestrator; handlers and
// repositories treat it as data.
type User struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	AvatarURL string          `json:"avatarUrl"`
	Balance   float64         `json:"balance"`
	Level     int             `json:"level"`
	XP        int             `json:"xp"`
	BadgeIDs  []int           `json:"badgeIds"`
	Goals     []Goal          `json:"goals"`
	Watchlist []string        `json:"watchlist"`
	Portfolio []PortfolioItem `json:"portfolio"`
	History   []Transaction   `json:"history"`
}

// Goal is an assignable objective. Progress is advanced by the goal
// evaluator according to Type; the goal is removed once progress reaches
// the target and its XP reward is credited.
type Goal struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	XP          int     `json:"xp"`
	Progress    float64 `json:"progress"`
	// Target is the completion threshold. Legacy records embed the target
	// in the description text instead; see progression.GoalTarget.
	Target float64 `json:"target,omitempty"`
}

// Goal type constants
const (
	GoalMakeTrades    = "make_trades"
	GoalTotalInvested = "total_invested"
	GoalWatchlistBuy  = "watchlist_buy"
	GoalReachBalance  = "reach_balance"
	GoalDiversify     = "diversify"
)

// PortfolioItem is one open position. BuyPrice is the weighted-average
// cost basis across all buys of the symbol.
type PortfolioItem struct {
	ID       string    `json:"id"`
	StockID  string    `json:"stockId"`
	Name     string    `json:"name"`
	Quantity float64   `json:"quantity"`
	BuyPrice float64   `json:"buyPrice"`
	BuyDate  time.Time `json:"buyDate"`
}

// Transaction is one immutable ledger entry. Once appended to a user's
// history it is never mutated or removed.
type Transaction struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	StockID    string    `json:"stockId"`
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	TotalValue float64   `json:"totalValue"`
	PnL        *float64  `json:"pnl,omitempty"` // realized P&L, SELL only
	Date       time.Time `json:"date"`
}

// Transaction type constants
const (
	TradeBuy  = "BUY"
	TradeSell = "SELL"
)

// Position returns the open position for a symbol, or nil.
func (u *User) Position(stockID string) *PortfolioItem {
	for i := range u.Portfolio {
		if u.Portfolio[i].StockID == stockID {
			return &u.Portfolio[i]
		}
	}
	return nil
}

// Watches reports whether the symbol is on the user's watchlist.
func (u *User) Watches(symbol string) bool {
	for _, s := range u.Watchlist {
		if s == symbol {
			return true
		}
	}
	return false
}

// OpenPositions returns the count of distinct open positions.
func (u *User) OpenPositions() int {
	return len(u.Portfolio)
}

// Clone returns a deep copy so the orchestrator can build the next state
// without touching the session's current one.
func (u *User) Clone() *User {
	c := *u
	c.BadgeIDs = append([]int(nil), u.BadgeIDs...)
	c.Goals = append([]Goal(nil), u.Goals...)
	c.Watchlist = append([]string(nil), u.Watchlist...)
	c.Portfolio = append([]PortfolioItem(nil), u.Portfolio...)
	c.History = append([]Transaction(nil), u.History...)
	return &c
}
