// Package session implements the progression orchestrator: one Session
// per logged-in user, holding the current user record and the badge
// catalog, and running every mutating action through a single atomic
// transition pipeline before persisting and reconciling against the
// remote store.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"pegasis/internal/domain"
	"pegasis/internal/progression"
)

// Session is the explicit per-user context: created by login, destroyed
// by logout. Callers are expected to await one transition before
// starting the next; concurrent transitions are last-write-wins.
type Session struct {
	users    domain.UserRepository
	notifier domain.Notifier
	badges   []domain.Badge
	user     *domain.User
	now      func() time.Time
	log      zerolog.Logger
}

// New builds a session around an already-resolved user record.
func New(user *domain.User, badges []domain.Badge, users domain.UserRepository, notifier domain.Notifier, log zerolog.Logger) *Session {
	return &Session{
		users:    users,
		notifier: notifier,
		badges:   badges,
		user:     user,
		now:      time.Now,
		log:      log.With().Str("user", user.ID).Logger(),
	}
}

// User returns a snapshot of the current user record.
func (s *Session) User() *domain.User {
	return s.user.Clone()
}

// Badges returns the badge catalog fetched at login.
func (s *Session) Badges() []domain.Badge {
	return s.badges
}

// ActiveMultiplier is the trading-XP multiplier derived from the owned
// badge set. Derived on every read, never persisted.
func (s *Session) ActiveMultiplier() float64 {
	return progression.ActiveMultiplier(s.user.BadgeIDs)
}

// CurrentBadge returns the catalog entry of the most recently unlocked
// badge, or nil when none is owned.
func (s *Session) CurrentBadge() *domain.Badge {
	if len(s.user.BadgeIDs) == 0 {
		return nil
	}
	last := s.user.BadgeIDs[len(s.user.BadgeIDs)-1]
	for i := range s.badges {
		if s.badges[i].ID == last {
			return &s.badges[i]
		}
	}
	return nil
}

// XPProgress describes progress through the current level.
type XPProgress struct {
	Level   int     `json:"level"`
	XP      int     `json:"xp"`
	Current int     `json:"current"` // XP gained within this level
	Needed  int     `json:"needed"`  // XP step to the next level
	Ratio   float64 `json:"ratio"`
}

// Progress computes the level-bar state on demand.
func (s *Session) Progress() XPProgress {
	floor := progression.XPRequiredForLevel(s.user.Level)
	needed := progression.XPForNextLevel(s.user.Level)
	current := s.user.XP - floor
	ratio := 0.0
	if needed > 0 {
		ratio = float64(current) / float64(needed)
	}
	return XPProgress{Level: s.user.Level, XP: s.user.XP, Current: current, Needed: needed, Ratio: ratio}
}

// Deposit credits the cash balance.
func (s *Session) Deposit(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit: %w", domain.ErrInvalidAmount)
	}
	ev := progression.Event{Kind: progression.EventDeposit, Amount: amount}
	return s.transition(ctx, ev, func(u *domain.User) {
		u.Balance += amount
	})
}

// Withdraw debits the cash balance. An amount above the balance is
// rejected before any mutation; the caller sees a warning only.
func (s *Session) Withdraw(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("withdraw: %w", domain.ErrInvalidAmount)
	}
	if amount > s.user.Balance {
		s.notifier.Notify(domain.NotifyError, "Insufficient funds")
		return fmt.Errorf("withdraw %.2f with balance %.2f: %w", amount, s.user.Balance, domain.ErrInsufficientFunds)
	}
	ev := progression.Event{Kind: progression.EventWithdraw, Amount: amount}
	return s.transition(ctx, ev, func(u *domain.User) {
		u.Balance -= amount
	})
}

// BuyStock spends a currency amount on a stock. Purchases do not debit
// the cash balance; only sells and withdraws move it down.
func (s *Session) BuyStock(ctx context.Context, stock *domain.Stock, amount float64) error {
	res, err := progression.Buy(s.user.Position(stock.Symbol), stock, amount, s.ActiveMultiplier(), s.now())
	if err != nil {
		s.notifier.Notify(domain.NotifyError, "Purchase rejected")
		return fmt.Errorf("buy %s: %w", stock.Symbol, err)
	}

	ev := progression.Event{
		Kind:     progression.EventBuy,
		Symbol:   stock.Symbol,
		Quantity: res.Entry.Quantity,
		Amount:   amount,
	}
	return s.transition(ctx, ev, func(u *domain.User) {
		applyTrade(u, res)
	})
}

// SellStock realizes part or all of an open position at the given price.
func (s *Session) SellStock(ctx context.Context, stockID string, quantity, price float64) error {
	position := s.user.Position(stockID)
	if position == nil {
		s.notifier.Notify(domain.NotifyError, "No open position for "+stockID)
		return fmt.Errorf("sell %s: %w", stockID, domain.ErrNotFound)
	}

	res, err := progression.Sell(*position, quantity, price, s.ActiveMultiplier(), s.now())
	if err != nil {
		s.notifier.Notify(domain.NotifyError, "Sale rejected")
		return fmt.Errorf("sell %s: %w", stockID, err)
	}

	ev := progression.Event{
		Kind:     progression.EventSell,
		Symbol:   stockID,
		Quantity: quantity,
		Amount:   res.Entry.TotalValue,
	}
	return s.transition(ctx, ev, func(u *domain.User) {
		u.Balance += res.Entry.TotalValue
		applyTrade(u, res)
	})
}

// ToggleWatchlist adds or removes a symbol. The change applies
// optimistically in memory before the write; the reconciling re-fetch
// settles whichever state the store kept.
func (s *Session) ToggleWatchlist(ctx context.Context, symbol string) error {
	next := s.user.Clone()
	if next.Watches(symbol) {
		kept := next.Watchlist[:0]
		for _, sym := range next.Watchlist {
			if sym != symbol {
				kept = append(kept, sym)
			}
		}
		next.Watchlist = kept
	} else {
		next.Watchlist = append(next.Watchlist, symbol)
	}

	s.user = next
	return s.commit(ctx, next)
}

// Refresh re-reads the user from the store and replaces local state.
func (s *Session) Refresh(ctx context.Context) error {
	fresh, err := s.users.Find(ctx, s.user.ID)
	if err != nil {
		return fmt.Errorf("refresh user: %w", err)
	}
	if fresh == nil {
		return fmt.Errorf("refresh user %s: %w", s.user.ID, domain.ErrNotFound)
	}
	s.user = fresh
	return nil
}

// applyTrade merges a trade engine result into the working copy.
func applyTrade(u *domain.User, res *progression.TradeResult) {
	if res.Closed {
		kept := u.Portfolio[:0]
		for _, p := range u.Portfolio {
			if p.StockID != res.Position.StockID {
				kept = append(kept, p)
			}
		}
		u.Portfolio = kept
	} else if existing := u.Position(res.Position.StockID); existing != nil {
		*existing = res.Position
	} else {
		u.Portfolio = append(u.Portfolio, res.Position)
	}

	u.History = append(u.History, res.Entry)
	u.XP += res.XP
}

// transition runs the seven-step pipeline: apply the action delta to a
// working copy, fold in goals, level and badges, then persist and
// reconcile. Steps before commit are synchronous and in-memory; a
// rejected action never reaches here.
func (s *Session) transition(ctx context.Context, ev progression.Event, apply func(*domain.User)) error {
	working := s.user.Clone()
	apply(working)

	goals := progression.EvaluateGoals(working.Goals, working, ev)
	working.Goals = goals.Remaining
	working.XP += goals.BonusXP
	if len(goals.Completed) > 0 {
		// One toast per completion batch, not per goal.
		s.notifier.Notify(domain.NotifySuccess, fmt.Sprintf("Goal complete! +%d XP", goals.BonusXP))
	}

	if level := progression.LevelFor(working.XP); level > working.Level {
		working.Level = level
		s.notifier.Notify(domain.NotifySuccess, fmt.Sprintf("Level up! You reached level %d", level))
	}

	var unlocked []int
	working.BadgeIDs, unlocked = progression.UnlockBadges(working.Level, working.BadgeIDs)
	for _, id := range unlocked {
		s.notifier.Notify(domain.NotifySuccess, fmt.Sprintf("New badge unlocked: %s", s.badgeName(id)))
	}

	return s.commit(ctx, working)
}

func (s *Session) badgeName(id int) string {
	for _, b := range s.badges {
		if b.ID == id {
			return b.Description
		}
	}
	return fmt.Sprintf("badge #%d", id)
}
