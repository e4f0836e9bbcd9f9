package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pegasis/internal/domain"
)

func TestEvaluateGoals_MakeTrades(t *testing.T) {
	goals := []domain.Goal{
		{Type: domain.GoalMakeTrades, Description: "Do 1 trades", XP: 100},
	}
	user := &domain.User{}

	res := EvaluateGoals(goals, user, Event{Kind: EventBuy, Symbol: "AAPL", Amount: 100})

	assert.Empty(t, res.Remaining, "goal with target 1 completes after one trade")
	require.Len(t, res.Completed, 1)
	assert.Equal(t, 100, res.BonusXP)
}

func TestEvaluateGoals_MakeTradesIgnoresDeposits(t *testing.T) {
	goals := []domain.Goal{
		{Type: domain.GoalMakeTrades, Description: "Do 3 trades", XP: 100},
	}

	res := EvaluateGoals(goals, &domain.User{}, Event{Kind: EventDeposit, Amount: 50})

	require.Len(t, res.Remaining, 1)
	assert.Zero(t, res.Remaining[0].Progress)
}

func TestEvaluateGoals_TotalInvested(t *testing.T) {
	goals := []domain.Goal{
		{Type: domain.GoalTotalInvested, Description: "Invest 500 dollars", XP: 200, Progress: 450},
	}

	res := EvaluateGoals(goals, &domain.User{}, Event{Kind: EventBuy, Symbol: "MSFT", Amount: 100})

	assert.Empty(t, res.Remaining)
	assert.Equal(t, 200, res.BonusXP)
}

func TestEvaluateGoals_WatchlistBuy(t *testing.T) {
	goals := []domain.Goal{
		{Type: domain.GoalWatchlistBuy, Description: "Buy 2 shares from your watchlist", XP: 150},
	}

	watcher := &domain.User{Watchlist: []string{"NVDA"}}

	// Buying an unwatched symbol does not advance progress.
	res := EvaluateGoals(goals, watcher, Event{Kind: EventBuy, Symbol: "TSLA", Quantity: 5})
	require.Len(t, res.Remaining, 1)
	assert.Zero(t, res.Remaining[0].Progress)

	// Buying a watched one does.
	res = EvaluateGoals(goals, watcher, Event{Kind: EventBuy, Symbol: "NVDA", Quantity: 2})
	assert.Empty(t, res.Remaining)
	assert.Equal(t, 150, res.BonusXP)
}

func TestEvaluateGoals_ReachBalanceWatermark(t *testing.T) {
	goals := []domain.Goal{
		{Type: domain.GoalReachBalance, Description: "Reach a balance of 1000", XP: 300, Progress: 800},
	}

	// Balance dropped below the previous watermark: progress must hold.
	res := EvaluateGoals(goals, &domain.User{Balance: 400}, Event{Kind: EventWithdraw, Amount: 400})
	require.Len(t, res.Remaining, 1)
	assert.Equal(t, 800.0, res.Remaining[0].Progress)

	// New high watermark completes the goal.
	res = EvaluateGoals(goals, &domain.User{Balance: 1200}, Event{Kind: EventDeposit, Amount: 800})
	assert.Empty(t, res.Remaining)
	assert.Equal(t, 300, res.BonusXP)
}

func TestEvaluateGoals_Diversify(t *testing.T) {
	goals := []domain.Goal{
		{Type: domain.GoalDiversify, Description: "Hold 2 different stocks", XP: 250},
	}
	user := &domain.User{Portfolio: []domain.PortfolioItem{
		{StockID: "AAPL", Quantity: 1},
		{StockID: "MSFT", Quantity: 2},
	}}

	res := EvaluateGoals(goals, user, Event{Kind: EventBuy, Symbol: "MSFT", Amount: 10})

	assert.Empty(t, res.Remaining)
	assert.Equal(t, 250, res.BonusXP)
}

func TestEvaluateGoals_UnknownTypePassesThrough(t *testing.T) {
	goals := []domain.Goal{
		{Type: "moon_landing", Description: "Reach 1 moon", XP: 9000, Progress: 0.5},
	}

	res := EvaluateGoals(goals, &domain.User{}, Event{Kind: EventBuy, Amount: 100})

	require.Len(t, res.Remaining, 1)
	assert.Equal(t, goals[0], res.Remaining[0])
	assert.Zero(t, res.BonusXP)
}

func TestEvaluateGoals_CompletesMultipleInOneBatch(t *testing.T) {
	goals := []domain.Goal{
		{Type: domain.GoalMakeTrades, Description: "Do 1 trades", XP: 100},
		{Type: domain.GoalTotalInvested, Description: "Invest 50 dollars", XP: 75},
	}

	res := EvaluateGoals(goals, &domain.User{}, Event{Kind: EventBuy, Symbol: "AAPL", Amount: 60})

	assert.Empty(t, res.Remaining)
	assert.Len(t, res.Completed, 2)
	assert.Equal(t, 175, res.BonusXP)
}

func TestGoalTarget(t *testing.T) {
	tests := []struct {
		name   string
		goal   domain.Goal
		target float64
		ok     bool
	}{
		{"structured field wins", domain.Goal{Target: 10, Description: "Do 99 trades"}, 10, true},
		{"legacy description parse", domain.Goal{Description: "Invest 500 dollars total"}, 500, true},
		{"digits mid-word", domain.Goal{Description: "Reach level10 now"}, 10, true},
		{"no target anywhere", domain.Goal{Description: "just vibes"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := GoalTarget(tt.goal)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.target, target)
		})
	}
}
