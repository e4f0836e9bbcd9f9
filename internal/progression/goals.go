package progression

import (
	"strconv"
	"strings"

	"pegasis/internal/domain"
)

// EventKind identifies the user action driving a transition.
type EventKind string

const (
	EventDeposit  EventKind = "DEPOSIT"
	EventWithdraw EventKind = "WITHDRAW"
	EventBuy      EventKind = "BUY"
	EventSell     EventKind = "SELL"
)

// Event describes one user action for the goal evaluator.
type Event struct {
	Kind     EventKind
	Symbol   string
	Quantity float64
	Amount   float64 // currency amount of the action
}

// isTrade reports whether the event is a buy or sell.
func (e Event) isTrade() bool {
	return e.Kind == EventBuy || e.Kind == EventSell
}

// GoalResult is the outcome of evaluating one event against a goal list.
type GoalResult struct {
	Remaining []domain.Goal
	Completed []domain.Goal
	BonusXP   int
}

// EvaluateGoals advances goal progress according to each goal's type and
// the given event, evaluated against the already-merged user snapshot.
// Completed goals move to Completed and their XP rewards are summed into
// BonusXP; unknown goal types pass through untouched.
func EvaluateGoals(goals []domain.Goal, user *domain.User, ev Event) GoalResult {
	res := GoalResult{Remaining: make([]domain.Goal, 0, len(goals))}

	for _, goal := range goals {
		switch goal.Type {
		case domain.GoalMakeTrades:
			if ev.isTrade() {
				goal.Progress++
			}
		case domain.GoalTotalInvested:
			if ev.Kind == EventBuy {
				goal.Progress += ev.Amount
			}
		case domain.GoalWatchlistBuy:
			if ev.Kind == EventBuy && user.Watches(ev.Symbol) {
				goal.Progress += ev.Quantity
			}
		case domain.GoalReachBalance:
			// Watermark, not a delta: a later withdraw must not undo it.
			if user.Balance > goal.Progress {
				goal.Progress = user.Balance
			}
		case domain.GoalDiversify:
			goal.Progress = float64(user.OpenPositions())
		}

		if target, ok := GoalTarget(goal); ok && goal.Progress >= target {
			res.Completed = append(res.Completed, goal)
			res.BonusXP += goal.XP
			continue
		}
		res.Remaining = append(res.Remaining, goal)
	}

	return res
}

// GoalTarget resolves a goal's completion threshold. The structured
// Target field wins; legacy records fall back to the first integer
// literal embedded in the description text.
func GoalTarget(goal domain.Goal) (float64, bool) {
	if goal.Target > 0 {
		return goal.Target, true
	}
	if n, ok := firstInt(goal.Description); ok {
		return float64(n), true
	}
	return 0, false
}

// firstInt scans text for the first run of digits.
func firstInt(text string) (int, bool) {
	start := -1
	for i, r := range text {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(strings.TrimSpace(text[start:end]))
	if err != nil {
		return 0, false
	}
	return n, true
}
