// Package progression holds the pure gamification core: leveling,
// trading-XP multipliers, goal evaluation, badge unlocks and the trade
// engine. Nothing in this package performs I/O; the session orchestrator
// composes these functions into atomic state transitions.
package progression

import "math"

// levelCostBase is the XP cost of the first level step; every step after
// it costs 10% more, rounded down per step.
const (
	levelCostBase   = 1000.0
	levelCostGrowth = 1.1
)

// XPRequiredForLevel returns the cumulative XP floor required to be at
// the given level. Level 1 requires 0 XP.
func XPRequiredForLevel(level int) int {
	total := 0
	for i := 1; i < level; i++ {
		total += int(math.Floor(levelCostBase * math.Pow(levelCostGrowth, float64(i-1))))
	}
	return total
}

// XPForNextLevel returns the XP step between the given level and the
// next one.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return XPRequiredForLevel(level+1) - XPRequiredForLevel(level)
}

// LevelFor returns the largest level whose XP floor the given total
// reaches. XP never decreases, so levels derived from it are monotone.
func LevelFor(xp int) int {
	level := 1
	for xp >= XPRequiredForLevel(level+1) {
		level++
	}
	return level
}
