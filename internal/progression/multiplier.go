package progression

// badgeBonus is the flat trading-XP bonus granted by every badge after
// the starter one.
const badgeBonus = 0.05

// ActiveMultiplier returns the trading-XP multiplier for a badge set:
// 1.0 for zero or one badge, +5% per additional badge. The per-badge
// multiplier field in the catalog is display metadata only.
func ActiveMultiplier(badgeIDs []int) float64 {
	extra := len(badgeIDs) - 1
	if extra < 0 {
		extra = 0
	}
	return 1.0 + float64(extra)*badgeBonus
}
