package progression

// milestone maps a level threshold to the badge it unlocks. Order is
// fixed so unlock order is stable across transitions.
type milestone struct {
	Level   int
	BadgeID int
}

var milestones = []milestone{
	{Level: 5, BadgeID: 2},
	{Level: 10, BadgeID: 3},
	{Level: 15, BadgeID: 4},
	{Level: 20, BadgeID: 5},
}

// UnlockBadges returns the badge set extended with every milestone badge
// the level has reached. Append-only and idempotent: owned badges are
// never removed or duplicated.
func UnlockBadges(level int, badgeIDs []int) (updated []int, unlocked []int) {
	updated = append([]int(nil), badgeIDs...)
	owned := make(map[int]bool, len(badgeIDs))
	for _, id := range badgeIDs {
		owned[id] = true
	}

	for _, m := range milestones {
		if level >= m.Level && !owned[m.BadgeID] {
			updated = append(updated, m.BadgeID)
			unlocked = append(unlocked, m.BadgeID)
			owned[m.BadgeID] = true
		}
	}
	return updated, unlocked
}
