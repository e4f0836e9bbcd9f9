package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPRequiredForLevel(t *testing.T) {
	assert.Equal(t, 0, XPRequiredForLevel(0))
	assert.Equal(t, 0, XPRequiredForLevel(1))
	assert.Equal(t, 1000, XPRequiredForLevel(2))
	assert.Equal(t, 2100, XPRequiredForLevel(3)) // 1000 + 1100
}

func TestXPRequiredForLevel_StrictlyIncreasing(t *testing.T) {
	for level := 1; level <= 50; level++ {
		assert.Greater(t, XPRequiredForLevel(level+1), XPRequiredForLevel(level),
			"level %d threshold must exceed level %d", level+1, level)
	}
}

func TestXPForNextLevel(t *testing.T) {
	assert.Equal(t, 1000, XPForNextLevel(1))
	assert.Equal(t, 1100, XPForNextLevel(2))
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		xp    int
		level int
	}{
		{"zero xp", 0, 1},
		{"just below level 2", 999, 1},
		{"exact level 2 threshold", 1000, 2},
		{"exact level 3 threshold", 2100, 3},
		{"between thresholds", 2099, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, LevelFor(tt.xp))
		})
	}
}

func TestLevelFor_RoundTripsThresholds(t *testing.T) {
	for level := 1; level <= 25; level++ {
		xp := XPRequiredForLevel(level)
		assert.Equal(t, level, LevelFor(xp))
	}
}
