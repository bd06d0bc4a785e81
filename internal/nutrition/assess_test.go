package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTargets() Targets {
	return Targets{Protein: 160, Carbs: 300, Fats: 80, Calories: 2560}
}

func TestAssess(t *testing.T) {
	t.Run("exact attainment is excellent", func(t *testing.T) {
		targets := testTargets()
		a := Assess(Macros{Protein: 160, Carbs: 300, Fats: 80, Calories: 2560}, targets)

		assert.InDelta(t, 100.0, a.Score, 0.001)
		assert.Equal(t, TierExcellent, a.Tier)
		assert.Empty(t, a.Shortfalls)
	})

	t.Run("attainment is capped at 100", func(t *testing.T) {
		a := Assess(Macros{Protein: 320, Carbs: 600, Fats: 160, Calories: 5120}, testTargets())
		assert.InDelta(t, 100.0, a.ProteinPercent, 0.001)
		assert.InDelta(t, 100.0, a.Score, 0.001)
		assert.Empty(t, a.Shortfalls)
	})

	t.Run("tier boundaries are inclusive", func(t *testing.T) {
		targets := Targets{Protein: 100, Carbs: 100, Fats: 100, Calories: 100}
		cases := []struct {
			totals float64
			tier   Tier
		}{
			{90, TierExcellent},
			{89.9, TierGood},
			{75, TierGood},
			{74.9, TierFair},
			{60, TierFair},
			{59.9, TierPoor},
			{0, TierPoor},
		}
		for _, tc := range cases {
			a := Assess(Macros{Protein: tc.totals, Carbs: tc.totals, Fats: tc.totals, Calories: tc.totals}, targets)
			assert.Equal(t, tc.tier, a.Tier, "score %.1f", tc.totals)
		}
	})

	t.Run("shortfalls ranked by largest gap first", func(t *testing.T) {
		targets := testTargets()
		a := Assess(Macros{Protein: 40, Carbs: 240, Fats: 48, Calories: 1552}, targets)

		require.Len(t, a.Shortfalls, 4)
		assert.Equal(t, "protein", a.Shortfalls[0].Macro)
		assert.InDelta(t, 25.0, a.Shortfalls[0].Percent, 0.001)
		assert.InDelta(t, 120.0, a.Shortfalls[0].Remaining, 0.001)
		assert.Equal(t, "g", a.Shortfalls[0].TargetUnit)

		// Remaining shortfalls are ordered by ascending attainment:
		// fats 60%, calories ~60.6%, carbs 80%.
		assert.Equal(t, "fats", a.Shortfalls[1].Macro)
		assert.Equal(t, "calories", a.Shortfalls[2].Macro)
		assert.Equal(t, "kcal", a.Shortfalls[2].TargetUnit)
		assert.Equal(t, "carbs", a.Shortfalls[3].Macro)
	})

	t.Run("empty day is poor with full shortfalls", func(t *testing.T) {
		a := Assess(Macros{}, testTargets())
		assert.InDelta(t, 0.0, a.Score, 0.001)
		assert.Equal(t, TierPoor, a.Tier)
		assert.Len(t, a.Shortfalls, 4)
	})

	t.Run("zero targets never divide", func(t *testing.T) {
		a := Assess(Macros{Protein: 50}, Targets{})
		assert.InDelta(t, 0.0, a.Score, 0.001)
		assert.Equal(t, TierPoor, a.Tier)
		assert.Empty(t, a.Shortfalls)
	})
}
