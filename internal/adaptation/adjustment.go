package adaptation

import "github.com/vovakirdan/adaptive-snake/internal/core"

// Trend multipliers applied to the speed and obstacle deltas.
const (
	improvingFactor = 1.2
	decliningFactor = 0.8
)

// tier is one band of the skill-to-delta table.
type tier struct {
	minSkill float64
	speed    float64
	obstacle float64
	food     float64
	reason   string
}

// tiers is ordered from the highest band down; the last entry catches everything.
var tiers = []tier{
	{80, 2, 1, -0.2, "Excellent performance - increasing challenge"},
	{60, 1, 0.5, -0.1, "Good performance - slightly increasing challenge"},
	{40, 0, 0, 0, "Balanced performance - maintaining difficulty"},
	{20, -1, -0.5, 0.1, "Struggling - slightly reducing challenge"},
	{0, -2, -1, 0.2, "Significant difficulty - reducing challenge"},
}

// CalculateDifficultyAdjustment maps an assessment onto a difficulty delta.
// The skill tier picks the base delta; an improving trend amplifies the
// speed and obstacle parts, a declining trend damps them.
func (e *Engine) CalculateDifficultyAdjustment(a core.SkillAssessment) core.DifficultyDelta {
	return Adjustment(a)
}

// Adjustment is the pure form of CalculateDifficultyAdjustment.
func Adjustment(a core.SkillAssessment) core.DifficultyDelta {
	t := tiers[len(tiers)-1]
	for _, candidate := range tiers {
		if a.SkillLevel >= candidate.minSkill {
			t = candidate
			break
		}
	}

	factor := 1.0
	switch a.Trend {
	case core.TrendImproving:
		factor = improvingFactor
	case core.TrendDeclining:
		factor = decliningFactor
	}

	return core.DifficultyDelta{
		Speed:           t.speed * factor,
		ObstacleDensity: t.obstacle * factor,
		FoodSpawnRate:   t.food,
		Reason:          t.reason,
	}
}
