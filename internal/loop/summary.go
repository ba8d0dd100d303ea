package loop

import (
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/adaptation"
	"github.com/vovakirdan/adaptive-snake/internal/core"
)

// Summary describes a session for persistence. It is built from the
// loop's public read accessors only.
type Summary struct {
	SessionID  string
	FinalScore int
	FoodEaten  int
	Length     int
	Duration   time.Duration // Survival time, pauses excluded
	Collision  core.CollisionType
	Difficulty core.DifficultyParameters
	Metrics    core.PerformanceMetrics
	Assessment core.SkillAssessment
	Completed  bool // The session ended in game over
	StartedAt  time.Time
	EndedAt    time.Time
}

// Summary reports the current or most recent session. When no assessment
// has run yet it scores the metrics without recording anything.
func (l *GameLoop) Summary() Summary {
	state := l.engine.State()
	m := l.collector.Metrics()

	a, ok := l.adaptation.LastAssessment()
	if !ok {
		a = core.SkillAssessment{
			SkillLevel:  adaptation.SkillScore(m),
			Trend:       core.TrendStable,
			Confidence:  adaptation.Confidence(m),
			LastUpdated: l.clock.Now(),
		}
	}

	return Summary{
		SessionID:  l.sessionID,
		FinalScore: state.Score,
		FoodEaten:  state.FoodEaten,
		Length:     len(state.Snake),
		Duration:   l.collector.SurvivalTime(),
		Collision:  state.Collision.Type,
		Difficulty: l.difficulty.CurrentDifficulty(),
		Metrics:    m,
		Assessment: a,
		Completed:  l.state == StateGameOver,
		StartedAt:  l.startedAt,
		EndedAt:    l.endedAt,
	}
}
