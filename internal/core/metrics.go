package core

import "time"

// PerformanceMetrics is a point-in-time snapshot of a session's play signals.
// It is rebuilt from the collector's counters on demand and never mutated.
type PerformanceMetrics struct {
	SurvivalTime      float64   `json:"survival_time"` // seconds
	FoodConsumed      int       `json:"food_consumed"`
	ReactionTimes     []float64 `json:"reaction_time"` // milliseconds, in input order
	CollisionsAvoided int       `json:"collisions_avoided"`
	AverageSpeed      float64   `json:"average_speed"` // cells per second
	Timestamp         time.Time `json:"timestamp"`
}

// AverageReactionTime returns the mean reaction sample in ms, or 0 with no samples.
func (m PerformanceMetrics) AverageReactionTime() float64 {
	if len(m.ReactionTimes) == 0 {
		return 0
	}
	var sum float64
	for _, rt := range m.ReactionTimes {
		sum += rt
	}
	return sum / float64(len(m.ReactionTimes))
}

// Trend is the direction a player's skill is moving in.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// SkillAssessment is the adaptation engine's verdict on a player.
type SkillAssessment struct {
	SkillLevel  float64   `json:"skill_level"` // 0-100
	Trend       Trend     `json:"trend"`
	Confidence  float64   `json:"confidence"` // 0-1
	LastUpdated time.Time `json:"last_updated"`
}

// DifficultyDelta is a signed adjustment to the numeric difficulty fields.
type DifficultyDelta struct {
	Speed           float64 `json:"speed_delta"`
	ObstacleDensity float64 `json:"obstacle_delta"`
	FoodSpawnRate   float64 `json:"food_delta"`
	Reason          string  `json:"reason"`
}

// IsZero reports whether the delta changes nothing.
func (d DifficultyDelta) IsZero() bool {
	return d.Speed == 0 && d.ObstacleDensity == 0 && d.FoodSpawnRate == 0
}
