// Package adaptation turns performance metrics into a skill assessment and a
// bounded difficulty delta. The scoring is a fixed, explainable weighted
// formula; every assessment and decision is kept in append-only logs for
// trend detection and auditing.
package adaptation

import (
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

// Component weights of the skill score.
const (
	WeightSurvival  = 0.3
	WeightFoodRate  = 0.3
	WeightReaction  = 0.2
	WeightCollision = 0.2
)

const (
	// trendWindow is how many stored assessments the trend looks at.
	trendWindow = 3
	// trendThreshold is the mean difference that counts as a real change.
	trendThreshold = 5.0
	// neutralReactionScore is used when no reaction samples exist yet.
	neutralReactionScore = 50.0
)

// Decision is one audited adaptation step. It is stored by value and never edited.
type Decision struct {
	Metrics    core.PerformanceMetrics
	Assessment core.SkillAssessment
	Delta      core.DifficultyDelta
	Rationale  string
	RecordedAt time.Time
}

// Engine assesses player skill and proposes difficulty adjustments.
type Engine struct {
	clock       core.Clock
	assessments *Log[core.SkillAssessment]
	decisions   *Log[Decision]
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	clock core.Clock
	limit int
}

// WithClock sets the clock used to timestamp assessments.
func WithClock(c core.Clock) Option {
	return func(o *engineOptions) {
		o.clock = c
	}
}

// WithHistoryLimit caps both logs at n entries (0 = unbounded).
func WithHistoryLimit(n int) Option {
	return func(o *engineOptions) {
		o.limit = n
	}
}

// New creates an adaptation engine with empty history.
func New(opts ...Option) *Engine {
	o := engineOptions{clock: core.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		clock:       o.clock,
		assessments: NewLog[core.SkillAssessment](o.limit),
		decisions:   NewLog[Decision](o.limit),
	}
}

// AssessPlayerSkill scores the metrics, classifies the trend against the
// stored history and appends the result to the assessment history.
func (e *Engine) AssessPlayerSkill(m core.PerformanceMetrics) core.SkillAssessment {
	skill := SkillScore(m)
	a := core.SkillAssessment{
		SkillLevel:  skill,
		Trend:       DetermineTrend(e.assessments.Last(trendWindow)),
		Confidence:  Confidence(m),
		LastUpdated: e.clock.Now(),
	}
	e.assessments.Append(a)
	return a
}

// SkillScore is the weighted sum of the four component scores, clamped to [0, 100].
func SkillScore(m core.PerformanceMetrics) float64 {
	total := WeightSurvival*SurvivalScore(m.SurvivalTime) +
		WeightFoodRate*FoodRateScore(FoodRate(m)) +
		WeightReaction*ReactionScore(m.ReactionTimes) +
		WeightCollision*CollisionScore(m.CollisionsAvoided)
	return core.ClampF(total, 0, 100)
}

// SurvivalScore maps survival seconds onto a 0-100 score.
func SurvivalScore(t float64) float64 {
	var s float64
	switch {
	case t < 10:
		s = 2 * t
	case t < 30:
		s = 20 + 1.5*(t-10)
	case t < 60:
		s = 50 + 1.0*(t-30)
	default:
		s = 80 + 0.3*(t-60)
	}
	return core.ClampF(s, 0, 100)
}

// FoodRate returns items eaten per minute of survival.
func FoodRate(m core.PerformanceMetrics) float64 {
	if m.SurvivalTime <= 0 {
		return 0
	}
	return float64(m.FoodConsumed) / (m.SurvivalTime / 60)
}

// FoodRateScore maps a food rate (items/min) onto a 0-100 score.
func FoodRateScore(r float64) float64 {
	var s float64
	switch {
	case r < 1:
		s = 20 * r
	case r < 5:
		s = 20 + 10*(r-1)
	case r < 10:
		s = 60 + 8*(r-5)
	default:
		s = 100 + 2*(r-10)
	}
	return core.ClampF(s, 0, 100)
}

// ReactionScore maps the mean reaction time onto a 0-100 score; lower is better.
func ReactionScore(samples []float64) float64 {
	if len(samples) == 0 {
		return neutralReactionScore
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	rt := sum / float64(len(samples))

	var s float64
	switch {
	case rt <= 200:
		s = 100
	case rt <= 300:
		s = 100 - 30*(rt-200)/100
	case rt <= 500:
		s = 70 - 40*(rt-300)/200
	default:
		s = 30 - 0.1*(rt-500)
	}
	return core.ClampF(s, 0, 100)
}

// CollisionScore maps the number of collisions avoided onto a 0-100 score.
func CollisionScore(n int) float64 {
	v := float64(n)
	var s float64
	switch {
	case n < 5:
		s = 20 + 8*v
	case n < 10:
		s = 60 + 8*(v-5)
	default:
		s = 100 + 2*(v-10)
	}
	return core.ClampF(s, 0, 100)
}

// DetermineTrend compares the mean skill of the earlier half of history
// (oldest first) to the later half. Fewer than two entries is stable.
func DetermineTrend(history []core.SkillAssessment) core.Trend {
	if len(history) > trendWindow {
		history = history[len(history)-trendWindow:]
	}
	if len(history) < 2 {
		return core.TrendStable
	}

	mid := len(history) / 2
	diff := meanSkill(history[mid:]) - meanSkill(history[:mid])
	switch {
	case diff > trendThreshold:
		return core.TrendImproving
	case diff < -trendThreshold:
		return core.TrendDeclining
	default:
		return core.TrendStable
	}
}

func meanSkill(as []core.SkillAssessment) float64 {
	var sum float64
	for _, a := range as {
		sum += a.SkillLevel
	}
	return sum / float64(len(as))
}

// Confidence grows from 0.5 with the richness of the sample, capped at 1.
func Confidence(m core.PerformanceMetrics) float64 {
	c := 0.5
	switch n := len(m.ReactionTimes); {
	case n >= 10:
		c += 0.2
	case n >= 5:
		c += 0.1
	}
	switch {
	case m.SurvivalTime >= 30:
		c += 0.2
	case m.SurvivalTime >= 10:
		c += 0.1
	}
	if m.FoodConsumed >= 5 {
		c += 0.1
	}
	return core.ClampF(c, 0, 1)
}

// RecordAdaptationDecision appends an audited decision to the decision log.
func (e *Engine) RecordAdaptationDecision(m core.PerformanceMetrics, a core.SkillAssessment, d core.DifficultyDelta, rationale string) {
	m.ReactionTimes = append([]float64(nil), m.ReactionTimes...)
	e.decisions.Append(Decision{
		Metrics:    m,
		Assessment: a,
		Delta:      d,
		Rationale:  rationale,
		RecordedAt: e.clock.Now(),
	})
}

// AssessmentHistory returns a copy of the stored assessments, oldest first.
func (e *Engine) AssessmentHistory() []core.SkillAssessment {
	return e.assessments.Entries()
}

// DecisionLog returns a copy of the stored decisions, oldest first.
func (e *Engine) DecisionLog() []Decision {
	return e.decisions.Entries()
}

// LastAssessment returns the newest assessment, if any.
func (e *Engine) LastAssessment() (core.SkillAssessment, bool) {
	last := e.assessments.Last(1)
	if len(last) == 0 {
		return core.SkillAssessment{}, false
	}
	return last[0], true
}

// ClearHistory empties both the assessment history and the decision log.
func (e *Engine) ClearHistory() {
	e.assessments.Clear()
	e.decisions.Clear()
}
