package adaptation

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSurvivalScore(t *testing.T) {
	tests := []struct {
		t        float64
		expected float64
	}{
		{0, 0},
		{5, 10},
		{10, 20},
		{20, 35},
		{30, 50},
		{45, 65},
		{60, 80},
		{100, 92},
		{200, 100},
	}
	for _, tc := range tests {
		if got := SurvivalScore(tc.t); !approx(got, tc.expected) {
			t.Errorf("SurvivalScore(%v) = %v, expected %v", tc.t, got, tc.expected)
		}
	}
}

func TestFoodRateScore(t *testing.T) {
	tests := []struct {
		r        float64
		expected float64
	}{
		{0, 0},
		{0.5, 10},
		{1, 20},
		{3, 40},
		{5, 60},
		{7.5, 80},
		{10, 100},
		{20, 100},
	}
	for _, tc := range tests {
		if got := FoodRateScore(tc.r); !approx(got, tc.expected) {
			t.Errorf("FoodRateScore(%v) = %v, expected %v", tc.r, got, tc.expected)
		}
	}
}

func TestReactionScore(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float64
		expected float64
	}{
		{"no samples", nil, 50},
		{"fast", []float64{150, 180}, 100},
		{"at 200", []float64{200}, 100},
		{"at 250", []float64{250}, 85},
		{"at 300", []float64{300}, 70},
		{"at 400", []float64{400}, 50},
		{"at 500", []float64{500}, 30},
		{"at 600", []float64{600}, 20},
		{"very slow", []float64{2000}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReactionScore(tc.samples); !approx(got, tc.expected) {
				t.Errorf("ReactionScore(%v) = %v, expected %v", tc.samples, got, tc.expected)
			}
		})
	}
}

func TestCollisionScore(t *testing.T) {
	tests := []struct {
		n        int
		expected float64
	}{
		{0, 20},
		{4, 52},
		{5, 60},
		{9, 92},
		{10, 100},
		{30, 100},
	}
	for _, tc := range tests {
		if got := CollisionScore(tc.n); !approx(got, tc.expected) {
			t.Errorf("CollisionScore(%d) = %v, expected %v", tc.n, got, tc.expected)
		}
	}
}

func TestSkillScoreWeights(t *testing.T) {
	m := core.PerformanceMetrics{
		SurvivalTime:      30,                  // 50
		FoodConsumed:      2,                   // 4/min -> 50
		ReactionTimes:     []float64{300, 300}, // 70
		CollisionsAvoided: 5,                   // 60
	}
	expected := 0.3*50 + 0.3*50 + 0.2*70 + 0.2*60
	if got := SkillScore(m); !approx(got, expected) {
		t.Errorf("SkillScore() = %v, expected %v", got, expected)
	}
}

func TestDetermineTrend(t *testing.T) {
	tests := []struct {
		name     string
		skills   []float64
		expected core.Trend
	}{
		{"empty", nil, core.TrendStable},
		{"single", []float64{50}, core.TrendStable},
		{"rising", []float64{30, 40, 50, 60}, core.TrendImproving},
		{"falling", []float64{70, 60, 50, 40}, core.TrendDeclining},
		{"flat", []float64{50, 50, 50, 50}, core.TrendStable},
		{"small wobble", []float64{50, 52, 54}, core.TrendStable},
		{"two rising", []float64{40, 50}, core.TrendImproving},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			history := make([]core.SkillAssessment, len(tc.skills))
			for i, s := range tc.skills {
				history[i] = core.SkillAssessment{SkillLevel: s}
			}
			if got := DetermineTrend(history); got != tc.expected {
				t.Errorf("DetermineTrend(%v) = %v, expected %v", tc.skills, got, tc.expected)
			}
		})
	}
}

func TestAssessUsesStoredHistoryForTrend(t *testing.T) {
	e := New()
	for _, s := range []float64{30, 40, 50, 60} {
		e.assessments.Append(core.SkillAssessment{SkillLevel: s})
	}

	a := e.AssessPlayerSkill(core.PerformanceMetrics{})
	if a.Trend != core.TrendImproving {
		t.Errorf("Trend = %v, expected improving", a.Trend)
	}
	if n := len(e.AssessmentHistory()); n != 5 {
		t.Errorf("History length = %d, expected 5", n)
	}
}

func TestFirstAssessmentIsStable(t *testing.T) {
	e := New()
	a := e.AssessPlayerSkill(core.PerformanceMetrics{SurvivalTime: 100, FoodConsumed: 20})
	if a.Trend != core.TrendStable {
		t.Errorf("Trend = %v, expected stable with no history", a.Trend)
	}
	if a.SkillLevel < 0 || a.SkillLevel > 100 {
		t.Errorf("SkillLevel = %v out of range", a.SkillLevel)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		m        core.PerformanceMetrics
		expected float64
	}{
		{"empty", core.PerformanceMetrics{}, 0.5},
		{"some samples", core.PerformanceMetrics{ReactionTimes: make([]float64, 5)}, 0.6},
		{"rich", core.PerformanceMetrics{ReactionTimes: make([]float64, 12), SurvivalTime: 45, FoodConsumed: 8}, 1.0},
		{"medium survival", core.PerformanceMetrics{SurvivalTime: 15}, 0.6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Confidence(tc.m); !approx(got, tc.expected) {
				t.Errorf("Confidence() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCalculateDifficultyAdjustmentTiers(t *testing.T) {
	tests := []struct {
		skill                 float64
		speed, obstacle, food float64
	}{
		{95, 2, 1, -0.2},
		{80, 2, 1, -0.2},
		{65, 1, 0.5, -0.1},
		{50, 0, 0, 0},
		{25, -1, -0.5, 0.1},
		{5, -2, -1, 0.2},
	}

	e := New()
	for _, tc := range tests {
		d := e.CalculateDifficultyAdjustment(core.SkillAssessment{SkillLevel: tc.skill, Trend: core.TrendStable})
		if !approx(d.Speed, tc.speed) || !approx(d.ObstacleDensity, tc.obstacle) || !approx(d.FoodSpawnRate, tc.food) {
			t.Errorf("skill %v: delta = %+v, expected (%v, %v, %v)", tc.skill, d, tc.speed, tc.obstacle, tc.food)
		}
		if d.Reason == "" {
			t.Errorf("skill %v: empty reason", tc.skill)
		}
	}
}

func TestAdjustmentTrendMultipliers(t *testing.T) {
	improving := Adjustment(core.SkillAssessment{SkillLevel: 85, Trend: core.TrendImproving})
	if !approx(improving.Speed, 2.4) || !approx(improving.ObstacleDensity, 1.2) {
		t.Errorf("improving delta = %+v, expected speed 2.4 obstacle 1.2", improving)
	}
	if !approx(improving.FoodSpawnRate, -0.2) {
		t.Errorf("trend must not scale the food delta, got %v", improving.FoodSpawnRate)
	}

	declining := Adjustment(core.SkillAssessment{SkillLevel: 10, Trend: core.TrendDeclining})
	if !approx(declining.Speed, -1.6) || !approx(declining.ObstacleDensity, -0.8) {
		t.Errorf("declining delta = %+v, expected speed -1.6 obstacle -0.8", declining)
	}
}

func TestDecisionLogAppendOnly(t *testing.T) {
	clock := core.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	e := New(WithClock(clock))

	m := core.PerformanceMetrics{ReactionTimes: []float64{120}}
	a := e.AssessPlayerSkill(m)
	d := e.CalculateDifficultyAdjustment(a)
	e.RecordAdaptationDecision(m, a, d, "first")
	clock.Advance(5 * time.Second)
	e.RecordAdaptationDecision(m, a, d, "second")

	// Mutating the caller's slice must not reach the stored decision
	m.ReactionTimes[0] = 999

	log := e.DecisionLog()
	if len(log) != 2 {
		t.Fatalf("Decision log length = %d, expected 2", len(log))
	}
	if log[0].Rationale != "first" || log[1].Rationale != "second" {
		t.Errorf("Decision order wrong: %q, %q", log[0].Rationale, log[1].Rationale)
	}
	if log[0].Metrics.ReactionTimes[0] != 120 {
		t.Errorf("Stored decision was mutated: %v", log[0].Metrics.ReactionTimes)
	}

	// Mutating a returned copy must not reach the log
	log[0].Rationale = "edited"
	if e.DecisionLog()[0].Rationale != "first" {
		t.Error("DecisionLog() should return a copy")
	}

	e.ClearHistory()
	if len(e.DecisionLog()) != 0 || len(e.AssessmentHistory()) != 0 {
		t.Error("ClearHistory() should empty both logs")
	}
}

func TestLogLimit(t *testing.T) {
	l := NewLog[int](3)
	for i := 1; i <= 5; i++ {
		l.Append(i)
	}

	entries := l.Entries()
	if len(entries) != 3 || entries[0] != 3 || entries[2] != 5 {
		t.Errorf("Entries() = %v, expected [3 4 5]", entries)
	}
	if l.Dropped() != 2 {
		t.Errorf("Dropped() = %d, expected 2", l.Dropped())
	}
	if last := l.Last(2); len(last) != 2 || last[0] != 4 || last[1] != 5 {
		t.Errorf("Last(2) = %v, expected [4 5]", last)
	}

	unbounded := NewLog[int](0)
	for i := 0; i < 100; i++ {
		unbounded.Append(i)
	}
	if unbounded.Len() != 100 {
		t.Errorf("Unbounded log length = %d, expected 100", unbounded.Len())
	}
}
