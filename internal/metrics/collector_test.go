package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestReactionTimeSamples(t *testing.T) {
	clock := core.NewManualClock(epoch)
	c := NewCollector(clock)
	c.StartSession()

	// First input has nothing to diff against
	c.RecordInput()
	if n := len(c.Metrics().ReactionTimes); n != 0 {
		t.Fatalf("First input produced %d samples, expected 0", n)
	}

	clock.Advance(200 * time.Millisecond)
	c.RecordInput()
	clock.Advance(400 * time.Millisecond)
	c.RecordInput()

	m := c.Metrics()
	if len(m.ReactionTimes) != 2 {
		t.Fatalf("Samples = %v, expected 2", m.ReactionTimes)
	}
	if m.ReactionTimes[0] != 200 || m.ReactionTimes[1] != 400 {
		t.Errorf("Samples = %v, expected [200 400]", m.ReactionTimes)
	}
	if avg := c.AverageReactionTime(); avg != 300 {
		t.Errorf("AverageReactionTime() = %v, expected 300", avg)
	}
}

func TestCounters(t *testing.T) {
	c := NewCollector(core.NewManualClock(epoch))
	c.StartSession()

	c.RecordFoodConsumption()
	c.RecordFoodConsumption()
	c.RecordCollisionAvoided()
	c.RecordMovement(1)
	c.RecordMovement(3)
	c.RecordMovement(-2)

	m := c.Metrics()
	if m.FoodConsumed != 2 {
		t.Errorf("FoodConsumed = %d, expected 2", m.FoodConsumed)
	}
	if m.CollisionsAvoided != 1 {
		t.Errorf("CollisionsAvoided = %d, expected 1", m.CollisionsAvoided)
	}
	if c.Distance() != 4 {
		t.Errorf("Distance() = %d, expected 4", c.Distance())
	}
}

func TestPauseExcludedFromSurvival(t *testing.T) {
	clock := core.NewManualClock(epoch)
	c := NewCollector(clock)
	c.StartSession()

	clock.Advance(10 * time.Second)
	c.PauseSession()
	clock.Advance(30 * time.Second)

	if got := c.SurvivalTime(); got != 10*time.Second {
		t.Errorf("SurvivalTime() while paused = %v, expected 10s", got)
	}

	c.ResumeSession()
	clock.Advance(5 * time.Second)

	if got := c.SurvivalTime(); got != 15*time.Second {
		t.Errorf("SurvivalTime() after resume = %v, expected 15s", got)
	}
}

func TestEndSessionFreezesSurvival(t *testing.T) {
	clock := core.NewManualClock(epoch)
	c := NewCollector(clock)
	c.StartSession()

	clock.Advance(8 * time.Second)
	c.EndSession()
	clock.Advance(time.Minute)

	if got := c.SurvivalTime(); got != 8*time.Second {
		t.Errorf("SurvivalTime() after end = %v, expected 8s", got)
	}
}

func TestStartSessionResets(t *testing.T) {
	clock := core.NewManualClock(epoch)
	c := NewCollector(clock)
	c.StartSession()

	c.RecordFoodConsumption()
	c.RecordInput()
	clock.Advance(time.Second)
	c.RecordInput()
	c.PauseSession()

	c.StartSession()
	m := c.Metrics()
	if m.FoodConsumed != 0 || len(m.ReactionTimes) != 0 || m.SurvivalTime != 0 {
		t.Errorf("StartSession did not reset counters: %+v", m)
	}
	if c.Paused() {
		t.Error("StartSession should end the pause")
	}

	// The previous session's last input must not produce a sample
	clock.Advance(time.Second)
	c.RecordInput()
	if n := len(c.Metrics().ReactionTimes); n != 0 {
		t.Errorf("First input of new session produced %d samples", n)
	}
}

func TestAverageSpeed(t *testing.T) {
	clock := core.NewManualClock(epoch)
	c := NewCollector(clock)
	c.StartSession()

	if c.AverageSpeed() != 0 {
		t.Errorf("AverageSpeed() with no elapsed time = %v, expected 0", c.AverageSpeed())
	}

	c.RecordMovement(20)
	clock.Advance(4 * time.Second)

	if got := c.AverageSpeed(); got != 5 {
		t.Errorf("AverageSpeed() = %v, expected 5", got)
	}
}

func TestValidateMetrics(t *testing.T) {
	tests := []struct {
		name    string
		m       core.PerformanceMetrics
		wantErr bool
	}{
		{"zero value", core.PerformanceMetrics{}, false},
		{"valid", core.PerformanceMetrics{SurvivalTime: 12, FoodConsumed: 3, ReactionTimes: []float64{150, 220}}, false},
		{"negative survival", core.PerformanceMetrics{SurvivalTime: -1}, true},
		{"negative food", core.PerformanceMetrics{FoodConsumed: -1}, true},
		{"negative collisions", core.PerformanceMetrics{CollisionsAvoided: -3}, true},
		{"negative speed", core.PerformanceMetrics{AverageSpeed: -0.5}, true},
		{"negative reaction sample", core.PerformanceMetrics{ReactionTimes: []float64{100, -4}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMetrics(tc.m)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateMetrics() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNegativeField) {
				t.Errorf("error %v should wrap ErrNegativeField", err)
			}
		})
	}
}
