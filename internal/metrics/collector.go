// Package metrics accumulates the raw per-session play signals the
// adaptation engine assesses: survival time, food, reaction time,
// collisions avoided and distance moved.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

// ErrNegativeField is returned by ValidateMetrics when a field is below zero.
var ErrNegativeField = errors.New("metrics: negative field")

// Collector accumulates counters for one play session.
// Paused intervals are excluded from survival time.
type Collector struct {
	clock core.Clock

	started   bool
	startTime time.Time
	endTime   time.Time // Zero while the session is live

	paused      bool
	pauseStart  time.Time
	pausedTotal time.Duration

	lastInput     time.Time
	hasInput      bool
	reactionTimes []float64

	foodConsumed      int
	collisionsAvoided int
	distance          int
}

// NewCollector creates a collector reading time from clock.
func NewCollector(clock core.Clock) *Collector {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Collector{clock: clock}
}

// StartSession resets all counters, records the start time and ends any pause.
func (c *Collector) StartSession() {
	*c = Collector{
		clock:     c.clock,
		started:   true,
		startTime: c.clock.Now(),
	}
}

// EndSession freezes survival time at the current instant.
// Counters stay readable until the next StartSession.
func (c *Collector) EndSession() {
	if !c.started || !c.endTime.IsZero() {
		return
	}
	now := c.clock.Now()
	if c.paused {
		c.pausedTotal += now.Sub(c.pauseStart)
		c.paused = false
	}
	c.endTime = now
}

// PauseSession stops survival-time accounting until ResumeSession.
func (c *Collector) PauseSession() {
	if !c.started || c.paused || !c.endTime.IsZero() {
		return
	}
	c.paused = true
	c.pauseStart = c.clock.Now()
}

// ResumeSession restarts survival-time accounting.
func (c *Collector) ResumeSession() {
	if !c.paused {
		return
	}
	c.pausedTotal += c.clock.Now().Sub(c.pauseStart)
	c.paused = false
}

// Paused reports whether survival-time accounting is suspended.
func (c *Collector) Paused() bool {
	return c.paused
}

// RecordInput registers a player input event. Each input after the first
// contributes a reaction-time sample equal to the gap since the previous one.
func (c *Collector) RecordInput() {
	now := c.clock.Now()
	if c.hasInput {
		gap := now.Sub(c.lastInput)
		if gap < 0 {
			gap = 0
		}
		c.reactionTimes = append(c.reactionTimes, float64(gap)/float64(time.Millisecond))
	}
	c.lastInput = now
	c.hasInput = true
}

// RecordFoodConsumption counts one food item eaten.
func (c *Collector) RecordFoodConsumption() {
	c.foodConsumed++
}

// RecordCollisionAvoided counts one near miss.
func (c *Collector) RecordCollisionAvoided() {
	c.collisionsAvoided++
}

// RecordMovement adds distance cells to the distance travelled.
// Non-positive distances are ignored.
func (c *Collector) RecordMovement(distance int) {
	if distance > 0 {
		c.distance += distance
	}
}

// SurvivalTime returns the unpaused time since the session started.
func (c *Collector) SurvivalTime() time.Duration {
	if !c.started {
		return 0
	}
	end := c.endTime
	if end.IsZero() {
		end = c.clock.Now()
	}
	paused := c.pausedTotal
	if c.paused {
		paused += end.Sub(c.pauseStart)
	}
	d := end.Sub(c.startTime) - paused
	if d < 0 {
		return 0
	}
	return d
}

// AverageReactionTime returns the mean reaction sample in milliseconds.
func (c *Collector) AverageReactionTime() float64 {
	if len(c.reactionTimes) == 0 {
		return 0
	}
	var sum float64
	for _, rt := range c.reactionTimes {
		sum += rt
	}
	return sum / float64(len(c.reactionTimes))
}

// AverageSpeed returns cells moved per second of survival time.
func (c *Collector) AverageSpeed() float64 {
	elapsed := c.SurvivalTime().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(c.distance) / elapsed
}

// Distance returns the total cells moved this session.
func (c *Collector) Distance() int {
	return c.distance
}

// Metrics assembles a snapshot of the current counters.
func (c *Collector) Metrics() core.PerformanceMetrics {
	return core.PerformanceMetrics{
		SurvivalTime:      c.SurvivalTime().Seconds(),
		FoodConsumed:      c.foodConsumed,
		ReactionTimes:     append([]float64(nil), c.reactionTimes...),
		CollisionsAvoided: c.collisionsAvoided,
		AverageSpeed:      c.AverageSpeed(),
		Timestamp:         c.clock.Now(),
	}
}

// ValidateMetrics rejects a snapshot with any negative field.
func ValidateMetrics(m core.PerformanceMetrics) error {
	switch {
	case m.SurvivalTime < 0:
		return fmt.Errorf("%w: survival_time %v", ErrNegativeField, m.SurvivalTime)
	case m.FoodConsumed < 0:
		return fmt.Errorf("%w: food_consumed %d", ErrNegativeField, m.FoodConsumed)
	case m.CollisionsAvoided < 0:
		return fmt.Errorf("%w: collisions_avoided %d", ErrNegativeField, m.CollisionsAvoided)
	case m.AverageSpeed < 0:
		return fmt.Errorf("%w: average_speed %v", ErrNegativeField, m.AverageSpeed)
	}
	for i, rt := range m.ReactionTimes {
		if rt < 0 {
			return fmt.Errorf("%w: reaction_time[%d] %v", ErrNegativeField, i, rt)
		}
	}
	return nil
}
