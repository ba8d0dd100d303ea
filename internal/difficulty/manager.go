// Package difficulty owns the live difficulty parameters. Manual changes
// apply immediately; adaptive adjustments are validated, clamped and then
// interpolated toward their target over a fixed wall-clock duration.
package difficulty

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

// DefaultTransitionDuration is how long an adaptive adjustment takes to blend in.
const DefaultTransitionDuration = 2500 * time.Millisecond

var (
	// ErrOutOfRange is returned when a parameter lies outside its bound.
	ErrOutOfRange = errors.New("difficulty: parameter out of range")
	// ErrUnreasonableDelta is returned when a single adjustment would jump
	// further than a parameter's whole valid range.
	ErrUnreasonableDelta = errors.New("difficulty: delta exceeds parameter span")
)

// State is the manager's transition state.
type State int

const (
	StateStable State = iota
	StateTransitioning
)

func (s State) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateTransitioning:
		return "transitioning"
	default:
		return "unknown"
	}
}

// transition is an in-flight interpolation from a snapshot to a target.
type transition struct {
	from     core.DifficultyParameters
	to       core.DifficultyParameters
	start    time.Time
	duration time.Duration
}

// Manager owns the current difficulty parameters and any in-flight transition.
// Elapsed time is recomputed on every read, so nothing advances in the
// background and there is nothing to race with.
type Manager struct {
	bounds   core.Bounds
	clock    core.Clock
	duration time.Duration

	current    core.DifficultyParameters
	transition *transition
}

// Option configures a Manager.
type Option func(*Manager)

// WithBounds replaces the default bound table.
func WithBounds(b core.Bounds) Option {
	return func(m *Manager) {
		m.bounds = b
	}
}

// WithClock sets the clock transitions are timed against.
func WithClock(c core.Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithTransitionDuration sets how long adaptive transitions take.
func WithTransitionDuration(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.duration = d
		}
	}
}

// New creates a manager starting from initial, clamped into bounds.
func New(initial core.DifficultyParameters, opts ...Option) *Manager {
	m := &Manager{
		bounds:   core.DefaultBounds(),
		clock:    core.SystemClock{},
		duration: DefaultTransitionDuration,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.current = m.bounds.Clamp(initial)
	return m
}

// Bounds returns the bound table in use.
func (m *Manager) Bounds() core.Bounds {
	return m.bounds
}

// TransitionDuration returns the configured transition duration.
func (m *Manager) TransitionDuration() time.Duration {
	return m.duration
}

// ValidateParameters checks every field against its closed-interval bound.
// A zero Level is treated as "derive it" and not checked.
func (m *Manager) ValidateParameters(p core.DifficultyParameters) error {
	check := func(name string, v float64, r core.Range) error {
		if math.IsNaN(v) || !r.Contains(v) {
			return fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrOutOfRange, name, v, r.Min, r.Max)
		}
		return nil
	}

	if p.Level != 0 {
		if err := check("level", float64(p.Level), m.bounds.Level); err != nil {
			return err
		}
	}
	if err := check("speed", p.Speed, m.bounds.Speed); err != nil {
		return err
	}
	if err := check("obstacle_density", p.ObstacleDensity, m.bounds.ObstacleDensity); err != nil {
		return err
	}
	return check("food_spawn_rate", p.FoodSpawnRate, m.bounds.FoodSpawnRate)
}

// ClampParameters clamps each field independently. It is idempotent.
func (m *Manager) ClampParameters(p core.DifficultyParameters) core.DifficultyParameters {
	return m.bounds.Clamp(p)
}

// SetManualDifficulty validates p and, if valid, replaces the current
// parameters immediately. Any in-flight transition is discarded.
// On failure nothing changes.
func (m *Manager) SetManualDifficulty(p core.DifficultyParameters) error {
	if err := m.ValidateParameters(p); err != nil {
		return err
	}
	p.Level = core.ComputeLevel(p, m.bounds)
	m.current = p
	m.transition = nil
	return nil
}

// ApplyDifficultyAdjustment starts a transition from the current parameters
// toward current+delta, clamped into bounds. The adjustment is rejected
// without any change if a field's raw delta is larger than that field's
// whole valid span.
func (m *Manager) ApplyDifficultyAdjustment(d core.DifficultyDelta) error {
	check := func(name string, v float64, r core.Range) error {
		if math.IsNaN(v) || math.Abs(v) > r.Span() {
			return fmt.Errorf("%w: %s delta %v exceeds span %v", ErrUnreasonableDelta, name, v, r.Span())
		}
		return nil
	}
	if err := check("speed", d.Speed, m.bounds.Speed); err != nil {
		return err
	}
	if err := check("obstacle_density", d.ObstacleDensity, m.bounds.ObstacleDensity); err != nil {
		return err
	}
	if err := check("food_spawn_rate", d.FoodSpawnRate, m.bounds.FoodSpawnRate); err != nil {
		return err
	}

	from := m.CurrentDifficulty()
	to := from
	to.Speed += d.Speed
	to.ObstacleDensity += d.ObstacleDensity
	to.FoodSpawnRate += d.FoodSpawnRate
	to = m.bounds.Clamp(to)

	m.transition = &transition{
		from:     from,
		to:       to,
		start:    m.clock.Now(),
		duration: m.duration,
	}
	return nil
}

// CurrentDifficulty returns the live parameters. While transitioning it
// interpolates between snapshot and target by elapsed time; once the
// transition is complete it settles on the target and returns to stable.
func (m *Manager) CurrentDifficulty() core.DifficultyParameters {
	if m.transition == nil {
		return m.current
	}

	frac := m.progress()
	if frac >= 1 {
		m.current = m.transition.to
		m.transition = nil
		return m.current
	}

	m.current = m.interpolate(frac)
	return m.current
}

// progress returns the elapsed fraction of the in-flight transition.
func (m *Manager) progress() float64 {
	t := m.transition
	if t == nil {
		return 1
	}
	if t.duration <= 0 {
		return 1
	}
	elapsed := m.clock.Now().Sub(t.start)
	return core.ClampF(float64(elapsed)/float64(t.duration), 0, 1)
}

// interpolate blends the numeric fields linearly and recomputes the level.
func (m *Manager) interpolate(frac float64) core.DifficultyParameters {
	from, to := m.transition.from, m.transition.to
	lerp := func(a, b float64) float64 {
		return a + (b-a)*frac
	}
	p := to
	p.Speed = lerp(from.Speed, to.Speed)
	p.ObstacleDensity = lerp(from.ObstacleDensity, to.ObstacleDensity)
	p.FoodSpawnRate = lerp(from.FoodSpawnRate, to.FoodSpawnRate)
	p.Level = core.ComputeLevel(p, m.bounds)
	return p
}

// TransitionInProgress reports whether a transition is still running.
// A transition whose duration has elapsed is finalized first.
func (m *Manager) TransitionInProgress() bool {
	m.CurrentDifficulty()
	return m.transition != nil
}

// TransitionProgress returns the elapsed fraction of the running
// transition, or 1 when stable.
func (m *Manager) TransitionProgress() float64 {
	if !m.TransitionInProgress() {
		return 1
	}
	return m.progress()
}

// Target returns the in-flight transition's target, if any.
func (m *Manager) Target() (core.DifficultyParameters, bool) {
	if !m.TransitionInProgress() {
		return core.DifficultyParameters{}, false
	}
	return m.transition.to, true
}

// State returns stable or transitioning.
func (m *Manager) State() State {
	if m.TransitionInProgress() {
		return StateTransitioning
	}
	return StateStable
}

// CancelTransition freezes the parameters at their current interpolated
// values and returns to stable.
func (m *Manager) CancelTransition() {
	m.current = m.CurrentDifficulty()
	m.transition = nil
}

// SetAdaptiveMode toggles the adaptive flag on the live parameters and on
// any in-flight transition.
func (m *Manager) SetAdaptiveMode(enabled bool) {
	m.current.AdaptiveMode = enabled
	if m.transition != nil {
		m.transition.from.AdaptiveMode = enabled
		m.transition.to.AdaptiveMode = enabled
	}
}

// AdaptiveMode reports whether adaptive mode is on.
func (m *Manager) AdaptiveMode() bool {
	return m.current.AdaptiveMode
}
