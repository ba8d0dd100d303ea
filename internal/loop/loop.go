// Package loop orchestrates one adaptive snake session. The GameLoop holds
// the engine, metrics collector, adaptation engine and difficulty manager
// and routes every mutation through the owning component. It never sleeps:
// the driver calls Update as often as it likes and the loop self-throttles
// against its clock.
package loop

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/adaptive-snake/internal/adaptation"
	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/difficulty"
	"github.com/vovakirdan/adaptive-snake/internal/games/snake"
	"github.com/vovakirdan/adaptive-snake/internal/metrics"
)

const (
	// DefaultTickRate is the number of simulation steps per second at default speed.
	DefaultTickRate = 10
	// DefaultAdaptationInterval is the wall-clock time between adaptation checks.
	DefaultAdaptationInterval = 5 * time.Second
	// DefaultHistoryLimit caps the adaptation logs in long-running processes.
	DefaultHistoryLimit = 500
)

// State is the loop's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Config holds the loop's constructor parameters.
type Config struct {
	Board              core.RuntimeConfig
	TickRate           int
	AdaptationInterval time.Duration
	TransitionDuration time.Duration
	Bounds             core.Bounds
	Initial            core.DifficultyParameters

	// SpeedScaling shortens the tick period as speed rises above
	// core.DefaultSpeed and lengthens it below.
	SpeedScaling bool
	// HistoryLimit caps the assessment and decision logs (0 = unbounded).
	HistoryLimit int
	// ResetCancelsTransition makes StartGame freeze any in-flight transition.
	ResetCancelsTransition bool
}

// DefaultConfig returns the stock loop configuration.
func DefaultConfig() Config {
	return Config{
		Board:              core.DefaultConfig(),
		TickRate:           DefaultTickRate,
		AdaptationInterval: DefaultAdaptationInterval,
		TransitionDuration: difficulty.DefaultTransitionDuration,
		Bounds:             core.DefaultBounds(),
		Initial:            core.DefaultParameters(),
		HistoryLimit:       DefaultHistoryLimit,
	}
}

// Option configures a GameLoop.
type Option func(*GameLoop)

// WithClock sets the clock shared by every component of the loop.
func WithClock(c core.Clock) Option {
	return func(l *GameLoop) {
		l.clock = c
	}
}

// WithListener subscribes ln to loop notifications. It may be given more than once.
func WithListener(ln Listener) Option {
	return func(l *GameLoop) {
		if ln != nil {
			l.listeners = append(l.listeners, ln)
		}
	}
}

// WithPanicHandler installs a handler for panicking listeners. Without
// one the recovered panic is re-raised as a *ListenerPanic.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *GameLoop) {
		if h != nil {
			l.onPanic = h
		}
	}
}

// GameLoop drives the tick cycle, the single-slot input queue and the
// adaptation cadence. It is not safe for concurrent use.
type GameLoop struct {
	cfg   Config
	clock core.Clock

	engine     *snake.Engine
	collector  *metrics.Collector
	adaptation *adaptation.Engine
	difficulty *difficulty.Manager

	listeners []Listener
	onPanic   PanicHandler

	state State

	pending    core.Direction
	hasPending bool

	lastTick       time.Time
	lastAdaptation time.Time
	pausedAt       time.Time
	ticks          uint64

	sessionID string
	startedAt time.Time
	endedAt   time.Time
}

// New wires up a loop in the IDLE state.
func New(cfg Config, opts ...Option) *GameLoop {
	def := DefaultConfig()
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.AdaptationInterval <= 0 {
		cfg.AdaptationInterval = def.AdaptationInterval
	}
	if cfg.TransitionDuration < 0 {
		cfg.TransitionDuration = def.TransitionDuration
	}
	if cfg.Bounds == (core.Bounds{}) {
		cfg.Bounds = def.Bounds
	}
	if cfg.Initial == (core.DifficultyParameters{}) {
		cfg.Initial = def.Initial
	}

	l := &GameLoop{
		cfg:     cfg,
		clock:   core.SystemClock{},
		onPanic: rePanic,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.difficulty = difficulty.New(cfg.Initial,
		difficulty.WithBounds(cfg.Bounds),
		difficulty.WithClock(l.clock),
		difficulty.WithTransitionDuration(cfg.TransitionDuration),
	)
	l.adaptation = adaptation.New(
		adaptation.WithClock(l.clock),
		adaptation.WithHistoryLimit(cfg.HistoryLimit),
	)
	l.collector = metrics.NewCollector(l.clock)
	l.engine = snake.New(cfg.Board, l.difficulty.CurrentDifficulty(), snake.WithClock(l.clock))
	return l
}

// StartGame resets the engine and metrics and enters RUNNING. It is valid
// from any state. An in-flight difficulty transition keeps running unless
// Config.ResetCancelsTransition is set.
func (l *GameLoop) StartGame() {
	if l.cfg.ResetCancelsTransition {
		l.difficulty.CancelTransition()
	}

	l.engine.SetDifficulty(l.difficulty.CurrentDifficulty())
	l.engine.Reset()
	l.collector.StartSession()

	now := l.clock.Now()
	l.pending, l.hasPending = core.DirNone, false
	l.lastTick = now
	l.lastAdaptation = now
	l.pausedAt = time.Time{}
	l.ticks = 0
	l.sessionID = uuid.NewString()
	l.startedAt = now
	l.endedAt = time.Time{}
	l.state = StateRunning
}

// PauseGame freezes the tick clock and survival-time accounting.
func (l *GameLoop) PauseGame() {
	if l.state != StateRunning {
		return
	}
	l.pausedAt = l.clock.Now()
	l.collector.PauseSession()
	l.state = StatePaused
}

// ResumeGame unfreezes a paused session. The paused interval is excluded
// from both the tick period and the adaptation interval.
func (l *GameLoop) ResumeGame() {
	if l.state != StatePaused {
		return
	}
	gap := l.clock.Now().Sub(l.pausedAt)
	l.lastTick = l.lastTick.Add(gap)
	l.lastAdaptation = l.lastAdaptation.Add(gap)
	l.pausedAt = time.Time{}
	l.collector.ResumeSession()
	l.state = StateRunning
}

// TogglePause pauses a running session or resumes a paused one.
func (l *GameLoop) TogglePause() {
	switch l.state {
	case StateRunning:
		l.PauseGame()
	case StatePaused:
		l.ResumeGame()
	}
}

// QueueInput stores dir for the next eligible tick, replacing any
// unconsumed direction. Each call counts as one input event for
// reaction-time measurement.
func (l *GameLoop) QueueInput(dir core.Direction) {
	if dir == core.DirNone || l.state != StateRunning {
		return
	}
	l.pending, l.hasPending = dir, true
	l.collector.RecordInput()
}

// TickPeriod is the minimum wall-clock time between simulation steps.
func (l *GameLoop) TickPeriod() time.Duration {
	period := time.Second / time.Duration(l.cfg.TickRate)
	if !l.cfg.SpeedScaling {
		return period
	}
	speed := l.difficulty.CurrentDifficulty().Speed
	if speed <= 0 {
		return period
	}
	return time.Duration(float64(period) * core.DefaultSpeed / speed)
}

// Update runs at most one simulation step. It returns false once the
// session is over and true otherwise, including when it was too early to
// step or the loop is idle or paused.
func (l *GameLoop) Update() bool {
	switch l.state {
	case StateGameOver:
		return false
	case StateRunning:
	default:
		return true
	}

	now := l.clock.Now()
	if now.Sub(l.lastTick) < l.TickPeriod() {
		return true
	}
	l.lastTick = now
	l.ticks++

	if l.difficulty.TransitionInProgress() {
		l.engine.SetDifficulty(l.difficulty.CurrentDifficulty())
	}

	dir := core.DirNone
	if l.hasPending {
		dir = l.pending
		l.pending, l.hasPending = core.DirNone, false
	}

	before := l.engine.Score()
	res := l.engine.Update(dir)
	for range (res.State.Score - before) / snake.PointsPerFood {
		l.collector.RecordFoodConsumption()
	}

	if res.Collision.Collided() {
		l.collector.EndSession()
		l.endedAt = now
		l.state = StateGameOver
		over := GameOver{State: res.State, Metrics: l.collector.Metrics()}
		l.dispatch("game_over", func(ln Listener) { ln.OnGameOver(over) })
		return false
	}

	l.collector.RecordMovement(1)
	if res.NearMiss {
		l.collector.RecordCollisionAvoided()
	}

	l.dispatch("state_changed", func(ln Listener) { ln.OnStateChanged(res.State) })

	if l.difficulty.AdaptiveMode() && now.Sub(l.lastAdaptation) >= l.cfg.AdaptationInterval {
		l.lastAdaptation = now
		l.adapt()
	}
	return true
}

// adapt runs one assessment and applies the resulting adjustment.
func (l *GameLoop) adapt() {
	m := l.collector.Metrics()
	a := l.adaptation.AssessPlayerSkill(m)
	delta := l.adaptation.CalculateDifficultyAdjustment(a)

	rationale := fmt.Sprintf("skill %.1f (%s, confidence %.2f): %s", a.SkillLevel, a.Trend, a.Confidence, delta.Reason)
	if err := l.difficulty.ApplyDifficultyAdjustment(delta); err != nil {
		rationale = fmt.Sprintf("%s; rejected: %v", rationale, err)
		l.adaptation.RecordAdaptationDecision(m, a, delta, rationale)
		return
	}
	l.adaptation.RecordAdaptationDecision(m, a, delta, rationale)

	params := l.difficulty.CurrentDifficulty()
	l.engine.SetDifficulty(params)
	change := DifficultyChange{Reason: delta.Reason, Params: params}
	l.dispatch("difficulty_changed", func(ln Listener) { ln.OnDifficultyChanged(change) })
}

// SetManualDifficulty replaces the difficulty immediately and pushes it
// into the engine. On a validation error nothing changes.
func (l *GameLoop) SetManualDifficulty(p core.DifficultyParameters) error {
	if err := l.difficulty.SetManualDifficulty(p); err != nil {
		return fmt.Errorf("loop: set manual difficulty: %w", err)
	}
	params := l.difficulty.CurrentDifficulty()
	l.engine.SetDifficulty(params)
	change := DifficultyChange{Reason: "manual", Params: params, Manual: true}
	l.dispatch("difficulty_changed", func(ln Listener) { ln.OnDifficultyChanged(change) })
	return nil
}

// NudgeSpeed raises or lowers the speed by step, clamped into bounds,
// as a manual change.
func (l *GameLoop) NudgeSpeed(step float64) error {
	p := l.difficulty.CurrentDifficulty()
	p.Speed = l.cfg.Bounds.Speed.Clamp(p.Speed + step)
	return l.SetManualDifficulty(p)
}

// EnableAdaptiveMode lets the adaptation step change difficulty.
func (l *GameLoop) EnableAdaptiveMode() {
	l.setAdaptive(true)
}

// DisableAdaptiveMode freezes difficulty at its current value except for
// manual changes. A transition already in flight still completes.
func (l *GameLoop) DisableAdaptiveMode() {
	l.setAdaptive(false)
}

// ToggleAdaptiveMode flips adaptive mode and returns the new setting.
func (l *GameLoop) ToggleAdaptiveMode() bool {
	l.setAdaptive(!l.difficulty.AdaptiveMode())
	return l.difficulty.AdaptiveMode()
}

func (l *GameLoop) setAdaptive(enabled bool) {
	if enabled && !l.difficulty.AdaptiveMode() {
		l.lastAdaptation = l.clock.Now()
	}
	l.difficulty.SetAdaptiveMode(enabled)
	l.engine.SetDifficulty(l.difficulty.CurrentDifficulty())
}

// AdaptiveMode reports whether adaptive mode is on.
func (l *GameLoop) AdaptiveMode() bool {
	return l.difficulty.AdaptiveMode()
}

// GameState returns a copy of the engine state.
func (l *GameLoop) GameState() core.GameState {
	return l.engine.State()
}

// CurrentDifficulty returns the live, possibly interpolated, parameters.
func (l *GameLoop) CurrentDifficulty() core.DifficultyParameters {
	return l.difficulty.CurrentDifficulty()
}

// Transitioning reports whether a difficulty transition is in flight.
func (l *GameLoop) Transitioning() bool {
	return l.difficulty.TransitionInProgress()
}

// Metrics returns a snapshot of the session metrics.
func (l *GameLoop) Metrics() core.PerformanceMetrics {
	return l.collector.Metrics()
}

// State returns the lifecycle state.
func (l *GameLoop) State() State {
	return l.state
}

// Ticks returns the number of simulation steps taken this session.
func (l *GameLoop) Ticks() uint64 {
	return l.ticks
}

// SessionID returns the identifier of the current session, empty before
// the first StartGame.
func (l *GameLoop) SessionID() string {
	return l.sessionID
}

// Config returns the loop's effective configuration.
func (l *GameLoop) Config() Config {
	return l.cfg
}

// AdaptationEngine exposes the adaptation engine for reading its
// assessment history and decision log.
func (l *GameLoop) AdaptationEngine() *adaptation.Engine {
	return l.adaptation
}

// Repair validates the engine state and repairs it in place, returning
// any violations found.
func (l *GameLoop) Repair() []snake.Violation {
	return l.engine.Repair()
}
