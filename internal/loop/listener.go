package loop

import (
	"fmt"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

// DifficultyChange is delivered when the loop changes the live difficulty.
type DifficultyChange struct {
	Reason string
	Params core.DifficultyParameters
	Manual bool // Set by SetManualDifficulty rather than the adaptation step
}

// GameOver is delivered once when a collision ends the session.
type GameOver struct {
	State   core.GameState
	Metrics core.PerformanceMetrics
}

// Listener receives loop notifications. Callbacks run synchronously inside
// Update on the caller's goroutine and must not call back into the loop.
type Listener interface {
	OnStateChanged(state core.GameState)
	OnDifficultyChanged(change DifficultyChange)
	OnGameOver(over GameOver)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	StateChanged      func(core.GameState)
	DifficultyChanged func(DifficultyChange)
	Over              func(GameOver)
}

func (f ListenerFuncs) OnStateChanged(state core.GameState) {
	if f.StateChanged != nil {
		f.StateChanged(state)
	}
}

func (f ListenerFuncs) OnDifficultyChanged(change DifficultyChange) {
	if f.DifficultyChanged != nil {
		f.DifficultyChanged(change)
	}
}

func (f ListenerFuncs) OnGameOver(over GameOver) {
	if f.Over != nil {
		f.Over(over)
	}
}

// ListenerPanic wraps a value recovered from a panicking listener.
type ListenerPanic struct {
	Event string // "state_changed", "difficulty_changed" or "game_over"
	Value any
}

func (p *ListenerPanic) Error() string {
	return fmt.Sprintf("loop: listener panicked during %s: %v", p.Event, p.Value)
}

// PanicHandler is invoked with a recovered listener panic.
type PanicHandler func(*ListenerPanic)

// rePanic is the default handler: the panic reaches the driver.
func rePanic(p *ListenerPanic) {
	panic(p)
}

// dispatch calls fn for every listener inside a recover boundary.
func (l *GameLoop) dispatch(event string, fn func(Listener)) {
	for _, ln := range l.listeners {
		l.safeCall(event, ln, fn)
	}
}

func (l *GameLoop) safeCall(event string, ln Listener, fn func(Listener)) {
	defer func() {
		if r := recover(); r != nil {
			l.onPanic(&ListenerPanic{Event: event, Value: r})
		}
	}()
	fn(ln)
}
