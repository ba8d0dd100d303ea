package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
)

// NewLogger creates a timestamped logger writing to w at the named level.
func NewLogger(w io.Writer, prefix, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("tui: invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           lvl,
	}), nil
}

// LogListener logs loop notifications. State changes are logged only when
// the score moves, so a running game does not flood the log.
type LogListener struct {
	logger    *log.Logger
	lastScore int
}

// NewLogListener creates a listener logging to logger.
func NewLogListener(logger *log.Logger) *LogListener {
	return &LogListener{logger: logger}
}

func (l *LogListener) OnStateChanged(state core.GameState) {
	if state.Score == l.lastScore {
		return
	}
	if state.Score < l.lastScore {
		l.lastScore = state.Score
		return
	}
	l.lastScore = state.Score
	l.logger.Debug("food eaten",
		"score", state.Score,
		"length", len(state.Snake),
		"head", state.Head().String(),
	)
}

func (l *LogListener) OnDifficultyChanged(change loop.DifficultyChange) {
	p := change.Params
	l.logger.Info("difficulty changed",
		"reason", change.Reason,
		"manual", change.Manual,
		"level", p.Level,
		"speed", fmt.Sprintf("%.2f", p.Speed),
		"obstacles", fmt.Sprintf("%.2f", p.ObstacleDensity),
		"food_rate", fmt.Sprintf("%.2f", p.FoodSpawnRate),
	)
}

func (l *LogListener) OnGameOver(over loop.GameOver) {
	l.lastScore = 0
	l.logger.Info("game over",
		"score", over.State.Score,
		"collision", over.State.Collision.Type.String(),
		"survival", fmt.Sprintf("%.1fs", over.Metrics.SurvivalTime),
		"food", over.Metrics.FoodConsumed,
		"avoided", over.Metrics.CollisionsAvoided,
	)
}

// PanicLogger returns a loop panic handler that logs the panic and lets
// the game continue.
func PanicLogger(logger *log.Logger) loop.PanicHandler {
	return func(p *loop.ListenerPanic) {
		logger.Error("listener panicked", "event", p.Event, "value", fmt.Sprint(p.Value))
	}
}
