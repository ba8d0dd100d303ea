package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(&bytes.Buffer{}, "snake", "loud"); err == nil {
		t.Error("NewLogger() with unknown level should fail")
	}
	if _, err := NewLogger(&bytes.Buffer{}, "snake", "debug"); err != nil {
		t.Errorf("NewLogger() error = %v", err)
	}
}

func TestLogListenerLogsScoreChangesOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	ln := NewLogListener(logger)

	state := core.GameState{Snake: []core.Point{{X: 1, Y: 1}}}
	ln.OnStateChanged(state)
	if buf.Len() != 0 {
		t.Errorf("unchanged score logged %q", buf.String())
	}

	state.Score = 10
	ln.OnStateChanged(state)
	ln.OnStateChanged(state)
	if n := strings.Count(buf.String(), "food eaten"); n != 1 {
		t.Errorf("food eaten logged %d times, expected 1", n)
	}
}

func TestLogListenerEvents(t *testing.T) {
	var buf bytes.Buffer
	ln := NewLogListener(log.New(&buf))

	ln.OnDifficultyChanged(loop.DifficultyChange{
		Reason: "skill rising",
		Params: core.DifficultyParameters{Level: 6, Speed: 6.5, ObstacleDensity: 2, FoodSpawnRate: 0.9},
	})
	ln.OnGameOver(loop.GameOver{
		State: core.GameState{Score: 40, Collision: core.CollisionResult{Type: core.CollisionSelf}},
	})

	out := buf.String()
	for _, want := range []string{"difficulty changed", "6.50", "game over", "self"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output = %q, expected to contain %q", out, want)
		}
	}
}

func TestPanicLogger(t *testing.T) {
	var buf bytes.Buffer
	handle := PanicLogger(log.New(&buf))
	handle(&loop.ListenerPanic{Event: "state_changed", Value: "boom"})

	if !strings.Contains(buf.String(), "listener panicked") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("log output = %q, expected panic entry", buf.String())
	}
}
