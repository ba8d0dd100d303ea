package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
	"github.com/vovakirdan/adaptive-snake/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store) (Model, *loop.GameLoop, *core.ManualClock) {
	t.Helper()
	cfg := loop.DefaultConfig()
	cfg.Board = core.RuntimeConfig{BoardW: 20, BoardH: 20, Seed: 7}
	cfg.Initial = core.DifficultyParameters{Speed: 5, ObstacleDensity: 0, FoodSpawnRate: 1, AdaptiveMode: true}

	clock := core.NewManualClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	l := loop.New(cfg, loop.WithClock(clock))
	m := NewModel(l, store, "tester")
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init() should return a tick command")
	}
	return m, l, clock
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm, cmd
}

func TestModelInitStartsGame(t *testing.T) {
	_, l, _ := newTestModel(t, nil)
	if l.State() != loop.StateRunning {
		t.Errorf("State() = %v, expected running", l.State())
	}
}

func TestModelPauseKey(t *testing.T) {
	m, l, _ := newTestModel(t, nil)

	m, _ = send(t, m, runeKey("p"))
	if l.State() != loop.StatePaused {
		t.Fatalf("State() = %v, expected paused", l.State())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("View() should show the pause banner")
	}

	send(t, m, runeKey("p"))
	if l.State() != loop.StateRunning {
		t.Errorf("State() = %v, expected running", l.State())
	}
}

func TestModelDirectionKeySteers(t *testing.T) {
	m, l, clock := newTestModel(t, nil)
	start := l.GameState().Head()

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	clock.Advance(l.TickPeriod())
	send(t, m, TickMsg(clock.Now()))

	want := core.Point{X: start.X, Y: start.Y + 1}
	if got := l.GameState().Head(); got != want {
		t.Errorf("Head() = %v, expected %v", got, want)
	}
}

func TestModelSpeedKeys(t *testing.T) {
	m, l, _ := newTestModel(t, nil)

	m, _ = send(t, m, runeKey("+"))
	if got := l.CurrentDifficulty().Speed; got != 6 {
		t.Errorf("Speed after harder = %v, expected 6", got)
	}
	if m.message != "speed 6.0" {
		t.Errorf("message = %q, expected %q", m.message, "speed 6.0")
	}

	send(t, m, runeKey("-"))
	if got := l.CurrentDifficulty().Speed; got != 5 {
		t.Errorf("Speed after easier = %v, expected 5", got)
	}
}

func TestModelToggleAdaptive(t *testing.T) {
	m, l, _ := newTestModel(t, nil)

	m, _ = send(t, m, runeKey("t"))
	if l.AdaptiveMode() {
		t.Error("AdaptiveMode() should be off after toggle")
	}
	if m.message != "adaptive mode off" {
		t.Errorf("message = %q, expected %q", m.message, "adaptive mode off")
	}
}

func TestModelQuit(t *testing.T) {
	m, _, _ := newTestModel(t, nil)

	m, cmd := send(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelSavesFinishedSessionOnce(t *testing.T) {
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	m, l, clock := newTestModel(t, store)

	for range 30 {
		clock.Advance(l.TickPeriod())
		m, _ = send(t, m, TickMsg(clock.Now()))
		if l.State() == loop.StateGameOver {
			break
		}
	}
	if l.State() != loop.StateGameOver {
		t.Fatalf("State() = %v, expected game over", l.State())
	}
	if !m.saved {
		t.Fatal("finished session should be saved")
	}

	// Further polls must not store the session again.
	for range 3 {
		clock.Advance(l.TickPeriod())
		m, _ = send(t, m, TickMsg(clock.Now()))
	}

	records, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, expected 1", len(records))
	}
	if records[0].Player != "tester" || records[0].SessionID != l.SessionID() {
		t.Errorf("record = %+v, expected player tester and session %s", records[0], l.SessionID())
	}
	if m.SaveErr() != nil {
		t.Errorf("SaveErr() = %v, expected nil", m.SaveErr())
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("View() should show the game over banner")
	}

	m, _ = send(t, m, runeKey("r"))
	if m.saved || l.State() != loop.StateRunning {
		t.Errorf("restart: saved = %v, state = %v, expected false and running", m.saved, l.State())
	}
}
