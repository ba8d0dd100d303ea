package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
	"github.com/vovakirdan/adaptive-snake/internal/storage"
)

// Model is the Bubble Tea model driving one GameLoop.
type Model struct {
	loop      *loop.GameLoop
	store     *storage.Store
	player    string
	screen    *core.Screen
	keys      KeyMap
	help      help.Model
	highScore int
	message   string
	quitting  bool
	saved     bool // Whether the current game over has been saved
	saveErr   error
}

// NewModel creates a play model for l. store may be nil.
func NewModel(l *loop.GameLoop, store *storage.Store, player string) Model {
	if player == "" {
		player = "local"
	}
	h := help.New()
	h.ShowAll = false

	m := Model{
		loop:   l,
		store:  store,
		player: player,
		screen: core.NewScreen(ScreenSize(l.Config().Board.BoardW, l.Config().Board.BoardH)),
		keys:   DefaultKeyMap(),
		help:   h,
	}
	if store != nil {
		if high, err := store.HighScore(); err == nil {
			m.highScore = high
		}
	}
	return m
}

// Init starts the first session and the poll loop.
func (m Model) Init() tea.Cmd {
	m.loop.StartGame()
	return tickCmd(m.loop.TickPeriod())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if msg.String() == "ctrl+s" {
			m.saveScreenshot()
			return m, nil
		}
		return m.handleAction(m.keys.Action(msg))

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleAction applies one player action to the loop.
func (m Model) handleAction(a core.Action) (tea.Model, tea.Cmd) {
	switch a {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		m.loop.QueueInput(a.Direction())
	case core.ActionPause:
		m.loop.TogglePause()
	case core.ActionRestart:
		m.loop.StartGame()
		m.saved = false
		m.message = ""
	case core.ActionToggleAdaptive:
		if m.loop.ToggleAdaptiveMode() {
			m.message = "adaptive mode on"
		} else {
			m.message = "adaptive mode off"
		}
	case core.ActionHarder, core.ActionEasier:
		step := 1.0
		if a == core.ActionEasier {
			step = -1
		}
		if err := m.loop.NudgeSpeed(step); err != nil {
			m.message = err.Error()
		} else {
			m.message = fmt.Sprintf("speed %.1f", m.loop.CurrentDifficulty().Speed)
		}
	}
	return m, nil
}

// handleTick polls the loop and saves a finished session once.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.loop.Update() && !m.saved {
		m.saved = true
		if score := m.loop.GameState().Score; score > m.highScore {
			m.highScore = score
		}
		if m.store != nil {
			if _, err := m.store.SaveFinished(m.loop, m.player); err != nil {
				m.saveErr = err
				m.message = "could not save session"
			}
		}
	}
	return m, tickCmd(m.loop.TickPeriod())
}

// hud collects the values for the status lines.
func (m Model) hud() HUD {
	state := m.loop.GameState()
	h := HUD{
		Score:       state.Score,
		HighScore:   m.highScore,
		Difficulty:  m.loop.CurrentDifficulty(),
		State:       m.loop.State(),
		Transition:  m.loop.Transitioning(),
		Survival:    m.loop.Metrics().SurvivalTime,
		Collision:   state.Collision.Type,
		LastMessage: m.message,
	}
	if a, ok := m.loop.AdaptationEngine().LastAssessment(); ok {
		h.SkillLevel, h.Trend, h.HasSkill = a.SkillLevel, a.Trend, true
	}
	return h
}

// saveScreenshot saves the current board to a file.
func (m *Model) saveScreenshot() {
	DrawBoard(m.screen, m.loop.GameState())

	dir := filepath.Join(os.Getenv("HOME"), ".snake", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("snake_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawBoard(m.screen, m.loop.GameState())
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderHUD(m.hud()),
		RenderScreen(m.screen),
		hudDimStyle.Render(m.help.View(m.keys)),
	)
}

// SaveErr returns the last error from saving a session, if any.
func (m Model) SaveErr() error {
	return m.saveErr
}

// Run starts the Bubble Tea program for l.
func Run(l *loop.GameLoop, store *storage.Store, player string) error {
	p := tea.NewProgram(
		NewModel(l, store, player),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
