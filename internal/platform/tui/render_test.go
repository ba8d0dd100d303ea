package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
)

func TestScreenSize(t *testing.T) {
	w, h := ScreenSize(20, 15)
	if w != 42 || h != 17 {
		t.Errorf("ScreenSize(20, 15) = (%d, %d), expected (42, 17)", w, h)
	}
}

func TestDrawBoardPlacesGlyphs(t *testing.T) {
	state := core.GameState{
		Width:     4,
		Height:    3,
		Snake:     []core.Point{{X: 1, Y: 1}, {X: 0, Y: 1}},
		Food:      []core.Point{{X: 3, Y: 0}},
		Obstacles: []core.Obstacle{{Point: core.Point{X: 2, Y: 2}}},
	}
	s := core.NewScreen(1, 1)
	DrawBoard(s, state)

	if s.Width() != 10 || s.Height() != 5 {
		t.Fatalf("screen = %dx%d, expected 10x5", s.Width(), s.Height())
	}

	tests := []struct {
		name  string
		x, y  int
		rune  rune
		color core.Color
	}{
		{"head", 3, 2, glyphHead, core.ColorBrightGreen},
		{"body", 1, 2, glyphBody, core.ColorGreen},
		{"food", 7, 1, glyphFood, core.ColorRed},
		{"obstacle", 5, 3, glyphObstacle, core.ColorGray},
		{"empty", 1, 1, glyphEmpty, core.ColorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := s.GetCell(tt.x, tt.y)
			if c.Rune != tt.rune || c.Color != tt.color {
				t.Errorf("GetCell(%d, %d) = (%q, %v), expected (%q, %v)",
					tt.x, tt.y, c.Rune, c.Color, tt.rune, tt.color)
			}
		})
	}

	if c := s.GetCell(0, 0); c.Color != core.ColorBlue {
		t.Errorf("border color = %v, expected blue", c.Color)
	}
}

func TestDrawBoardGameOverBorder(t *testing.T) {
	state := core.GameState{Width: 3, Height: 3, GameOver: true}
	s := core.NewScreen(ScreenSize(3, 3))
	DrawBoard(s, state)

	if c := s.GetCell(0, 0); c.Color != core.ColorRed {
		t.Errorf("border color = %v, expected red", c.Color)
	}
}

func TestFitBoard(t *testing.T) {
	tests := []struct {
		name         string
		board        core.RuntimeConfig
		termW, termH int
		wantW, wantH int
	}{
		{"fits", core.RuntimeConfig{BoardW: 20, BoardH: 20}, 200, 100, 20, 20},
		{"unknown terminal", core.RuntimeConfig{BoardW: 40, BoardH: 30}, 0, 0, 40, 30},
		{"shrinks", core.RuntimeConfig{BoardW: 40, BoardH: 30}, 60, 20, 29, 13},
		{"minimum", core.RuntimeConfig{BoardW: 40, BoardH: 30}, 10, 10, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitBoard(tt.board, tt.termW, tt.termH, 8)
			if got.BoardW != tt.wantW || got.BoardH != tt.wantH {
				t.Errorf("FitBoard() = %dx%d, expected %dx%d", got.BoardW, got.BoardH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderHUD(t *testing.T) {
	base := HUD{
		Score:      30,
		HighScore:  120,
		Difficulty: core.DifficultyParameters{Level: 4, Speed: 5, ObstacleDensity: 1, FoodSpawnRate: 1, AdaptiveMode: true},
		State:      loop.StateRunning,
	}

	tests := []struct {
		name    string
		mutate  func(h *HUD)
		want    []string
		notWant []string
	}{
		{
			name:    "running",
			mutate:  func(h *HUD) {},
			want:    []string{"Score 30", "Best 120", "Level 4", "adaptive", "skill --"},
			notWant: []string{"PAUSED", "GAME OVER"},
		},
		{
			name:   "paused",
			mutate: func(h *HUD) { h.State = loop.StatePaused },
			want:   []string{"PAUSED"},
		},
		{
			name: "game over",
			mutate: func(h *HUD) {
				h.State = loop.StateGameOver
				h.Collision = core.CollisionBoundary
			},
			want: []string{"GAME OVER", "boundary"},
		},
		{
			name: "skill and fixed mode",
			mutate: func(h *HUD) {
				h.Difficulty.AdaptiveMode = false
				h.SkillLevel, h.Trend, h.HasSkill = 62, core.TrendImproving, true
			},
			want: []string{"skill 62", "fixed"},
		},
		{
			name:   "beats best",
			mutate: func(h *HUD) { h.Score = 200 },
			want:   []string{"Best 200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base
			tt.mutate(&h)
			out := RenderHUD(h)
			if n := strings.Count(out, "\n"); n != 2 {
				t.Errorf("RenderHUD() has %d newlines, expected 2", n)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("RenderHUD() = %q, expected to contain %q", out, s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("RenderHUD() = %q, should not contain %q", out, s)
				}
			}
		})
	}
}
