package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
)

// Board glyphs. Each cell is drawn two columns wide so it looks square.
const (
	glyphHead     = '@'
	glyphBody     = 'o'
	glyphFood     = '*'
	glyphObstacle = '#'
	glyphEmpty    = ' '
	cellWidth     = 2
)

// hudRows is the number of terminal rows used around the board.
const hudRows = 5

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorBlue:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	hudStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hudDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bannerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	adaptiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// ScreenSize returns the buffer size needed to draw a board with its border.
func ScreenSize(boardW, boardH int) (int, int) {
	return boardW*cellWidth + 2, boardH + 2
}

// DrawBoard draws the bordered board for state into s, resizing s if needed.
func DrawBoard(s *core.Screen, state core.GameState) {
	w, h := ScreenSize(state.Width, state.Height)
	if s.Width() != w || s.Height() != h {
		s.Resize(w, h)
	} else {
		s.Clear()
	}

	border := core.ColorBorder
	if state.GameOver {
		border = core.ColorBorderDead
	}
	s.DrawBox(0, 0, w, h, border)

	put := func(p core.Point, r rune, c core.Color) {
		x := 1 + p.X*cellWidth
		s.Set(x, 1+p.Y, r, c)
		s.Set(x+1, 1+p.Y, glyphEmpty, c)
	}
	for _, o := range state.Obstacles {
		put(o.Point, glyphObstacle, core.ColorObstacle)
	}
	for _, f := range state.Food {
		put(f, glyphFood, core.ColorFood)
	}
	for i := len(state.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			put(state.Snake[i], glyphHead, core.ColorSnakeHead)
		} else {
			put(state.Snake[i], glyphBody, core.ColorSnakeBody)
		}
	}
}

// HUD holds the values shown beside the board.
type HUD struct {
	Score       int
	HighScore   int
	Difficulty  core.DifficultyParameters
	State       loop.State
	Transition  bool
	SkillLevel  float64
	Trend       core.Trend
	HasSkill    bool
	Survival    float64
	Collision   core.CollisionType
	LastMessage string
}

// RenderHUD renders the status lines shown above the board.
func RenderHUD(h HUD) string {
	d := h.Difficulty
	mode := hudDimStyle.Render("fixed")
	if d.AdaptiveMode {
		mode = adaptiveStyle.Render("adaptive")
	}
	arrow := ""
	if h.Transition {
		arrow = " ~"
	}

	line1 := fmt.Sprintf("%s  %s  %s",
		hudStyle.Render(fmt.Sprintf("Score %d", h.Score)),
		hudDimStyle.Render(fmt.Sprintf("Best %d", max(h.Score, h.HighScore))),
		hudDimStyle.Render(fmt.Sprintf("Time %.0fs", h.Survival)),
	)
	line2 := fmt.Sprintf("Level %d%s  speed %.1f  obstacles %.1f  food %.2f  %s",
		d.Level, arrow, d.Speed, d.ObstacleDensity, d.FoodSpawnRate, mode)

	skill := "skill --"
	if h.HasSkill {
		skill = fmt.Sprintf("skill %.0f (%s)", h.SkillLevel, h.Trend)
	}
	line3 := hudDimStyle.Render(skill)

	switch h.State {
	case loop.StatePaused:
		line3 += "  " + bannerStyle.Render("PAUSED")
	case loop.StateGameOver:
		line3 += "  " + bannerStyle.Render(fmt.Sprintf("GAME OVER (%s) - r to restart", h.Collision))
	}
	if h.LastMessage != "" {
		line3 += "  " + hudDimStyle.Render(h.LastMessage)
	}
	return strings.Join([]string{line1, line2, line3}, "\n")
}

// FitBoard shrinks a board to fit a terminal of termW x termH. Dimensions
// that already fit, or an unknown terminal size, are left unchanged.
func FitBoard(board core.RuntimeConfig, termW, termH, minSize int) core.RuntimeConfig {
	if termW <= 0 || termH <= 0 {
		return board
	}
	maxW := (termW - 2) / cellWidth
	maxH := termH - 2 - hudRows
	if board.BoardW > maxW {
		board.BoardW = max(maxW, minSize)
	}
	if board.BoardH > maxH {
		board.BoardH = max(maxH, minSize)
	}
	return board
}
