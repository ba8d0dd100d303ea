// Package tui provides the Bubble Tea driver for the adaptive snake game:
// the play model, key bindings, board rendering, the scoreboard and an SSH
// host that runs one independent game per connection.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// minPoll is the shortest interval between driver polls.
const minPoll = 10 * time.Millisecond

// TickMsg is sent to trigger a game loop poll.
type TickMsg time.Time

// tickCmd returns a command that polls the loop at a fraction of its tick
// period. The loop ignores polls that arrive before a step is due.
func tickCmd(period time.Duration) tea.Cmd {
	interval := max(period/4, minPoll)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
