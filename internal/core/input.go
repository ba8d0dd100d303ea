package core

// Action represents a semantic player command, abstracted from physical key presses.
type Action int

const (
	ActionNone           Action = iota
	ActionUp                    // W, Up arrow
	ActionDown                  // S, Down arrow
	ActionLeft                  // A, Left arrow
	ActionRight                 // D, Right arrow
	ActionPause                 // P, Space - pause/resume
	ActionRestart               // R - start a new game
	ActionToggleAdaptive        // T - toggle adaptive mode
	ActionHarder                // + - manual difficulty up
	ActionEasier                // - - manual difficulty down
	ActionQuit                  // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionToggleAdaptive:
		return "ToggleAdaptive"
	case ActionHarder:
		return "Harder"
	case ActionEasier:
		return "Easier"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the heading a movement action requests, or DirNone.
func (a Action) Direction() Direction {
	switch a {
	case ActionUp:
		return DirUp
	case ActionDown:
		return DirDown
	case ActionLeft:
		return DirLeft
	case ActionRight:
		return DirRight
	default:
		return DirNone
	}
}
