package core

// Action represents a semantic game action, abstracted from physical key presses.
// Input collaborators (keyboard, SSH, WebSocket) translate their events into
// actions; games never see raw keys.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow
	ActionDown           // S, J, Down arrow
	ActionLeft           // A, H, Left arrow
	ActionRight          // D, L, Right arrow
	ActionRestart        // R - restart after game over
	ActionBack           // B, Esc - back to menu
	ActionQuit           // Q, Ctrl+C
	ActionConfirm        // Enter
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
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	case ActionConfirm:
		return "Confirm"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether the action requests a movement direction.
func (a Action) IsDirection() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}
