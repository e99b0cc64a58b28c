package core

// Action represents a semantic player intent, abstracted from physical key
// presses so engines never see raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionTap             // 1-9, 0 - tap a board position
	ActionPrimary         // Space, Enter - start / confirm clear / dismiss
	ActionDuration        // D - cycle round duration while idle
	ActionBack            // B, Escape - back to menu
	ActionQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTap:
		return "Tap"
	case ActionPrimary:
		return "Primary"
	case ActionDuration:
		return "Duration"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Input is one decoded key press. Position is only meaningful for ActionTap.
type Input struct {
	Action   Action
	Position Position
}
