package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionLaneLeft         // Left arrow, D - first lane
	ActionLaneDown         // Down arrow, F - second lane
	ActionLaneUp           // Up arrow, J - third lane
	ActionLaneRight        // Right arrow, K - fourth lane
	ActionBack             // B, Escape - go back to menu
	ActionQuit             // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLaneLeft:
		return "LaneLeft"
	case ActionLaneDown:
		return "LaneDown"
	case ActionLaneUp:
		return "LaneUp"
	case ActionLaneRight:
		return "LaneRight"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Lane returns the zero-based lane index for lane actions.
func (a Action) Lane() (int, bool) {
	switch a {
	case ActionLaneLeft:
		return 0, true
	case ActionLaneDown:
		return 1, true
	case ActionLaneUp:
		return 2, true
	case ActionLaneRight:
		return 3, true
	default:
		return -1, false
	}
}

// InputFrame collects the non-lane actions seen during one frame.
// Lane presses bypass frames and reach the game immediately through Game.Press.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
