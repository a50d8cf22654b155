package core

// Action is a semantic player intent, decoupled from physical keys.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // Move the cursor up
	ActionDown            // Move the cursor down
	ActionBuy             // Buy one level of the selected track
	ActionBuyMax          // Buy as many levels of the selected track as affordable
	ActionBuyAll          // Buy max on every track, most expensive first
	ActionNotation        // Cycle number notation
	ActionPause           // Toggle production
	ActionConfirm         // Enter in menus
	ActionBack            // Leave the game for the menu
	ActionQuit            // Exit the session
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
	case ActionBuy:
		return "Buy"
	case ActionBuyMax:
		return "BuyMax"
	case ActionBuyAll:
		return "BuyAll"
	case ActionNotation:
		return "Notation"
	case ActionPause:
		return "Pause"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether a was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
