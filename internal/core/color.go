package core

// Color is a semantic foreground color for a screen cell.
// The platform layer decides how each role looks on the terminal.
type Color uint8

const (
	ColorDefault   Color = iota
	ColorTitle           // Headers and the currency line
	ColorSelected        // Cursor row
	ColorAffordable      // Next level can be bought
	ColorLocked          // Next level is out of reach
	ColorMilestone       // Breakthrough notices and multipliers
	ColorIncome          // Production figures
	ColorMuted           // Help text, borders
	ColorWarning         // Pause banner, errors
)

// String returns the role name, used in screenshots and tests.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorTitle:
		return "title"
	case ColorSelected:
		return "selected"
	case ColorAffordable:
		return "affordable"
	case ColorLocked:
		return "locked"
	case ColorMilestone:
		return "milestone"
	case ColorIncome:
		return "income"
	case ColorMuted:
		return "muted"
	case ColorWarning:
		return "warning"
	default:
		return "unknown"
	}
}
