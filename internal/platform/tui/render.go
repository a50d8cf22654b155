package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-idle/internal/core"
)

// colorStyles maps semantic core colors to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorTitle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
	core.ColorSelected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
	core.ColorAffordable: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorLocked:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorMilestone:  lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	core.ColorIncome:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorMuted:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorWarning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
}

// Shared styles for the menu and records screens.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
