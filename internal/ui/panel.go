package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders "[███░░] done/total pct%".
func ProgressBar(done, total, width int) string {
	if width < 5 {
		width = 5
	}
	pct := 0
	filled := 0
	if total > 0 {
		filled = done * width / total
		pct = done * 100 / total
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %d/%d %3d%%", bar, done, total, pct)
}

// Panel frames lines in a rounded box using the current theme.
func Panel(lines []string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.Border).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
