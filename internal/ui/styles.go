package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("240")
	colorSuccess = lipgloss.Color("34")
)

var (
	dangerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 2)

	dangerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorError)

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarning)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)
)

// dropBanner renders the box shown before the drop phase runs.
func dropBanner(title, dbName string, tables []string) string {
	var b strings.Builder
	b.WriteString(dangerTitleStyle.Render(title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Database: %s\n", dbName)
	if len(tables) > 0 {
		b.WriteString("Tables to drop:\n")
		for _, t := range tables {
			b.WriteString(mutedStyle.Render("  - " + t))
			b.WriteString("\n")
		}
	}
	b.WriteString("\nThis will permanently delete all data in these tables.")
	return dangerBoxStyle.Render(b.String())
}
