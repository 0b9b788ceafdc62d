package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LightRow describes one light in a scan or registry listing
type LightRow struct {
	Address  string
	Name     string // Advertised name, may be empty for saved-but-unseen lights
	Nickname string
	RSSI     int  // dBm, 0 when unknown
	Default  bool // Marked as the default light
}

// RenderLightsTable renders scan results or the saved-lights registry as an
// aligned table. Returns an empty string when there are no rows.
func RenderLightsTable(rows []LightRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	nameWidth := 8
	nickWidth := 8
	for _, row := range rows {
		if len(row.Name) > nameWidth {
			nameWidth = len(row.Name)
		}
		if len(row.Nickname) > nickWidth {
			nickWidth = len(row.Nickname)
		}
	}

	var b strings.Builder

	header := fmt.Sprintf("  %-19s %-*s %-*s %8s", "ADDRESS", nameWidth, "NAME", nickWidth, "NICKNAME", "SIGNAL")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	defaultStyle := lipgloss.NewStyle().Foreground(SuccessColor)
	rowStyle := lipgloss.NewStyle().Foreground(TextColor)

	for _, row := range rows {
		signal := ""
		if row.RSSI != 0 {
			signal = fmt.Sprintf("%d dBm", row.RSSI)
		}
		line := fmt.Sprintf("%-19s %-*s %-*s %8s", row.Address, nameWidth, row.Name, nickWidth, row.Nickname, signal)
		if row.Default {
			b.WriteString(defaultStyle.Render("* " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if hasDefault(rows) {
		b.WriteString(lipgloss.NewStyle().
			Foreground(MutedColor).
			Render("  * default light"))
		b.WriteString("\n")
	}

	return b.String()
}

func hasDefault(rows []LightRow) bool {
	for _, row := range rows {
		if row.Default {
			return true
		}
	}
	return false
}
