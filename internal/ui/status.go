package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StatusCard describes a light's state for rendering. Callers fill it from
// the controller's snapshot; the card itself knows nothing about the wire
// protocol.
type StatusCard struct {
	Name      string // Display name (nickname, advertised name, or address)
	Address   string
	Connected bool
	Known     bool // False until the light has reported at least once

	Power string // "on" or "off"
	Mode  string // "color" or "preset"

	// Color mode fields (hue in degrees, saturation/value in percent)
	Hue        int
	Saturation int
	Value      int
	R, G, B    uint8

	// Preset mode fields
	PresetIndex int
	PresetName  string

	Brightness int // Percent, follows the active mode
	Updated    time.Time

	Width int // Terminal width
}

// NewStatusCard creates a status card sized to the current terminal
func NewStatusCard(name, address string) *StatusCard {
	return &StatusCard{
		Name:    name,
		Address: address,
		Width:   GetTerminalWidth(),
	}
}

// Render returns the styled status card as a string
func (c *StatusCard) Render() string {
	width := c.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string

	nameLine := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(c.Name)
	lines = append(lines, nameLine)

	link := "disconnected"
	if c.Connected {
		link = "connected"
	}
	addrLine := lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(fmt.Sprintf("%s · %s", c.Address, link))
	lines = append(lines, addrLine)
	lines = append(lines, "")

	if !c.Known {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Render("No status received yet. The light reports its state after a command completes."))
		return StatusBoxStyle(width).Render(strings.Join(lines, "\n"))
	}

	badge := PowerOffStyle.Render("OFF")
	if c.Power == "on" {
		badge = PowerOnStyle.Render("ON")
	}
	lines = append(lines, statusRow("Power", badge))
	lines = append(lines, statusRow("Mode", c.Mode))

	switch c.Mode {
	case "color":
		hex := fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(hex)).
			Render("      ")
		lines = append(lines, statusRow("Color", swatch+"  "+hex))
		lines = append(lines, statusRow("HSV", fmt.Sprintf("%d° %d%% %d%%", c.Hue, c.Saturation, c.Value)))
		lines = append(lines, statusRow("RGB", fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)))
	case "preset":
		preset := fmt.Sprintf("%d · %s", c.PresetIndex, c.PresetName)
		lines = append(lines, statusRow("Preset", preset))
	}

	barWidth := width - 40
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 30 {
		barWidth = 30
	}
	lines = append(lines, statusRow("Brightness", renderBrightnessBar(c.Brightness, barWidth)))

	if !c.Updated.IsZero() {
		lines = append(lines, statusRow("Updated", c.Updated.Format("15:04:05")))
	}

	return StatusBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (c *StatusCard) String() string {
	return c.Render()
}

// statusRow formats an aligned key-value row
func statusRow(key, value string) string {
	keyStyled := ResultKeyStyle.Render(key + ":")
	return keyStyled + " " + ResultValueStyle.Render(value)
}

// renderBrightnessBar draws a filled bar with a percent label
func renderBrightnessBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	bar := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s%s %d%%", bar, rest, percent)
}
