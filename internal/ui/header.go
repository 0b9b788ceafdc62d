package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header represents a command header with title, command, and parameters.
// Used at the start of long-running commands to provide context.
type Header struct {
	Title   string // e.g., "WATCHING LIGHT"
	Command string // e.g., "fairyctl watch"
	Width   int    // Terminal width for responsive rendering

	params []resultDetail // Key-value rows, rendered in insertion order
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// AddParam appends a parameter row. Rows render in the order they were added.
func (h *Header) AddParam(key, value string) *Header {
	h.params = append(h.params, resultDetail{key: key, value: value})
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	// Title line - uppercase and bold
	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))

	// Command line - muted
	commandLine := HeaderCommandStyle.Render(h.Command)

	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	content := topSection
	if len(h.params) > 0 {
		dividerWidth := width - 6 // Account for border and padding
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		divider := lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Render(strings.Repeat("─", dividerWidth))

		var paramLines []string
		for _, p := range h.params {
			keyStyled := HeaderParamKeyStyle.Render(p.key + ":")
			valueStyled := HeaderParamValueStyle.Render(p.value)
			paramLines = append(paramLines, keyStyled+" "+valueStyled)
		}
		paramsSection := strings.Join(paramLines, "\n")

		content = lipgloss.JoinVertical(lipgloss.Left, topSection, divider, paramsSection)
	}

	// Apply rounded border with primary color
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2). // Account for border characters
		Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}

// RenderCommandHeader renders a header directly. Params are alternating
// key, value pairs.
func RenderCommandHeader(title, command string, params ...string) string {
	h := NewHeader(title, command)
	for i := 0; i+1 < len(params); i += 2 {
		h.AddParam(params[i], params[i+1])
	}
	return h.Render()
}
