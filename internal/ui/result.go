package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success, failure, or warning
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "Power on"
	Error           error      // Error (for failure results)
	Troubleshooting []string   // Troubleshooting tips
	Width           int        // Terminal width

	details []resultDetail // Key-value rows, rendered in insertion order
}

type resultDetail struct {
	key   string
	value string
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string) *Result {
	return &Result{
		Type:  ResultSuccess,
		Title: title,
		Width: GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultWarning,
		Title:           title,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail row. Rows render in the order they were added.
func (r *Result) AddDetail(key, value string) *Result {
	r.details = append(r.details, resultDetail{key: key, value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	switch r.Type {
	case ResultFailure:
		return r.render(FailureMarker, "FAILED", ErrorTitleStyle, ErrorColor)
	case ResultWarning:
		return r.render(WarningMarker, "WARNING", WarningTitleStyle, WarningColor)
	default:
		return r.render(SuccessMarker, "SUCCESS", SuccessTitleStyle, SuccessColor)
	}
}

// render draws the double-bordered box shared by all result types
func (r *Result) render(marker, label string, titleStyle lipgloss.Style, borderColor lipgloss.Color) string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var lines []string

	titleLine := titleStyle.Render(fmt.Sprintf("   %s  %s  ─  %s", marker, label, r.Title))
	lines = append(lines, "")
	lines = append(lines, titleLine)
	lines = append(lines, "")

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()))
		lines = append(lines, "")
	}

	if len(r.details) > 0 {
		for _, d := range r.details {
			keyStyled := ResultKeyStyle.Render(fmt.Sprintf("   %s:", d.key))
			valueStyled := ResultValueStyle.Render(d.value)
			lines = append(lines, keyStyled+" "+valueStyled)
		}
		lines = append(lines, "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(width))
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(borderColor).
		Width(width - 2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// renderTroubleshootingBox renders the inner troubleshooting box
func (r *Result) renderTroubleshootingBox(width int) string {
	var lines []string

	lines = append(lines, TroubleshootingTitleStyle.Render("Troubleshooting:"))
	lines = append(lines, "")

	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	innerWidth := width - 12 // Indent within outer box
	if innerWidth < 40 {
		innerWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// --- Convenience functions for quick rendering ---

// RenderSuccess renders a success box. Details are alternating key, value pairs.
func RenderSuccess(title string, details ...string) string {
	r := NewSuccessResult(title)
	for i := 0; i+1 < len(details); i += 2 {
		r.AddDetail(details[i], details[i+1])
	}
	return r.Render()
}

// RenderFailure renders a failure box with the given title, error, and troubleshooting tips
func RenderFailure(title string, err error, troubleshooting []string) string {
	return NewFailureResult(title, err, troubleshooting).Render()
}

// RenderWarning renders a warning box with the given title and troubleshooting tips
func RenderWarning(title string, troubleshooting []string) string {
	return NewWarningResult(title, troubleshooting).Render()
}
