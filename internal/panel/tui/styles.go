package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fairyctl/internal/version"
)

// Application branding constants
const (
	AppName       = "FAIRYCTL CONTROL PANEL"
	GitHubURL     = "github.com/muurk/fairyctl"
	GitHubFullURL = "https://github.com/muurk/fairyctl"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 72  // Minimum supported terminal width
	MaxContentWidth   = 120 // Maximum content width before capping
	DefaultBoxPadding = 2   // Default padding inside boxes
)

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	AccentColor    = lipgloss.Color("#FF8B94") // Pink
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	// Neutral colors
	TextColor       = lipgloss.Color("#FFFFFF") // White
	SubtleColor     = lipgloss.Color("#626262") // Gray
	BorderColor     = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor  = lipgloss.Color("#43BF6D") // Green (same as secondary)
	BackgroundColor = lipgloss.Color("#1A1A1A") // Dark gray
)

// Common styles
var (
	// Title style - large, bold, centered
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Menu item style (unselected)
	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(TextColor)

	// Menu item style (selected)
	SelectedMenuItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(HighlightColor).
				Bold(true)

	// Help text style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	// Inline status message styles (for the dashboard action bar)
	ActionErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	ActionInfoStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Power badge styles
	PowerOnBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(SecondaryColor).
			Bold(true).
			Padding(0, 1)

	PowerOffBadge = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SubtleColor).
			Bold(true).
			Padding(0, 1)

	// Disconnected indicator
	DisconnectedStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// RenderMenuItem renders a menu item with selection indicator
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	return MenuItemStyle.Render("  " + text)
}

// RenderError renders an error message
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// SignalBars renders received signal strength as a four-segment bar glyph
func SignalBars(rssi int) string {
	switch {
	case rssi == 0:
		return "    "
	case rssi >= -60:
		return "▂▄▆█"
	case rssi >= -70:
		return "▂▄▆ "
	case rssi >= -80:
		return "▂▄  "
	default:
		return "▂   "
	}
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(helpText)
}

// RenderApplicationContainer is the wrapper for all screens in the application.
// It provides:
//   - Consistent full-screen panel using terminal width/height
//   - Application header (name, version, GitHub URL)
//   - Context-sensitive footer (help text)
//   - Bordered outer container
//
// Every screen's View builds its content, picks its help text, and hands both
// to this function together with the dimensions from tea.WindowSizeMsg.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	header := BuildHeaderContent()
	footer := BuildFooterContent(footerText)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4). // Leave room for outer border
		Padding(0, 1)

	styledHeader := headerStyle.Render(header)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)

	styledFooter := footerStyle.Render(footer)

	// No padding here so Width(terminalWidth-4) is the actual usable
	// content width. Screens control their own margins.
	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	styledContent := contentStyle.Render(content)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		styledHeader,
		styledContent,
		styledFooter,
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top) // Pin footer instead of stretching it

	bordered := borderStyle.Render(innerContent)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}
