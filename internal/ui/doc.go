// Package ui provides terminal UI components for the fairyctl CLI.
//
// This package uses Lipgloss to render polished terminal output for one-shot
// commands. Unlike the interactive control panel, these components follow a
// "run once and exit" pattern - they render output compellingly but don't
// require user interaction.
//
// # Components
//
//   - Header: Command banner showing operation name and parameters
//   - Result: Success/failure/warning boxes with styled information
//   - StatusCard: Snapshot of a light's reported state with color swatch
//     and brightness bar
//   - RenderLightsTable: Aligned listing for scan results and saved lights
//   - Confirm: Simple y/N prompt for destructive commands
//
// All components cap their width at MaxContentWidth and degrade to
// MinTerminalWidth on narrow terminals.
//
// Example:
//
//	card := ui.NewStatusCard("Nightstand", "FF:12:A8:33:0D:5A")
//	card.Connected = true
//	card.Known = true
//	card.Power = "on"
//	card.Mode = "preset"
//	card.PresetIndex = 17
//	card.PresetName = "Fireworks"
//	card.Brightness = 50
//	fmt.Println(card.Render())
//
// # Logging Integration
//
// This package expects logging to be controlled via the FAIRYCTL_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly. Set FAIRYCTL_LOG_LEVEL to
// "debug", "info", "warn", or "error" to enable logging output.
package ui
