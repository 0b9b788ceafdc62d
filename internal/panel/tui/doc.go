// Package tui implements the interactive control panel for Hello Fairy lights.
//
// This package provides a full-screen TUI for discovering lights and driving
// one live. Built on the Bubble Tea framework, it follows the Elm
// architecture with immutable state updates and a Model-Update-View pattern.
//
// # Architecture
//
// The panel is organized into two screens:
//   - Discovery: scan for advertising lights or enter an address manually
//   - Dashboard: live state view plus keyboard controls for one light
//
// Both screens use a unified container (RenderApplicationContainer) for
// consistent layout: application header, content area, and a
// context-sensitive footer rendered with bubbles/help.
//
// # Framework Components
//
//   - bubbles/spinner: scan and connect progress
//   - bubbles/list: light cards and the preset catalog
//   - bubbles/textinput: manual address and hex color entry
//   - bubbles/progress: scan progress and the brightness bar
//   - bubbles/help + bubbles/key: context-aware key binding help
//   - lipgloss: styling and layout
//
// # Live Status Updates
//
// The dashboard subscribes to the controller's change hooks. Hooks fire on
// the BLE notification goroutine, so they push into a buffered channel that
// a Bubble Tea command drains; the update loop re-issues the command after
// every message. Pushes are dropped rather than blocking the notification
// goroutine: every push carries a full snapshot, so the next one repairs
// the view.
//
// # Key Bindings
//
//   - Discovery: ↑/↓ navigate, enter connect, r rescan, m manual address, q quit
//   - Dashboard: space power, ←/→ hue, ↑/↓ saturation, +/- brightness,
//     p preset list, c hex color, esc back, q quit, ? expanded help
//   - Inline editors: enter apply, esc cancel
//
// # Usage Example
//
//	app := tui.NewAppModel(adapter, registry, tui.ScreenDiscovery, nil)
//	program := tea.NewProgram(app, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
package tui
