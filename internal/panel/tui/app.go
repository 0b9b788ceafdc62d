package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/fairyctl/internal/ble"
	"github.com/muurk/fairyctl/internal/config"
	"github.com/muurk/fairyctl/internal/discovery"
	"github.com/muurk/fairyctl/internal/light"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenDashboard Screen = "dashboard"
)

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	DiscoveryModel DiscoveryModel
	DashboardModel DashboardModel

	// Shared application state
	Adapter       ble.Adapter
	Registry      *config.Registry
	SelectedLight *discovery.Light
	Controller    *light.Controller // Owned while the dashboard is active

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model starting at the specified
// screen. When startScreen is ScreenDashboard, target names the light to
// connect to; the dashboard handles the connection itself so startup never
// blocks on BLE.
func NewAppModel(adapter ble.Adapter, registry *config.Registry, startScreen Screen, target *discovery.Light) AppModel {
	model := AppModel{
		CurrentScreen: startScreen,
		Adapter:       adapter,
		Registry:      registry,
		SelectedLight: target,
	}

	switch startScreen {
	case ScreenDiscovery:
		model.DiscoveryModel = NewDiscoveryModel(adapter, registry)
	case ScreenDashboard:
		if target != nil {
			model.Controller = model.newController(target)
			model.DashboardModel = NewDashboardModel(model.Controller, model.displayName(target))
		}
	}

	return model
}

// newController builds a reconnecting BLE controller for the target light
func (m *AppModel) newController(target *discovery.Light) *light.Controller {
	opts := ble.DefaultClientOptions()
	opts.AutoReconnect = true
	client := ble.NewClient(m.Adapter, target.Address, opts)
	return light.NewController(client)
}

// displayName resolves the friendliest name we have for the target
func (m *AppModel) displayName(target *discovery.Light) string {
	if m.Registry != nil {
		return m.Registry.DisplayName(target.Address)
	}
	if target.Name != "" {
		return target.Name
	}
	return target.Address
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenDashboard:
		return m.DashboardModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DiscoveryModel.Width = msg.Width
		m.DiscoveryModel.Height = msg.Height
		m.DashboardModel.Width = msg.Width
		m.DashboardModel.Height = msg.Height

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m.shutdown()
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		// Check if the user selected a light
		if m.DiscoveryModel.Selected {
			if selected := m.DiscoveryModel.GetSelectedLight(); selected != nil {
				m.SelectedLight = selected
				return m.transitionToDashboard(selected)
			}
		}

		if m.DiscoveryModel.QuitRequested {
			return m.shutdown()
		}

	case ScreenDashboard:
		updated, c := m.DashboardModel.Update(msg)
		m.DashboardModel = updated.(DashboardModel)
		cmd = c

		if m.DashboardModel.QuitRequested {
			return m.shutdown()
		}
		if m.DashboardModel.BackRequested {
			return m.goBack()
		}
	}

	return m, cmd
}

// transitionToDashboard connects to the selected light and opens the dashboard
func (m AppModel) transitionToDashboard(selected *discovery.Light) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = ScreenDashboard

	// Remember the light so it can be addressed by nickname later
	if m.Registry != nil {
		m.Registry.TouchSeen(selected.Address, selected.Name)
		_ = m.Registry.Save()
	}

	m.Controller = m.newController(selected)
	m.DashboardModel = NewDashboardModel(m.Controller, m.displayName(selected))
	m.DashboardModel.Width = m.Width
	m.DashboardModel.Height = m.Height

	return m, m.DashboardModel.Init()
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenDashboard:
		// Drop the BLE connection before returning to discovery
		if m.Controller != nil {
			_ = m.Controller.Close()
			m.Controller = nil
		}
		m.PreviousScreen = m.CurrentScreen
		m.CurrentScreen = ScreenDiscovery
		m.DiscoveryModel = NewDiscoveryModel(m.Adapter, m.Registry)
		m.DiscoveryModel.Width = m.Width
		m.DiscoveryModel.Height = m.Height
		return m, m.DiscoveryModel.Init()

	default:
		return m.shutdown()
	}
}

// shutdown releases the BLE connection and quits
func (m AppModel) shutdown() (tea.Model, tea.Cmd) {
	if m.Controller != nil {
		_ = m.Controller.Close()
		m.Controller = nil
	}
	return m, tea.Quit
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenDashboard:
		return m.DashboardModel.View()
	default:
		return "Unknown screen"
	}
}
