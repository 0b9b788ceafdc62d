package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fairyctl/internal/ble"
	"github.com/muurk/fairyctl/internal/config"
	"github.com/muurk/fairyctl/internal/discovery"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	lights []*discovery.Light
	err    error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual address entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Confirm, m.Cancel},
	}
}

// scanningKeyMap defines key bindings while a scan is in flight
type scanningKeyMap struct {
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Manual, s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{s.Manual, s.Quit},
	}
}

// emptyScreenKeyMap defines key bindings when a scan found nothing
type emptyScreenKeyMap struct {
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (e emptyScreenKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{e.Rescan, e.Manual, e.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (e emptyScreenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{e.Rescan, e.Manual, e.Quit},
	}
}

// lightItem wraps a discovered light for use with bubbles/list
type lightItem struct {
	light    *discovery.Light
	nickname string
}

// FilterValue lets the list filter by name, address, or nickname
func (l lightItem) FilterValue() string {
	return l.light.Name + " " + l.light.Address + " " + l.nickname
}

// displayName returns the card title for the light
func (l lightItem) displayName() string {
	if l.nickname != "" {
		return l.nickname
	}
	if l.light.Name != "" {
		return l.light.Name
	}
	return l.light.Address
}

// lightDelegate is a custom list delegate for rendering light cards
type lightDelegate struct {
	width int
}

func (d lightDelegate) Height() int { return 7 } // Card height including padding

func (d lightDelegate) Spacing() int { return 1 } // Spacing between cards

func (d lightDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d lightDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, ok := item.(lightItem)
	if !ok {
		return
	}

	selected := index == m.Index()

	var content strings.Builder

	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + li.displayName()))
	} else {
		content.WriteString("  " + li.displayName())
	}
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("  Address:  %s\n", li.light.Address))

	signal := "unknown"
	if li.light.RSSI != 0 {
		signal = fmt.Sprintf("%s %d dBm", SignalBars(li.light.RSSI), li.light.RSSI)
	}
	content.WriteString(fmt.Sprintf("  Signal:   %s\n", signal))

	if li.nickname != "" && li.light.Name != "" {
		content.WriteString(fmt.Sprintf("  Device:   %s", li.light.Name))
	} else {
		statusStyle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
		content.WriteString(fmt.Sprintf("  Status:   %s", statusStyle.Render("Ready")))
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		MarginLeft(2)

	cardWidth := d.width - 6 // 2 for margin-left, 4 for border + padding
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle = cardStyle.Width(cardWidth)

	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// DiscoveryModel represents the light discovery screen state
type DiscoveryModel struct {
	// Discovery state
	Scanning  bool
	LightList list.Model
	Selected  bool
	Err       error

	// Manual address entry state
	ManualMode bool
	AddrInput  textinput.Model

	// Navigation results
	QuitRequested bool

	// Shared dependencies
	adapter  ble.Adapter
	registry *config.Registry

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
	ScanningKeys  scanningKeyMap
	EmptyKeys     emptyScreenKeyMap
}

// NewDiscoveryModel creates a new discovery screen model
func NewDiscoveryModel(adapter ble.Adapter, registry *config.Registry) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	addrInput := textinput.New()
	addrInput.Placeholder = "FF:12:A8:33:0D:5A"
	addrInput.CharLimit = 36 // Long enough for a CoreBluetooth UUID
	addrInput.Width = 40

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	delegate := lightDelegate{width: MinTerminalWidth}
	lightList := list.New([]list.Item{}, delegate, 0, 0)
	lightList.Title = "Discovered Lights"
	lightList.SetShowStatusBar(false)
	lightList.SetFilteringEnabled(true)
	lightList.Styles.Title = TitleStyle

	h := help.New()

	keys := discoveryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "connect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	manualKeys := manualModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	scanningKeys := scanningKeyMap{
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	emptyKeys := emptyScreenKeyMap{
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual address"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return DiscoveryModel{
		Scanning:     false,
		LightList:    lightList,
		Selected:     false,
		ManualMode:   false,
		AddrInput:    addrInput,
		adapter:      adapter,
		registry:     registry,
		Spinner:      s,
		ProgressBar:  progressBar,
		Help:         h,
		Keys:         keys,
		ManualKeys:   manualKeys,
		ScanningKeys: scanningKeys,
		EmptyKeys:    emptyKeys,
	}
}

// scanTimeout returns the configured scan duration
func (m DiscoveryModel) scanTimeout() time.Duration {
	if m.registry != nil && m.registry.Preferences != nil && m.registry.Preferences.ScanTimeout > 0 {
		return time.Duration(m.registry.Preferences.ScanTimeout) * time.Second
	}
	return 10 * time.Second
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanLights(m.adapter, m.scanTimeout()),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.LightList.SetDelegate(lightDelegate{width: msg.Width})
		m.LightList.SetWidth(msg.Width - 4)
		m.LightList.SetHeight(msg.Height - 10) // Leave room for header/footer

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.lights))
		for i, l := range msg.lights {
			items[i] = lightItem{light: l, nickname: m.nicknameFor(l.Address)}
		}
		m.LightList.SetItems(items)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.ManualMode && !m.Scanning {
		m.LightList, cmd = m.LightList.Update(msg)
	}

	return m, cmd
}

// nicknameFor looks up the saved nickname for an address
func (m DiscoveryModel) nicknameFor(address string) string {
	if m.registry == nil {
		return ""
	}
	if saved := m.registry.GetLight(address); saved != nil {
		return saved.Nickname
	}
	return ""
}

// updateNormalMode handles keyboard input in normal light list mode
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.QuitRequested = true
		return m, nil

	case "enter", " ":
		if selectedItem := m.LightList.SelectedItem(); selectedItem != nil {
			m.Selected = true
			return m, nil
		}

	case "r":
		m.LightList.SetItems([]list.Item{})
		m.Err = nil
		return m, tea.Batch(
			func() tea.Msg { return scanStartMsg{} },
			scanLights(m.adapter, m.scanTimeout()),
			m.Spinner.Tick,
		)

	case "m":
		m.ManualMode = true
		m.AddrInput.SetValue("")
		m.AddrInput.Focus()
		return m, textinput.Blink
	}

	// Let the list handle up/down navigation
	var cmd tea.Cmd
	m.LightList, cmd = m.LightList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual address entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c", "esc":
		m.ManualMode = false
		m.AddrInput.SetValue("")
		m.AddrInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.AddrInput.Value())
		if value != "" {
			light := &discovery.Light{
				Address:      value,
				DiscoveredAt: time.Now(),
			}
			newItem := lightItem{light: light, nickname: m.nicknameFor(value)}
			items := append([]list.Item{newItem}, m.LightList.Items()...)
			m.LightList.SetItems(items)
			m.LightList.Select(0)
			m.ManualMode = false
			m.AddrInput.SetValue("")
			m.AddrInput.Blur()
			return m, nil
		}
	}

	m.AddrInput, cmd = m.AddrInput.Update(msg)
	return m, cmd
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content string
	if m.ManualMode {
		content = m.renderManualEntry()
	} else if m.Scanning {
		content = m.renderScanning(width)
	} else {
		content = m.renderResults()
	}

	var helpText string
	if m.ManualMode {
		helpText = m.Help.View(m.ManualKeys)
	} else if m.Scanning {
		helpText = m.Help.View(m.ScanningKeys)
	} else if len(m.LightList.Items()) > 0 {
		helpText = m.Help.View(m.Keys)
	} else {
		helpText = m.Help.View(m.EmptyKeys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderScanning renders a centered scanning progress display
func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	elapsedSec := int(elapsed.Seconds())

	totalSec := int(m.scanTimeout().Seconds())
	if totalSec <= 0 {
		totalSec = 10
	}
	progressPercent := min(100, (elapsedSec*100)/totalSec)
	progressFloat := float64(progressPercent) / 100.0

	title := fmt.Sprintf("%s SEARCHING FOR LIGHTS", m.Spinner.View())
	subtitle := "Scanning for Hello Fairy lights over Bluetooth..."

	progressBar := m.ProgressBar.ViewAs(progressFloat)
	elapsedText := fmt.Sprintf("Elapsed: %ds", elapsedSec)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(title),
		"",
		SubtitleStyle.Render(subtitle),
		"",
		progressBar,
		"",
		SubtitleStyle.Render(elapsedText),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderResults renders the light list or "no lights found" message
func (m DiscoveryModel) renderResults() string {
	var b strings.Builder

	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(m.renderTroubleshooting())

	} else if len(m.LightList.Items()) == 0 {
		b.WriteString("  ")
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString(warningStyle.Render("⚠ No Hello Fairy lights found"))
		b.WriteString("\n\n")
		b.WriteString(m.renderTroubleshooting())

	} else {
		b.WriteString(m.LightList.View())
	}

	return b.String()
}

// renderTroubleshooting renders scan troubleshooting hints
func (m DiscoveryModel) renderTroubleshooting() string {
	var b strings.Builder
	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Ensure the light is powered on and within range\n")
	b.WriteString("    • Check that Bluetooth is enabled on this machine\n")
	b.WriteString("    • Close the vendor app: the light accepts one connection at a time\n")
	b.WriteString("    • Try rescanning (press 'r') or enter an address manually (press 'm')\n")
	b.WriteString("\n")
	return b.String()
}

// renderManualEntry renders the manual address entry dialog
func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString(RenderSubtitle("Enter the light's Bluetooth address"))
	b.WriteString("\n\n")

	b.WriteString("  Address: ")
	b.WriteString(m.AddrInput.View())
	b.WriteString("\n\n")

	return b.String()
}

// GetSelectedLight returns the selected light (if any)
func (m DiscoveryModel) GetSelectedLight() *discovery.Light {
	if m.Selected {
		if selectedItem := m.LightList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(lightItem); ok {
				return item.light
			}
		}
	}
	return nil
}

// scanLights is a command that performs light discovery
func scanLights(adapter ble.Adapter, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		lights, err := discovery.ScanForLights(adapter, timeout)
		return scanCompleteMsg{
			lights: lights,
			err:    err,
		}
	}
}
