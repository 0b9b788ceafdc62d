package tui

import (
	"context"
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

	"github.com/muurk/fairyctl/internal/light"
	"github.com/muurk/fairyctl/internal/presets"
	"github.com/muurk/fairyctl/internal/protocol"
	"github.com/muurk/fairyctl/internal/state"
)

// Timeouts for BLE operations started from the dashboard
const (
	connectTimeout = 30 * time.Second
	commandTimeout = 10 * time.Second

	// How long transient action feedback stays on screen
	actionMessageTTL = 5 * time.Second

	// Step sizes for keyboard adjustments
	hueStep        = 15
	saturationStep = 10
	brightnessStep = 10
)

// Message types for async operations
type connectedMsg struct {
	err error
}

type statusMsg struct {
	status  state.DeviceStatus
	changes state.ChangeSet
}

type connStateMsg struct {
	connected bool
}

type opDoneMsg struct {
	op  string
	err error
}

// EditSection represents which inline editor is active on the dashboard
type EditSection int

const (
	SectionNone EditSection = iota
	SectionPresets
	SectionColor
)

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Power      key.Binding
	Hue        key.Binding
	Saturation key.Binding
	Brightness key.Binding
	Presets    key.Binding
	Color      key.Binding
	Back       key.Binding
	Quit       key.Binding
	Help       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Power, k.Brightness, k.Presets, k.Color, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Power, k.Hue, k.Saturation, k.Brightness},
		{k.Presets, k.Color, k.Back, k.Quit},
	}
}

// editorKeyMap defines key bindings for the inline editors
type editorKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Cancel},
	}
}

// presetItem wraps a catalog entry for use with bubbles/list
type presetItem struct {
	index int
}

// FilterValue lets the list filter by name or index
func (p presetItem) FilterValue() string {
	return fmt.Sprintf("%d %s", p.index, presets.Label(p.index))
}

// presetDelegate renders catalog entries as single compact lines
type presetDelegate struct{}

func (d presetDelegate) Height() int { return 1 }

func (d presetDelegate) Spacing() int { return 0 }

func (d presetDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d presetDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(presetItem)
	if !ok {
		return
	}

	line := fmt.Sprintf("%2d · %s", pi.index, presets.Label(pi.index))
	if index == m.Index() {
		fmt.Fprint(w, SelectedMenuItemStyle.Render("→ "+line))
		return
	}
	fmt.Fprint(w, MenuItemStyle.Render(line))
}

// DashboardModel represents the live control screen for one light
type DashboardModel struct {
	// Light connection
	Controller  *light.Controller
	DisplayName string

	// Connection state
	Connecting bool
	ConnectErr error
	Connected  bool

	// Last reconciled snapshot pushed by the controller
	Status state.DeviceStatus

	// Inline editing state
	EditSection EditSection
	PresetList  list.Model
	ColorInput  textinput.Model

	// Transient action feedback
	ActionErr  error
	ActionMsg  string
	ActionTime time.Time

	// Navigation results
	BackRequested bool
	QuitRequested bool

	// UI state
	Width            int
	Height           int
	Spinner          spinner.Model
	BrightnessBar    progress.Model
	ConnectStartTime time.Time
	Help             help.Model
	Keys             dashboardKeyMap
	EditorKeys       editorKeyMap

	// Status pushes from the controller's notification goroutine
	events chan tea.Msg
}

// NewDashboardModel creates a dashboard bound to a controller. The
// controller's change hooks are registered here; Init starts the
// connection attempt so construction never blocks.
func NewDashboardModel(controller *light.Controller, displayName string) DashboardModel {
	events := make(chan tea.Msg, 16)

	// Hooks run on the notification goroutine. Never block it: a dropped
	// push is recovered by the next one, which carries a full snapshot.
	controller.OnChange(func(status state.DeviceStatus, changes state.ChangeSet) {
		select {
		case events <- statusMsg{status: status, changes: changes}:
		default:
		}
	})
	controller.OnConnectionChange(func(connected bool) {
		select {
		case events <- connStateMsg{connected: connected}:
		default:
		}
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	brightnessBar := progress.New(progress.WithDefaultGradient())
	brightnessBar.Width = 30

	items := make([]list.Item, 0, presets.MaxIndex)
	for i := presets.MinIndex; i <= presets.MaxIndex; i++ {
		items = append(items, presetItem{index: i})
	}
	presetList := list.New(items, presetDelegate{}, 40, 14)
	presetList.Title = "Presets"
	presetList.SetShowStatusBar(false)
	presetList.SetFilteringEnabled(true)
	presetList.Styles.Title = TitleStyle

	colorInput := textinput.New()
	colorInput.Placeholder = "#FF8800"
	colorInput.CharLimit = 7
	colorInput.Width = 12

	h := help.New()

	keys := dashboardKeyMap{
		Power: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "power"),
		),
		Hue: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "hue"),
		),
		Saturation: key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "saturation"),
		),
		Brightness: key.NewBinding(
			key.WithKeys("+", "-"),
			key.WithHelp("+/-", "brightness"),
		),
		Presets: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "presets"),
		),
		Color: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "color"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
	}

	editorKeys := editorKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return DashboardModel{
		Controller:    controller,
		DisplayName:   displayName,
		Connecting:    true,
		Status:        controller.LastKnown(),
		EditSection:   SectionNone,
		PresetList:    presetList,
		ColorInput:    colorInput,
		Spinner:       s,
		BrightnessBar: brightnessBar,
		Help:          h,
		Keys:          keys,
		EditorKeys:    editorKeys,
		events:        events,
	}
}

// Init starts the connection attempt and the status subscription
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		connectCmd(m.Controller),
		waitForEvent(m.events),
		m.Spinner.Tick,
		func() tea.Msg { return connectStartedMsg{} },
	)
}

type connectStartedMsg struct{}

// connectCmd dials the light in the background
func connectCmd(controller *light.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return connectedMsg{err: controller.Connect(ctx)}
	}
}

// waitForEvent relays one controller push into the update loop. The
// handler re-issues it after every message so the subscription stays live.
func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// commandCmd runs one controller operation in the background
func commandCmd(op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.PresetList.SetWidth(min(msg.Width-8, 60))
		m.PresetList.SetHeight(max(msg.Height-16, 6))
		return m, nil

	case connectStartedMsg:
		m.ConnectStartTime = time.Now()
		return m, nil

	case connectedMsg:
		m.Connecting = false
		m.ConnectErr = msg.err
		if msg.err == nil {
			m.Connected = true
			m.Status = m.Controller.LastKnown()
		}
		return m, nil

	case statusMsg:
		m.Status = msg.status
		return m, waitForEvent(m.events)

	case connStateMsg:
		m.Connected = msg.connected
		return m, waitForEvent(m.events)

	case opDoneMsg:
		m.ActionErr = msg.err
		m.ActionMsg = msg.op
		m.ActionTime = time.Now()
		return m, nil

	case spinner.TickMsg:
		if m.Connecting {
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.EditSection {
		case SectionPresets:
			return m.updatePresetEditor(msg)
		case SectionColor:
			return m.updateColorEditor(msg)
		default:
			return m.updateNormalMode(msg)
		}
	}

	return m, nil
}

// updateNormalMode handles keyboard input when no inline editor is open
func (m DashboardModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.QuitRequested = true
		return m, nil

	case "esc":
		m.BackRequested = true
		return m, nil

	case "?":
		m.Help.ShowAll = !m.Help.ShowAll
		return m, nil

	case "r":
		// Retry after a failed connection attempt
		if m.ConnectErr != nil {
			m.Connecting = true
			m.ConnectErr = nil
			return m, tea.Batch(
				connectCmd(m.Controller),
				m.Spinner.Tick,
				func() tea.Msg { return connectStartedMsg{} },
			)
		}
		return m, nil
	}

	// Everything below drives the light; wait for the link first
	if m.Connecting || m.ConnectErr != nil {
		return m, nil
	}

	switch msg.String() {
	case " ":
		on := !(m.Status.Known() && m.Status.Power == protocol.PowerOn)
		return m, commandCmd(powerOpName(on), func(ctx context.Context) error {
			return m.Controller.SetPower(ctx, on)
		})

	case "left", "right":
		h, s, v := m.currentHSV()
		if msg.String() == "left" {
			h -= hueStep
		} else {
			h += hueStep
		}
		h = (h + 360) % 360
		return m, m.setColorCmd(h, s, v)

	case "up", "down":
		h, s, v := m.currentHSV()
		if msg.String() == "up" {
			s += saturationStep
		} else {
			s -= saturationStep
		}
		s = clampPercent(s, 0)
		return m, m.setColorCmd(h, s, v)

	case "+", "=":
		return m, m.adjustBrightnessCmd(brightnessStep)

	case "-":
		return m, m.adjustBrightnessCmd(-brightnessStep)

	case "p":
		m.EditSection = SectionPresets
		m.selectCurrentPreset()
		return m, nil

	case "c":
		m.EditSection = SectionColor
		m.ColorInput.SetValue("")
		m.ColorInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}

// updatePresetEditor handles keyboard input while the preset list is open
func (m DashboardModel) updatePresetEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is active, every key belongs to the list
	if m.PresetList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.PresetList, cmd = m.PresetList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.EditSection = SectionNone
		return m, nil

	case "enter":
		if item, ok := m.PresetList.SelectedItem().(presetItem); ok {
			m.EditSection = SectionNone
			index := item.index
			return m, commandCmd(fmt.Sprintf("preset %s", presets.Label(index)),
				func(ctx context.Context) error {
					return m.Controller.SetPreset(ctx, index)
				})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.PresetList, cmd = m.PresetList.Update(msg)
	return m, cmd
}

// updateColorEditor handles keyboard input while the color input is open
func (m DashboardModel) updateColorEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.EditSection = SectionNone
		m.ColorInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.ColorInput.Value())
		if value == "" {
			return m, nil
		}
		r, g, b, err := light.ParseHexColor(value)
		if err != nil {
			m.ActionErr = err
			m.ActionMsg = "set color"
			m.ActionTime = time.Now()
			return m, nil
		}
		m.EditSection = SectionNone
		m.ColorInput.Blur()
		return m, commandCmd(fmt.Sprintf("color %s", strings.ToUpper(value)),
			func(ctx context.Context) error {
				return m.Controller.SetColorRGB(ctx, r, g, b)
			})
	}

	var cmd tea.Cmd
	m.ColorInput, cmd = m.ColorInput.Update(msg)
	return m, cmd
}

// currentHSV returns the light's color in degrees/percent, falling back
// to full-saturation red when no color has been reported yet
func (m DashboardModel) currentHSV() (int, int, int) {
	if m.Status.Color != nil {
		return int(m.Status.Color.Hue),
			int(m.Status.Color.Saturation) / 10,
			int(m.Status.Color.Value) / 10
	}
	return 0, 100, 100
}

// currentBrightness returns the active mode's brightness in percent
func (m DashboardModel) currentBrightness() int {
	switch {
	case m.Status.Mode == protocol.ModePreset && m.Status.Preset != nil:
		return int(m.Status.Preset.Brightness) / 10
	case m.Status.Color != nil:
		return int(m.Status.Color.Value) / 10
	default:
		return 100
	}
}

// setColorCmd issues a color write from keyboard adjustments
func (m DashboardModel) setColorCmd(h, s, v int) tea.Cmd {
	return commandCmd(fmt.Sprintf("color hsv(%d, %d%%, %d%%)", h, s, v),
		func(ctx context.Context) error {
			return m.Controller.SetColorHSV(ctx, h, s, v)
		})
}

// adjustBrightnessCmd steps the active mode's brightness
func (m DashboardModel) adjustBrightnessCmd(delta int) tea.Cmd {
	percent := clampPercent(m.currentBrightness()+delta, 1)
	return commandCmd(fmt.Sprintf("brightness %d%%", percent),
		func(ctx context.Context) error {
			return m.Controller.SetBrightness(ctx, percent)
		})
}

// selectCurrentPreset moves the list cursor to the running preset
func (m *DashboardModel) selectCurrentPreset() {
	if m.Status.Preset == nil {
		return
	}
	index := int(m.Status.Preset.Index)
	if index >= presets.MinIndex && index <= presets.MaxIndex {
		m.PresetList.Select(index - presets.MinIndex)
	}
}

// powerOpName names a power action for the feedback line
func powerOpName(on bool) string {
	if on {
		return "power on"
	}
	return "power off"
}

// clampPercent limits a percent value to [floor, 100]
func clampPercent(v, floor int) int {
	if v < floor {
		return floor
	}
	if v > 100 {
		return 100
	}
	return v
}

// View renders the dashboard screen
func (m DashboardModel) View() string {
	var content string
	switch {
	case m.Connecting:
		content = m.renderConnecting()
	case m.ConnectErr != nil:
		content = m.renderConnectError()
	default:
		content = m.renderControls()
	}

	var helpText string
	switch m.EditSection {
	case SectionPresets, SectionColor:
		helpText = m.Help.View(m.EditorKeys)
	default:
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderConnecting renders a centered connection progress display
func (m DashboardModel) renderConnecting() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	elapsed := int(time.Since(m.ConnectStartTime).Seconds())

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s CONNECTING", m.Spinner.View())),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Reaching %s at %s...", m.DisplayName, m.Controller.Address())),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", elapsed)),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderConnectError renders the failed-connection screen
func (m DashboardModel) renderConnectError() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderError(fmt.Sprintf("Could not connect to %s", m.DisplayName)))
	b.WriteString("\n\n")

	hint := light.GetTroubleshootingHint(m.ConnectErr)
	for _, line := range strings.Split(hint, "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  r retry · esc back · q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderControls renders the live status header and active inline editor
func (m DashboardModel) renderControls() string {
	var sections []string

	sections = append(sections, m.renderStatusHeader())

	switch m.EditSection {
	case SectionPresets:
		sections = append(sections, "", m.PresetList.View())
	case SectionColor:
		sections = append(sections, "",
			RenderSubtitle("Enter a hex color"),
			"",
			"  Color: "+m.ColorInput.View())
	}

	if feedback := m.renderActionFeedback(); feedback != "" {
		sections = append(sections, "", feedback)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusHeader renders the identity line and the reconciled state
func (m DashboardModel) renderStatusHeader() string {
	var b strings.Builder

	nameStyle := lipgloss.NewStyle().Foreground(TextColor).Bold(true)
	b.WriteString(nameStyle.Render(m.DisplayName))
	b.WriteString("  ")
	if m.Connected {
		b.WriteString(lipgloss.NewStyle().Foreground(SecondaryColor).Render("● connected"))
	} else {
		b.WriteString(DisconnectedStyle.Render("○ reconnecting..."))
	}
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(m.Controller.Address()))
	b.WriteString("\n")

	divider := lipgloss.NewStyle().
		Foreground(BorderColor).
		Render(strings.Repeat("─", 60))
	b.WriteString(divider)
	b.WriteString("\n\n")

	if !m.Status.Known() {
		b.WriteString(SubtitleStyle.Render("Waiting for the light to report its state..."))
		b.WriteString("\n")
		return b.String()
	}

	badge := PowerOffBadge.Render("OFF")
	if m.Status.Power == protocol.PowerOn {
		badge = PowerOnBadge.Render("ON")
	}
	b.WriteString(fmt.Sprintf("  Power       %s\n", badge))
	b.WriteString(fmt.Sprintf("  Mode        %s\n", m.Status.Mode))

	switch {
	case m.Status.Mode == protocol.ModeColor && m.Status.Color != nil:
		h, s, v := m.currentHSV()
		r, g, b8 := light.HSVToRGB(h, s, v)
		hex := fmt.Sprintf("#%02X%02X%02X", r, g, b8)
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
		b.WriteString(fmt.Sprintf("  Color       %s  %s  hsv(%d, %d%%, %d%%)\n", swatch, hex, h, s, v))

	case m.Status.Mode == protocol.ModePreset && m.Status.Preset != nil:
		b.WriteString(fmt.Sprintf("  Preset      %d · %s\n",
			m.Status.Preset.Index, presets.Label(int(m.Status.Preset.Index))))
	}

	percent := m.currentBrightness()
	bar := m.BrightnessBar.ViewAs(float64(percent) / 100.0)
	b.WriteString(fmt.Sprintf("  Brightness  %s\n", bar))

	if !m.Status.Updated.IsZero() {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  updated %s", m.Status.Updated.Format("15:04:05"))))
		b.WriteString("\n")
	}

	return b.String()
}

// renderActionFeedback renders the transient result of the last command
func (m DashboardModel) renderActionFeedback() string {
	if m.ActionMsg == "" || time.Since(m.ActionTime) > actionMessageTTL {
		return ""
	}
	if m.ActionErr != nil {
		return ActionErrorStyle.Render(fmt.Sprintf("  ✗ %s failed: %s",
			m.ActionMsg, light.GetShortErrorMessage(m.ActionErr)))
	}
	return ActionInfoStyle.Render(fmt.Sprintf("  ✓ %s", m.ActionMsg))
}
