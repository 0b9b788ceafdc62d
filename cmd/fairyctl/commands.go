package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/fairyctl/internal/ble"
	"github.com/muurk/fairyctl/internal/config"
	"github.com/muurk/fairyctl/internal/discovery"
	"github.com/muurk/fairyctl/internal/light"
	"github.com/muurk/fairyctl/internal/logging"
	"github.com/muurk/fairyctl/internal/panel/tui"
	"github.com/muurk/fairyctl/internal/presets"
	"github.com/muurk/fairyctl/internal/protocol"
	"github.com/muurk/fairyctl/internal/state"
	"github.com/muurk/fairyctl/internal/ui"
	"github.com/muurk/fairyctl/internal/urls"
)

const (
	connectTimeout = 30 * time.Second
	commandTimeout = 15 * time.Second
)

var (
	deviceFlag   string
	logLevelFlag string

	scanTimeoutFlag int
	scanSaveFlag    bool

	colorHexFlag string
	colorRGBFlag string
	colorHSVFlag string

	presetNameFlag  string
	presetLevelFlag int

	statusWaitFlag int

	forgetYesFlag bool
)

func init() {
	scanCmd.Flags().IntVar(&scanTimeoutFlag, "timeout", 0,
		"Scan duration in seconds (default from the registry, 10)")
	scanCmd.Flags().BoolVar(&scanSaveFlag, "save", false,
		"Remember discovered lights in the registry")

	colorCmd.Flags().StringVar(&colorHexFlag, "hex", "",
		`Hex color, e.g. "#FF8800" or "FF8800"`)
	colorCmd.Flags().StringVar(&colorRGBFlag, "rgb", "",
		`Comma separated RGB triple, e.g. "255,136,0"`)
	colorCmd.Flags().StringVar(&colorHSVFlag, "hsv", "",
		`Comma separated HSV triple, e.g. "30,100,80" (hue 0-359, percents 0-100)`)

	presetCmd.Flags().StringVar(&presetNameFlag, "name", "",
		`Preset name, e.g. "Fireworks" (see 'fairyctl presets')`)
	presetCmd.Flags().IntVar(&presetLevelFlag, "brightness", -1,
		"Brightness percent to apply with the preset (0-100)")

	statusCmd.Flags().IntVar(&statusWaitFlag, "wait", 5,
		"Seconds to wait for a status notification")

	forgetCmd.Flags().BoolVar(&forgetYesFlag, "yes", false,
		"Skip the confirmation prompt")
}

// --- scan ---

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Hello Fairy lights",
	Long: `Scan listens for BLE advertisements from Hello Fairy lights and lists
every light heard before the timeout expires.`,
	Example: `  fairyctl scan
  fairyctl scan --timeout 20
  fairyctl scan --save`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	registry, err := setupRuntime()
	if err != nil {
		return err
	}

	adapter, err := newAdapter()
	if err != nil {
		return err
	}

	timeout := registryScanTimeout(registry)
	if scanTimeoutFlag > 0 {
		timeout = time.Duration(scanTimeoutFlag) * time.Second
	}

	fmt.Printf("Scanning for Hello Fairy lights (%s)...\n\n", timeout)
	lights, err := discovery.ScanForLights(adapter, timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(lights) == 0 {
		fmt.Println(ui.RenderWarning("No Hello Fairy lights found", []string{
			"Make sure the light is powered on and within range",
			"Check that Bluetooth is enabled on this machine",
			"Close the vendor app; the light accepts a single connection",
			"Try a longer scan with --timeout 30",
			"Full guide: " + urls.TroubleshootingGuide,
		}))
		return nil
	}

	defaultAddr, _ := registry.ResolveTarget("")

	rows := make([]ui.LightRow, 0, len(lights))
	for _, l := range lights {
		row := ui.LightRow{
			Address: l.Address,
			Name:    l.Name,
			RSSI:    l.RSSI,
			Default: l.Address == defaultAddr,
		}
		if saved := registry.GetLight(l.Address); saved != nil {
			row.Nickname = saved.Nickname
		}
		rows = append(rows, row)
	}

	fmt.Printf("Found %d light(s):\n\n", len(lights))
	fmt.Println(ui.RenderLightsTable(rows, ui.GetTerminalWidth()))

	if scanSaveFlag {
		for _, l := range lights {
			registry.TouchSeen(l.Address, l.Name)
		}
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		if path, err := config.GetConfigPath(); err == nil {
			fmt.Printf("%s Saved %d light(s) to %s\n", ui.SuccessMarker, len(lights), path)
		}
	}

	fmt.Println()
	fmt.Println("Run 'fairyctl' to open the control panel, or 'fairyctl status -d <light>'")
	return nil
}

// --- lights ---

var lightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "List saved lights",
	Long: `Lights prints every light recorded in the registry along with its
nickname and whether it is the default target.`,
	RunE: runLights,
}

func runLights(cmd *cobra.Command, args []string) error {
	registry, err := setupRuntime()
	if err != nil {
		return err
	}

	if len(registry.Lights) == 0 {
		fmt.Println("No saved lights. Run 'fairyctl scan --save' to remember nearby lights.")
		return nil
	}

	defaultAddr, _ := registry.ResolveTarget("")

	addresses := make([]string, 0, len(registry.Lights))
	for address := range registry.Lights {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	rows := make([]ui.LightRow, 0, len(addresses))
	for _, address := range addresses {
		saved := registry.Lights[address]
		rows = append(rows, ui.LightRow{
			Address:  address,
			Name:     saved.Name,
			Nickname: saved.Nickname,
			Default:  address == defaultAddr,
		})
	}

	fmt.Println(ui.RenderLightsTable(rows, ui.GetTerminalWidth()))

	if path, err := config.GetConfigPath(); err == nil {
		fmt.Printf("\nRegistry: %s\n", path)
	}
	return nil
}

// --- on / off ---

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the light on",
	Example: `  fairyctl on
  fairyctl on --device bedroom`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPower(true)
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the light off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPower(false)
	},
}

func runPower(on bool) error {
	return withLight(ble.DefaultClientOptions(), func(ctx context.Context, registry *config.Registry, c *light.Controller) error {
		if err := c.SetPower(ctx, on); err != nil {
			return err
		}
		word := "off"
		if on {
			word = "on"
		}
		fmt.Printf("%s %s is now %s\n", ui.SuccessMarker, registry.DisplayName(c.Address()), word)
		return nil
	})
}

// --- color ---

var colorCmd = &cobra.Command{
	Use:   "color",
	Short: "Set a static color",
	Long: `Color switches the light to static color mode. Exactly one of --hex,
--rgb or --hsv selects the color.

Hue runs 0-359 degrees; saturation and value are percentages.`,
	Example: `  fairyctl color --hex "#FF8800"
  fairyctl color --rgb "255,136,0"
  fairyctl color --hsv "30,100,80"`,
	RunE: runColor,
}

func runColor(cmd *cobra.Command, args []string) error {
	set := 0
	for _, value := range []string{colorHexFlag, colorRGBFlag, colorHSVFlag} {
		if value != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("specify exactly one of --hex, --rgb or --hsv")
	}

	return withLight(ble.DefaultClientOptions(), func(ctx context.Context, registry *config.Registry, c *light.Controller) error {
		var desc string
		switch {
		case colorHexFlag != "":
			r, g, b, err := light.ParseHexColor(colorHexFlag)
			if err != nil {
				return err
			}
			if err := c.SetColorRGB(ctx, r, g, b); err != nil {
				return err
			}
			desc = fmt.Sprintf("#%02X%02X%02X", r, g, b)
		case colorRGBFlag != "":
			r, g, b, err := parseTriple(colorRGBFlag, "--rgb")
			if err != nil {
				return err
			}
			if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
				return fmt.Errorf("--rgb components must be 0-255, got %q", colorRGBFlag)
			}
			if err := c.SetColorRGB(ctx, uint8(r), uint8(g), uint8(b)); err != nil {
				return err
			}
			desc = fmt.Sprintf("#%02X%02X%02X", r, g, b)
		default:
			h, s, v, err := parseTriple(colorHSVFlag, "--hsv")
			if err != nil {
				return err
			}
			if err := c.SetColorHSV(ctx, h, s, v); err != nil {
				return err
			}
			desc = fmt.Sprintf("hue %d°, saturation %d%%, value %d%%", h, s, v)
		}

		fmt.Printf("%s Color set to %s\n", ui.SuccessMarker, desc)
		return nil
	})
}

// --- brightness ---

var brightnessCmd = &cobra.Command{
	Use:   "brightness <percent>",
	Short: "Set brightness in the active mode",
	Long: `Brightness adjusts the light's brightness between 0 and 100 percent.

In color mode this scales the color's value channel; in preset mode it
scales the animation brightness. The light must have reported its state
at least once, which happens shortly after connecting.`,
	Example: `  fairyctl brightness 60
  fairyctl brightness 100 --device FF:12:A8:33:0D:5A`,
	Args: cobra.ExactArgs(1),
	RunE: runBrightness,
}

func runBrightness(cmd *cobra.Command, args []string) error {
	percent, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid brightness %q: expected a number between 0 and 100", args[0])
	}

	return withLight(ble.DefaultClientOptions(), func(ctx context.Context, registry *config.Registry, c *light.Controller) error {
		if err := c.SetBrightness(ctx, percent); err != nil {
			return err
		}
		fmt.Printf("%s Brightness set to %d%%\n", ui.SuccessMarker, percent)

		registry.RememberLevels(c.Address(), 0, percent)
		if err := registry.Save(); err != nil {
			logging.Warn("failed to save registry", zap.Error(err))
		}
		return nil
	})
}

// --- preset / presets ---

var presetCmd = &cobra.Command{
	Use:   "preset [index]",
	Short: "Start a built-in animation preset",
	Long: fmt.Sprintf(`Preset switches the light to animation mode. Select the animation by
index (%d-%d) or with --name; 'fairyctl presets' lists the catalog.`,
		presets.MinIndex, presets.MaxIndex),
	Example: `  fairyctl preset 17
  fairyctl preset --name "Fireworks"
  fairyctl preset 3 --brightness 80`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreset,
}

func runPreset(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (presetNameFlag == "") {
		return fmt.Errorf("specify a preset index (%d-%d) or --name, but not both",
			presets.MinIndex, presets.MaxIndex)
	}

	index := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid preset index %q: expected a number between %d and %d",
				args[0], presets.MinIndex, presets.MaxIndex)
		}
		index = n
	} else {
		resolved, ok := presets.IndexOf(presetNameFlag)
		if !ok {
			return fmt.Errorf("unknown preset %q: run 'fairyctl presets' for the catalog", presetNameFlag)
		}
		index = resolved
	}

	return withLight(ble.DefaultClientOptions(), func(ctx context.Context, registry *config.Registry, c *light.Controller) error {
		withLevel := presetLevelFlag >= 0

		var err error
		if withLevel {
			err = c.SetPresetBrightness(ctx, index, presetLevelFlag)
		} else {
			err = c.SetPreset(ctx, index)
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s Preset set to %d · %s\n", ui.SuccessMarker, index, presets.Label(index))
		if withLevel {
			fmt.Printf("%s Brightness set to %d%%\n", ui.SuccessMarker, presetLevelFlag)
		}

		registry.RememberLevels(c.Address(), index, max(presetLevelFlag, 0))
		if err := registry.Save(); err != nil {
			logging.Warn("failed to save registry", zap.Error(err))
		}
		return nil
	})
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in animation presets",
	RunE:  runPresets,
}

func runPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("Built-in animation presets:")
	fmt.Println()
	for _, index := range presets.Indices() {
		name, _ := presets.NameOf(index)
		fmt.Printf("  %2d  %s\n", index, name)
	}
	fmt.Println()
	fmt.Printf("Any index from %d to %d is accepted; indices missing above play\n",
		presets.MinIndex, presets.MaxIndex)
	fmt.Println("animations that have no catalog name yet.")
	return nil
}

// --- status / watch ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the light's reported state",
	Long: `Status connects to the light and waits for it to report its state. The
light pushes a status notification shortly after a connection is
established and after every command.`,
	Example: `  fairyctl status
  fairyctl status --device bedroom --wait 10`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withLight(ble.DefaultClientOptions(), func(ctx context.Context, registry *config.Registry, c *light.Controller) error {
		waitCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(statusWaitFlag)*time.Second)
		defer cancel()

		status, err := c.Status(waitCtx)
		if err != nil {
			status = c.LastKnown()
			if !status.Known() {
				return fmt.Errorf("the light did not report its state within %ds: %w", statusWaitFlag, err)
			}
			fmt.Println("No fresh notification arrived; showing the last known state.")
			fmt.Println()
		}

		fmt.Println(buildStatusCard(registry, c, status).Render())
		return nil
	})
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream status notifications from the light",
	Long: `Watch stays connected and prints every status notification the light
sends until interrupted with Ctrl-C. The connection is re-established
automatically if the light drops it.`,
	Example: `  fairyctl watch
  fairyctl watch --device bedroom`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts := ble.DefaultClientOptions()
	opts.AutoReconnect = true

	return withLight(opts, func(_ context.Context, registry *config.Registry, c *light.Controller) error {
		address := c.Address()
		fmt.Println(ui.RenderCommandHeader("WATCHING LIGHT", "fairyctl watch",
			"Light", registry.DisplayName(address),
			"Address", address,
		))
		fmt.Println("Press Ctrl-C to stop.")
		fmt.Println()

		c.OnChange(func(status state.DeviceStatus, changes state.ChangeSet) {
			stamp := time.Now().Format("15:04:05")
			if fields := changes.Fields(); len(fields) > 0 {
				fmt.Printf("%s  %s  (%s)\n", stamp, status, strings.Join(fields, ", "))
				return
			}
			fmt.Printf("%s  %s\n", stamp, status)
		})
		c.OnConnectionChange(func(connected bool) {
			stamp := time.Now().Format("15:04:05")
			if connected {
				fmt.Printf("%s  link up\n", stamp)
			} else {
				fmt.Printf("%s  link lost, reconnecting...\n", stamp)
			}
		})

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		fmt.Println("\nStopped.")
		return nil
	})
}

// --- nickname / default / forget ---

var nicknameCmd = &cobra.Command{
	Use:   "nickname <light> <name>",
	Short: "Give a saved light a friendly name",
	Long: `Nickname stores a friendly name for a light. The nickname works as a
target everywhere an address does.`,
	Example: `  fairyctl nickname FF:12:A8:33:0D:5A bedroom
  fairyctl on --device bedroom`,
	Args: cobra.ExactArgs(2),
	RunE: runNickname,
}

func runNickname(cmd *cobra.Command, args []string) error {
	registry, err := setupRuntime()
	if err != nil {
		return err
	}

	target, nickname := args[0], args[1]
	address, ok := registry.ResolveTarget(target)
	if !ok {
		// Unknown target: accept it verbatim as an address so a light can
		// be named before its first scan.
		address = target
		registry.TouchSeen(address, "")
	}

	registry.SetNickname(address, nickname)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Println(ui.RenderSuccess("Nickname saved",
		"Light", address,
		"Nickname", nickname,
	))
	return nil
}

var defaultCmd = &cobra.Command{
	Use:   "default <light>",
	Short: "Set the default light",
	Long: `Default records which light commands target when --device is not given.
The light must already be in the registry.`,
	Example: `  fairyctl default bedroom`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDefault,
}

func runDefault(cmd *cobra.Command, args []string) error {
	registry, err := setupRuntime()
	if err != nil {
		return err
	}

	address, ok := registry.ResolveTarget(args[0])
	if !ok {
		return fmt.Errorf("no saved light matches %q: run 'fairyctl scan --save' first", args[0])
	}

	if registry.Preferences == nil {
		registry.Preferences = &config.Preferences{}
	}
	registry.Preferences.DefaultLight = address
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Printf("%s Default light set to %s (%s)\n", ui.SuccessMarker, registry.DisplayName(address), address)
	return nil
}

var forgetCmd = &cobra.Command{
	Use:   "forget <light>",
	Short: "Remove a light from the registry",
	Example: `  fairyctl forget bedroom
  fairyctl forget FF:12:A8:33:0D:5A --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	registry, err := setupRuntime()
	if err != nil {
		return err
	}

	address, ok := registry.ResolveTarget(args[0])
	if !ok {
		return fmt.Errorf("no saved light matches %q", args[0])
	}

	display := registry.DisplayName(address)
	if !forgetYesFlag && !ui.Confirm(fmt.Sprintf("Forget %s (%s)?", display, address)) {
		return nil
	}

	registry.Forget(address)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Printf("%s Forgot %s\n", ui.SuccessMarker, display)
	return nil
}

// --- panel ---

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive control panel",
	Long: `Panel opens the full-screen control panel. Without --device it starts on
the discovery screen; with --device it connects straight to the light's
dashboard.

Running fairyctl without any arguments does the same thing.`,
	RunE: runPanel,
}

func runPanel(cmd *cobra.Command, args []string) error {
	registry, err := setupRuntime()
	if err != nil {
		return err
	}

	adapter, err := newAdapter()
	if err != nil {
		return err
	}

	screen := tui.ScreenDiscovery
	var target *discovery.Light

	if deviceFlag != "" {
		address, ok := registry.ResolveTarget(deviceFlag)
		if !ok {
			fmt.Printf("Searching for %q...\n", deviceFlag)
			found, err := discovery.FindLight(adapter, deviceFlag)
			if err != nil {
				return fmt.Errorf("no light matching %q: %w", deviceFlag, err)
			}
			registry.TouchSeen(found.Address, found.Name)
			address = found.Address
		}
		target = savedLight(registry, address)
		screen = tui.ScreenDashboard
	} else if registry.Preferences != nil && registry.Preferences.AutoConnect &&
		registry.Preferences.DefaultLight != "" {
		if address, ok := registry.ResolveTarget(""); ok {
			target = savedLight(registry, address)
			screen = tui.ScreenDashboard
		}
	}

	model := tui.NewAppModel(adapter, registry, screen, target)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("panel failed: %w", err)
	}
	return nil
}

// --- shared plumbing ---

type controllerFunc func(ctx context.Context, registry *config.Registry, c *light.Controller) error

// withLight resolves the target light, connects and hands a live controller
// to fn. The connection is closed when fn returns. The context passed to fn
// carries the per-command timeout; long-running commands ignore it.
func withLight(opts ble.ClientOptions, fn controllerFunc) error {
	registry, err := setupRuntime()
	if err != nil {
		return err
	}

	adapter, err := newAdapter()
	if err != nil {
		return err
	}

	address, err := resolveAddress(registry, adapter)
	if err != nil {
		return err
	}

	c := light.NewController(ble.NewClient(adapter, address, opts))

	fmt.Printf("Connecting to %s...\n", registry.DisplayName(address))
	connectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	err = c.Connect(connectCtx)
	cancel()
	if err != nil {
		return connectError(address, err)
	}
	defer c.Close()

	registry.TouchSeen(address, "")
	if err := registry.Save(); err != nil {
		logging.Warn("failed to save registry", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return fn(ctx, registry, c)
}

// setupRuntime initializes logging and loads the light registry.
func setupRuntime() (*config.Registry, error) {
	if err := logging.Initialize(logLevelFlag); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return registry, nil
}

// newAdapter enables the platform BLE adapter.
func newAdapter() (ble.Adapter, error) {
	adapter := ble.NewNativeAdapter()
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable the bluetooth adapter: %w", err)
	}
	return adapter, nil
}

// resolveAddress turns --device (or the registry default) into a BLE
// address, falling back to a scan when the registry cannot answer.
func resolveAddress(registry *config.Registry, adapter ble.Adapter) (string, error) {
	if address, ok := registry.ResolveTarget(deviceFlag); ok {
		return address, nil
	}

	if deviceFlag != "" {
		fmt.Printf("Searching for %q...\n", deviceFlag)
		found, err := discovery.FindLight(adapter, deviceFlag)
		if err != nil {
			return "", fmt.Errorf("no light matching %q: %w", deviceFlag, err)
		}
		registry.TouchSeen(found.Address, found.Name)
		return found.Address, nil
	}

	fmt.Println("No light specified, scanning...")
	lights, err := discovery.QuickScan(adapter)
	if err != nil {
		return "", fmt.Errorf("scan failed: %w", err)
	}

	switch len(lights) {
	case 0:
		return "", fmt.Errorf("no Hello Fairy lights found: power the light on or pass --device")
	case 1:
		registry.TouchSeen(lights[0].Address, lights[0].Name)
		return lights[0].Address, nil
	default:
		fmt.Printf("Found %d lights:\n", len(lights))
		for i, l := range lights {
			fmt.Printf("  %d. %s\n", i+1, l)
		}
		return "", fmt.Errorf("multiple lights found: pick one with --device")
	}
}

// connectError attaches the troubleshooting hint to a failed connect.
func connectError(address string, err error) error {
	hint := light.GetTroubleshootingHint(err)
	if hint == "" || hint == err.Error() {
		return fmt.Errorf("failed to connect to %s: %w\n\nSee %s", address, err, urls.TroubleshootingGuide)
	}
	return fmt.Errorf("failed to connect to %s: %w\n\n%s\nSee %s", address, err, hint, urls.TroubleshootingGuide)
}

// savedLight builds a discovery record for a registered address.
func savedLight(registry *config.Registry, address string) *discovery.Light {
	l := &discovery.Light{Address: address, DiscoveredAt: time.Now()}
	if saved := registry.GetLight(address); saved != nil {
		l.Name = saved.Name
	}
	return l
}

// buildStatusCard fills a render-ready card from a status snapshot.
func buildStatusCard(registry *config.Registry, c *light.Controller, status state.DeviceStatus) *ui.StatusCard {
	address := c.Address()
	card := ui.NewStatusCard(registry.DisplayName(address), address)
	card.Connected = c.Connected()
	card.Known = status.Known()
	if !card.Known {
		return card
	}

	card.Power = status.Power.String()
	card.Mode = status.Mode.String()
	card.Updated = status.Updated

	switch {
	case status.Mode == protocol.ModeColor && status.Color != nil:
		h := int(status.Color.Hue)
		s := int(status.Color.Saturation) / 10
		v := int(status.Color.Value) / 10
		card.Hue, card.Saturation, card.Value = h, s, v
		card.R, card.G, card.B = light.HSVToRGB(h, s, v)
		card.Brightness = v
	case status.Mode == protocol.ModePreset && status.Preset != nil:
		card.PresetIndex = int(status.Preset.Index)
		card.PresetName = presets.Label(int(status.Preset.Index))
		card.Brightness = int(status.Preset.Brightness) / 10
	}
	return card
}

// registryScanTimeout returns the configured scan duration.
func registryScanTimeout(registry *config.Registry) time.Duration {
	if registry.Preferences != nil && registry.Preferences.ScanTimeout > 0 {
		return time.Duration(registry.Preferences.ScanTimeout) * time.Second
	}
	return 10 * time.Second
}

// parseTriple parses a comma separated number triple like "255,136,0".
func parseTriple(value, flag string) (int, int, int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%s expects three comma separated numbers, got %q", flag, value)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%s expects three comma separated numbers, got %q", flag, value)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}
