// Fairy-bridge exposes a Hello Fairy BLE light over a WebSocket API.
//
// It connects to one light and serves JSON commands and status pushes to
// WebSocket clients, so systems without Bluetooth (or out of radio range)
// can drive the light through the machine running the bridge. The bridge
// advertises itself via mDNS for discovery.
//
// Usage:
//
//	fairy-bridge serve [flags]
//
// See 'fairy-bridge serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/fairyctl/internal/ble"
	"github.com/muurk/fairyctl/internal/bridge"
	"github.com/muurk/fairyctl/internal/config"
	"github.com/muurk/fairyctl/internal/discovery"
	"github.com/muurk/fairyctl/internal/light"
	"github.com/muurk/fairyctl/internal/logging"
	"github.com/muurk/fairyctl/internal/urls"
	"github.com/muurk/fairyctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fairy-bridge",
	Short: "WebSocket bridge for Hello Fairy lights",
	Long: `A daemon that connects to one Hello Fairy light over Bluetooth and
exposes it to WebSocket clients.

Clients send JSON commands (power, color, brightness, presets) and receive
status pushes for every change the light reports, including changes made
with the physical remote. The wire format is documented at
` + urls.BridgeAPI + `

Note: for direct command-line control, use the separate 'fairyctl' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host           string
	port           int
	device         string
	logLevel       string
	announce       bool
	connectTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to a light and start the bridge",
	Long: `Connect to a Hello Fairy light and serve it over WebSocket.

The light may be given as a BLE address, a saved nickname, an advertised
name ("Hello Fairy-0D5A") or its unit suffix ("0D5A"). With no --device
flag the bridge uses the registry's default light, or the only light the
registry knows. Lights not in the registry are found by scanning.

The Bluetooth link is kept alive with automatic reconnection; clients stay
connected while the light is out of range and commands fail cleanly until
it returns.`,
	Example: `  # Bridge the registry's default light on the default port
  fairy-bridge serve

  # Bridge a specific light with verbose logging
  fairy-bridge serve --device bedroom --log-level debug

  # Custom port, no mDNS advertisement
  fairy-bridge serve --device 0D5A --port 9000 --announce=false`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8533, "Listen port")
	serveCmd.Flags().StringVar(&device, "device", "", "Light to bridge: address, nickname, name or name suffix")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&announce, "announce", true, "Advertise the bridge via mDNS")
	serveCmd.Flags().DurationVar(&connectTimeout, "connect-timeout", 30*time.Second, "Time to wait for the initial connection")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load light registry: %w", err)
	}

	adapter := ble.NewNativeAdapter()
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable the Bluetooth adapter: %w", err)
	}

	address, ok := registry.ResolveTarget(device)
	if !ok {
		if device == "" {
			return fmt.Errorf("no light specified: pass --device, or save one with 'fairyctl scan --save'")
		}
		// Not in the registry; find it on the air
		found, err := discovery.FindLight(adapter, device)
		if err != nil {
			return fmt.Errorf("light %q not found: %w", device, err)
		}
		address = found.Address
		registry.TouchSeen(found.Address, found.Name)
		if err := registry.Save(); err != nil {
			logging.Warn("Failed to save light registry", zap.Error(err))
		}
	}

	opts := ble.DefaultClientOptions()
	opts.ConnectTimeout = connectTimeout
	opts.AutoReconnect = true
	client := ble.NewClient(adapter, address, opts)
	controller := light.NewController(client)

	b, err := bridge.New(&bridge.Config{
		Host:      host,
		Port:      port,
		LogLevel:  logLevel,
		Announce:  announce,
		LightName: registry.DisplayName(address),
	}, controller)
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := controller.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s: %w\n\n%s",
			address, err, light.GetTroubleshootingHint(err))
	}
	defer func() { _ = controller.Close() }()

	return b.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fairy-bridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
