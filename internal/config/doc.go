// Package config provides user configuration management for the fairyctl project.
//
// This package manages a YAML-based configuration file that stores user-defined
// metadata for Hello Fairy lights, including nicknames, last-seen timestamps,
// remembered brightness levels, and application preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/fairyctl/lights.yaml or $HOME/.config/fairyctl/lights.yaml
//   - macOS: $HOME/.config/fairyctl/lights.yaml
//   - Windows: %LOCALAPPDATA%\fairyctl\lights.yaml
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Record a sighting and give the light a friendly name
//	registry.TouchSeen("A4:C1:38:12:34:56", "Hello Fairy-0D5A")
//	registry.SetNickname("A4:C1:38:12:34:56", "bedroom")
//
//	// Later, resolve whatever the user typed back to an address
//	address, ok := registry.ResolveTarget("bedroom")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Target Resolution
//
// Commands accept a light by BLE address, nickname, advertised name, or the
// unit suffix of the advertised name ("0D5A" for "Hello Fairy-0D5A"), all
// case-insensitive. With no target at all, ResolveTarget falls back to the
// default light preference, then to the only registered light.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
