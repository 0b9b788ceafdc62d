package config

import (
	"strings"
	"time"

	"github.com/muurk/fairyctl/internal/gatt"
)

// Registry represents the entire user configuration file.
// This stores user-defined metadata for lights and application preferences.
type Registry struct {
	Version     int               `yaml:"version"`
	Lights      map[string]*Light `yaml:"lights,omitempty"` // Keyed by BLE address
	Preferences *Preferences      `yaml:"preferences,omitempty"`
}

// Light represents user-defined metadata for a single Hello Fairy light.
// This is keyed by the light's BLE address in the Registry.
type Light struct {
	Nickname       string    `yaml:"nickname,omitempty"`        // User-friendly name
	Name           string    `yaml:"name,omitempty"`            // Advertised name at last sighting
	FirstSeen      time.Time `yaml:"first_seen,omitempty"`      // First discovery time
	LastSeen       time.Time `yaml:"last_seen,omitempty"`       // Last discovery/connection time
	LastPreset     int       `yaml:"last_preset,omitempty"`     // Last activated pattern index
	LastBrightness int       `yaml:"last_brightness,omitempty"` // Last set brightness in percent
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultLight string `yaml:"default_light,omitempty"` // Address or nickname used when no target is given
	ScanTimeout  int    `yaml:"scan_timeout"`            // BLE scan timeout in seconds
	AutoConnect  bool   `yaml:"auto_connect"`            // Connect to the default light on TUI startup
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Lights:  make(map[string]*Light),
		Preferences: &Preferences{
			ScanTimeout: 10,
			AutoConnect: true,
		},
	}
}

// GetLight retrieves light metadata by BLE address.
// Returns nil if the light doesn't exist in the registry.
func (r *Registry) GetLight(address string) *Light {
	return r.Lights[address]
}

// EnsureLight ensures a light entry exists in the registry.
// If the light doesn't exist, creates a new entry with default values.
// Returns the light entry (existing or newly created).
func (r *Registry) EnsureLight(address string) *Light {
	if r.Lights == nil {
		r.Lights = make(map[string]*Light)
	}

	if light, exists := r.Lights[address]; exists {
		return light
	}

	light := &Light{}
	r.Lights[address] = light
	return light
}

// TouchSeen records a sighting of a light: updates the advertised name
// and the last seen timestamp, and sets the first seen timestamp once.
func (r *Registry) TouchSeen(address, name string) {
	light := r.EnsureLight(address)
	light.LastSeen = time.Now()
	if name != "" {
		light.Name = name
	}
	if light.FirstSeen.IsZero() {
		light.FirstSeen = light.LastSeen
	}
}

// SetNickname sets a user-friendly nickname for a light.
func (r *Registry) SetNickname(address, nickname string) {
	light := r.EnsureLight(address)
	light.Nickname = nickname
}

// RememberLevels stores the last activated preset and brightness so the
// next session can restore them. Zero values leave the stored ones.
func (r *Registry) RememberLevels(address string, preset, brightness int) {
	light := r.EnsureLight(address)
	if preset > 0 {
		light.LastPreset = preset
	}
	if brightness > 0 {
		light.LastBrightness = brightness
	}
}

// Forget removes a light from the registry. Reports whether an entry
// was removed. Clears the default light preference when it pointed at
// the removed entry.
func (r *Registry) Forget(address string) bool {
	if _, exists := r.Lights[address]; !exists {
		return false
	}
	delete(r.Lights, address)

	if r.Preferences != nil && r.Preferences.DefaultLight != "" {
		if resolved, ok := r.ResolveTarget(r.Preferences.DefaultLight); !ok || resolved == address {
			r.Preferences.DefaultLight = ""
		}
	}
	return true
}

// ResolveTarget maps a user-supplied target to a registered address.
// The target may be an address, a nickname, an advertised name or the
// unit suffix of one (all case-insensitive). An empty target resolves
// to the default light preference, or to the only registered light.
func (r *Registry) ResolveTarget(target string) (string, bool) {
	if target == "" {
		if r.Preferences != nil && r.Preferences.DefaultLight != "" {
			return r.ResolveTarget(r.Preferences.DefaultLight)
		}
		if len(r.Lights) == 1 {
			for address := range r.Lights {
				return address, true
			}
		}
		return "", false
	}

	for address, light := range r.Lights {
		if strings.EqualFold(address, target) {
			return address, true
		}
		if light.Nickname != "" && strings.EqualFold(light.Nickname, target) {
			return address, true
		}
		if light.Name != "" && strings.EqualFold(light.Name, target) {
			return address, true
		}
		if gatt.MatchesName(light.Name) &&
			strings.EqualFold(strings.TrimPrefix(light.Name, gatt.NamePrefix), target) {
			return address, true
		}
	}
	return "", false
}

// DisplayName returns the best human name for a registered light:
// nickname, then advertised name, then the address itself.
func (r *Registry) DisplayName(address string) string {
	light := r.GetLight(address)
	if light == nil {
		return address
	}
	if light.Nickname != "" {
		return light.Nickname
	}
	if light.Name != "" {
		return light.Name
	}
	return address
}
