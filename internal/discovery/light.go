package discovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/muurk/fairyctl/internal/gatt"
)

// Light represents a discovered Hello Fairy light.
type Light struct {
	// Name is the advertised local name (e.g., "Hello Fairy-0D2A")
	Name string

	// Address is the platform device address: a MAC address on Linux
	// and Windows, a CoreBluetooth UUID on macOS
	Address string

	// RSSI is the signal strength of the latest advertisement in dBm
	RSSI int

	// DiscoveredAt is when the latest advertisement was received
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the light
func (l *Light) String() string {
	name := l.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s (%s) RSSI %d dBm", name, l.Address, l.RSSI)
}

// ShortID returns the unit suffix of the advertised name (e.g., "0D2A"
// for "Hello Fairy-0D2A"), or an empty string when the name does not
// carry the expected prefix.
func (l *Light) ShortID() string {
	if !gatt.MatchesName(l.Name) {
		return ""
	}
	return strings.TrimPrefix(l.Name, gatt.NamePrefix)
}

// Matches reports whether the light is identified by target: its
// address (case-insensitive), its full advertised name, or its ShortID.
func (l *Light) Matches(target string) bool {
	if target == "" {
		return false
	}
	if strings.EqualFold(l.Address, target) {
		return true
	}
	if l.Name != "" && l.Name == target {
		return true
	}
	if id := l.ShortID(); id != "" && strings.EqualFold(id, target) {
		return true
	}
	return false
}
