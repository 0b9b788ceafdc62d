package gatt

import "strings"

// GATT identifiers for the Hello Fairy custom service, recovered from the
// esphome fairy.yaml capture. The service rides on a stock ISSC/Microchip
// transparent UART module, which is why the UUIDs carry the 49535343
// ("ISSC") vendor stem.

// ServiceUUID is the primary service advertised by every Hello Fairy unit.
const ServiceUUID = "49535343-fe7d-4ae5-8fa9-9fafd205e455"

// CommandCharUUID accepts command frames via write without response.
const CommandCharUUID = "49535343-8841-43f4-a8d4-ecbe34729bb3"

// NotifyCharUUID pushes status frames whenever the light's state changes,
// including changes made with the physical remote.
const NotifyCharUUID = "49535343-1E4D-4BD9-BA61-23C647249616"

// NamePrefix is the advertised local name prefix shared by all units; the
// suffix differs per unit (serial fragment).
const NamePrefix = "Hello Fairy-"

// MatchesName reports whether an advertised local name identifies a Hello
// Fairy light.
func MatchesName(localName string) bool {
	return strings.HasPrefix(localName, NamePrefix)
}
