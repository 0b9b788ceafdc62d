// Package gatt provides centralized constants for the Hello Fairy BLE
// identifiers used throughout the application.
//
// The service and characteristic UUIDs were reverse-engineered once and
// must match the device advertisement bit for bit; defining them here keeps
// every transport and discovery path reading from a single location.
//
// Usage:
//
//	import "github.com/muurk/fairyctl/internal/gatt"
//
//	char, err := conn.DiscoverCharacteristic(gatt.ServiceUUID, gatt.CommandCharUUID)
package gatt
