// Package discovery provides BLE advertisement scanning for Hello
// Fairy lights.
//
// Hello Fairy lights advertise a local name of the form "Hello
// Fairy-XXXX" and carry the vendor transparent UART service. The
// scanner matches either signal, since some firmware revisions omit
// the service UUID from the advertisement.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Starts a BLE scan on the system radio
//  2. Filters advertisements by name prefix or service UUID
//  3. Collapses repeated advertisements per light, keeping the latest RSSI
//  4. Returns the lights sorted strongest signal first after the timeout
//
// # Usage Example
//
//	adapter := ble.NewNativeAdapter()
//	if err := adapter.Enable(); err != nil {
//	    log.Fatal(err)
//	}
//
//	lights, err := discovery.ScanForLights(adapter, 10*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, light := range lights {
//	    fmt.Printf("Found: %s at %s (%d dBm)\n",
//	        light.Name, light.Address, light.RSSI)
//	}
//
// # Light Information
//
// Each discovered light includes:
//   - Name: advertised local name (e.g., "Hello Fairy-0D2A")
//   - Address: platform device address (MAC on Linux, UUID on macOS)
//   - RSSI: signal strength of the latest advertisement in dBm
//   - DiscoveredAt: time of the latest advertisement
//
// # Radio Requirements
//
// - Requires a powered Bluetooth LE adapter
// - Lights must be in radio range and not connected to another central
//
// # Thread Safety
//
// Scanner methods are safe for concurrent use, but most BLE stacks
// support only one active scan per adapter at a time.
package discovery
