package ble

import "context"

// Characteristic represents a BLE GATT characteristic.
type Characteristic interface {
	// Write sends data to the characteristic without response.
	Write(data []byte) error
	// Subscribe registers a callback for notifications on this characteristic.
	Subscribe(callback func(data []byte)) error
}

// Peripheral represents a discovered BLE peripheral. Address is the
// platform's device identifier: a MAC address on Linux and Windows, a
// CoreBluetooth UUID on macOS.
type Peripheral struct {
	Name    string
	Address string
	RSSI    int
}

// ScanFilter selects which advertisements a scan reports. A peripheral
// matches when it advertises ServiceUUID or its local name starts with
// NamePrefix; an empty filter matches everything.
type ScanFilter struct {
	ServiceUUID string
	NamePrefix  string
}

// Connection represents an active BLE connection to a peripheral.
type Connection interface {
	// DiscoverCharacteristic finds a characteristic by UUID within a service.
	DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error)
	// Disconnect terminates the connection.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the connection drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the BLE hardware adapter for testing.
type Adapter interface {
	// Enable powers on the BLE adapter. Call once before any other method.
	Enable() error
	// Scan reports matching advertisements to found until ctx is done.
	// The same peripheral may be reported more than once; callers dedupe.
	Scan(ctx context.Context, filter ScanFilter, found func(Peripheral)) error
	// Connect establishes a connection to the peripheral with the given
	// address.
	Connect(ctx context.Context, address string) (Connection, error)
}
