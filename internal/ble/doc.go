// Package ble provides the Bluetooth Low Energy transport for Hello
// Fairy lights: adapter abstraction, connection management and the
// client session used by every higher layer.
//
// # Architecture
//
// The package defines three small interfaces, Adapter, Connection and
// Characteristic, with one production implementation (NativeAdapter,
// backed by tinygo.org/x/bluetooth) and mock implementations in the
// tests. Everything above this package depends only on the interfaces,
// so controller and bridge logic is testable without a radio.
//
// # Client Sessions
//
// Client owns the session with a single light. Connect discovers the
// command and notify characteristics on the vendor UART service and
// subscribes to status notifications:
//
//	adapter := ble.NewNativeAdapter()
//	if err := adapter.Enable(); err != nil {
//		return err
//	}
//
//	client := ble.NewClient(adapter, address, ble.DefaultClientOptions())
//	client.OnNotification(func(data []byte) {
//		// parse and track
//	})
//	if err := client.Connect(ctx); err != nil {
//		return err
//	}
//	defer client.Close()
//
//	err := client.WriteCommand(frame)
//
// Commands are written without response and never queued: when the
// link is down WriteCommand fails with ErrNotConnected and the caller
// decides whether the command is still worth sending.
//
// # Reconnection
//
// With AutoReconnect enabled the client supervises the link and
// re-establishes dropped connections with exponential backoff (1s, 2s,
// 4s, ... capped at ReconnectMaxDelay). OnStateChange reports link
// transitions so interactive surfaces can show them.
package ble
