// Package bridge exposes one connected Hello Fairy light over a WebSocket
// API so non-BLE clients (home automation hubs, phones off the Bluetooth
// range, scripts) can drive it through the machine running the bridge.
//
// # Protocol
//
// Clients connect to ws://host:port/ws and exchange JSON messages. Every
// request carries an "op" field:
//
//	{"op": "set_power", "on": true}
//	{"op": "set_color", "hex": "#FF8800"}
//	{"op": "set_color", "rgb": [255, 136, 0]}
//	{"op": "set_color", "hsv": [210, 82, 30]}
//	{"op": "set_brightness", "brightness": 40}
//	{"op": "set_preset", "preset": 17, "brightness": 50}
//	{"op": "set_effect", "effect": "Fireworks"}
//	{"op": "get_status"}
//
// Saturation, value and brightness are percentages; RGB components are
// 0-255; hue is 0-359 degrees.
//
// Replies are one of three events:
//
//	{"event": "ok", "op": "set_power"}
//	{"event": "error", "op": "set_color", "message": "...", "hint": "..."}
//	{"event": "status", "known": true, "power": "on", "mode": "color",
//	 "hsv": [210, 82, 30], "rgb": [13, 39, 77], "brightness": 30, ...}
//
// Status events are also pushed unsolicited to every client whenever the
// light reports a change, including changes made with the physical
// remote; the "changed" array names the fields that differ from the
// previous snapshot. A fresh client receives the current snapshot
// immediately after connecting.
//
// # Discovery
//
// With Announce enabled the bridge registers itself via mDNS as a
// _fairy-bridge._tcp service; the TXT record carries the light's BLE
// address and the bridge version.
//
// # Graceful Shutdown
//
// Start blocks until SIGINT or SIGTERM, then stops accepting clients,
// closes the open WebSocket sessions and waits for their goroutines to
// unwind before returning.
package bridge
