// Package light implements the device semantics of Hello Fairy lights
// on top of the frame codec and the BLE transport.
//
// The Controller is the API the CLI, TUI and bridge all drive. It owns
// a BLE session and a state tracker, and translates user-level
// operations into protocol frames:
//
//   - range checking in user units (degrees, percent) before scaling
//     to device units
//   - power sequencing: the light ignores color and preset writes
//     while off, so those operations power it on first
//   - brightness as a re-send of the active mode's frame, since the
//     protocol has no standalone brightness operation
//   - status via the push model: the light reports state on connect
//     and after every applied command, and Status waits for the next
//     push instead of polling
//
// # Usage Example
//
//	client := ble.NewClient(adapter, address, ble.DefaultClientOptions())
//	ctrl := light.NewController(client)
//	if err := ctrl.Connect(ctx); err != nil {
//	    return err
//	}
//	defer ctrl.Close()
//
//	if err := ctrl.SetColorHSV(ctx, 210, 85, 100); err != nil {
//	    return err
//	}
//
//	status, err := ctrl.Status(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(status)
//
// # Error Handling
//
// Operations return *LightError with a category (connection, write,
// protocol, validation, state, timeout) and a Retryable flag.
// GetShortErrorMessage and GetTroubleshootingHint turn them into
// user-facing text for the CLI.
//
// # Change Notifications
//
// OnChange fires with the new snapshot and the changed fields whenever
// a status push alters the reconciled state. The TUI renders from it
// and the bridge broadcasts it; hooks run on the notification
// goroutine and must not block.
package light
