// Package protocol implements the Hello Fairy binary protocol.
//
// This package handles construction and parsing of the command and status
// frames used by Hello Fairy BLE fairy lights. Commands are written to the
// light's command GATT characteristic; status frames arrive as notifications
// on the notify characteristic, including when state changes are made with
// the physical remote control.
//
// # Frame Overview
//
// Every command frame has this structure:
//   - Frame prefix: 0xAA
//   - Command type: 1 byte (0x02 power, 0x03 color/preset)
//   - Payload length: 1 byte
//   - Payload: variable length
//   - Checksum: 1 byte (8-bit sum of all preceding bytes)
//
// Multi-byte numeric fields are big-endian. The color command carries hue
// in degrees (0-359) and saturation/value in tenths of a percent (0-1000);
// the preset command carries a pattern index (1-58) and a brightness in the
// same 0-1000 units.
//
// # Status Notifications
//
// Status frames are parsed positionally: power at byte 6, mode at byte 7,
// then the mode's payload from byte 8 (HSV for color mode, index plus
// brightness for preset mode). The offsets live in StatusLayout so firmware
// variants with shifted fields can be handled without a second parser.
// Inbound checksums are not verified; the device's outbound checksum and
// ack behavior is unconfirmed.
//
// # Usage Example - Construction
//
//	frame, err := protocol.BuildColorFrame(protocol.ColorHSV{
//	    Hue:        210,
//	    Saturation: 850,
//	    Value:      1000,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Write frame to the command characteristic
//
// # Usage Example - Parsing
//
//	status, err := protocol.ParseStatus(notification)
//	if err != nil {
//	    // Recoverable: drop the frame, keep prior state
//	    return
//	}
//	fmt.Println(status)
//
// # Error Handling
//
// Encode errors (ErrOutOfRange) are synchronous and mean the command was
// never built; they indicate a caller bug. Decode errors (ErrTooShort,
// ErrUnknownPower, ErrUnknownMode) are recoverable: the notification is
// dropped and the previous device state is retained. IsRecoverable
// distinguishes the two classes. No fatal errors originate here.
//
// # Thread Safety
//
// All construction and parsing functions are stateless and safe for
// concurrent use.
package protocol
