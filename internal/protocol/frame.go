package protocol

import (
	"errors"
	"fmt"
)

// Frame constants shared by every command and notification.
const (
	// FramePrefix opens every frame in both directions
	FramePrefix = 0xAA

	// Command type bytes (second byte of a command frame)
	CmdPower       = 0x02 // power on/off
	CmdColorPreset = 0x03 // color set and preset select share this type

	// Frame sizes for the three known commands
	PowerFrameSize  = 5  // prefix + type + length + state + checksum
	ColorFrameSize  = 11 // prefix + type + length + mode + H(2) + S(2) + V(2) + checksum
	PresetFrameSize = 8  // prefix + type + length + mode + index + V(2) + checksum
)

// Numeric domains for command fields. The device rejects or misrenders
// values outside these ranges, so encoding refuses them up front.
const (
	MaxHue        = 359  // degrees
	MaxSaturation = 1000 // device units, tenths of a percent
	MaxValue      = 1000 // device units, tenths of a percent
	MinPreset     = 1
	MaxPreset     = 58
)

// Error classes for encode and decode failures. Encode errors mean the
// caller passed a value outside the documented domain and the command was
// never built. Decode errors mean the device sent a frame this codec
// cannot interpret; the caller drops the frame and keeps its prior state.
var (
	ErrOutOfRange   = errors.New("value out of range")
	ErrTooShort     = errors.New("frame too short")
	ErrUnknownPower = errors.New("unrecognized power byte")
	ErrUnknownMode  = errors.New("unrecognized mode byte")
)

// IsRecoverable reports whether err is a decode-side failure that should be
// logged and dropped without disturbing the notification path.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrUnknownPower) ||
		errors.Is(err, ErrUnknownMode)
}

// PowerState mirrors the device's power byte.
type PowerState byte

const (
	PowerOff PowerState = 0x00
	PowerOn  PowerState = 0x01
)

// String returns a human-readable power state name
func (p PowerState) String() string {
	switch p {
	case PowerOff:
		return "off"
	case PowerOn:
		return "on"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(p))
	}
}

// Mode mirrors the device's mode byte. The light is always in exactly one
// mode; selecting a preset leaves color mode and vice versa.
type Mode byte

const (
	ModeColor  Mode = 0x01 // static HSV color
	ModePreset Mode = 0x02 // built-in animated pattern
)

// String returns a human-readable mode name
func (m Mode) String() string {
	switch m {
	case ModeColor:
		return "color"
	case ModePreset:
		return "preset"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(m))
	}
}

// ColorHSV is a color in the device's native HSV encoding. Hue is in
// degrees; saturation and value are in tenths of a percent, so 1000 means
// 100%. Immutable value type.
type ColorHSV struct {
	Hue        uint16 // 0-359 degrees
	Saturation uint16 // 0-1000
	Value      uint16 // 0-1000, doubles as brightness
}

// Validate checks every field against its documented domain
func (c ColorHSV) Validate() error {
	if c.Hue > MaxHue {
		return fmt.Errorf("hue %d exceeds %d: %w", c.Hue, MaxHue, ErrOutOfRange)
	}
	if c.Saturation > MaxSaturation {
		return fmt.Errorf("saturation %d exceeds %d: %w", c.Saturation, MaxSaturation, ErrOutOfRange)
	}
	if c.Value > MaxValue {
		return fmt.Errorf("value %d exceeds %d: %w", c.Value, MaxValue, ErrOutOfRange)
	}
	return nil
}

// String returns a debug representation in device units
func (c ColorHSV) String() string {
	return fmt.Sprintf("hsv(%d, %d, %d)", c.Hue, c.Saturation, c.Value)
}

// PresetSelection names one of the device's built-in animated patterns
// together with a brightness level. Index 0 is never valid.
type PresetSelection struct {
	Index      uint8  // 1-58
	Brightness uint16 // 0-1000
}

// Validate checks the preset index and brightness domains
func (p PresetSelection) Validate() error {
	if p.Index < MinPreset || p.Index > MaxPreset {
		return fmt.Errorf("preset index %d outside %d-%d: %w", p.Index, MinPreset, MaxPreset, ErrOutOfRange)
	}
	if p.Brightness > MaxValue {
		return fmt.Errorf("brightness %d exceeds %d: %w", p.Brightness, MaxValue, ErrOutOfRange)
	}
	return nil
}

// String returns a debug representation
func (p PresetSelection) String() string {
	return fmt.Sprintf("preset(%d, brightness=%d)", p.Index, p.Brightness)
}

// Checksum computes the trailing checksum byte for a frame: the sum of
// every byte from the prefix through the last payload byte, truncated to
// the low 8 bits. Every outbound frame ends with this value. Notifications
// appear to carry the same trailer but the device's outbound contract is
// unconfirmed, so parsing does not verify it; keeping the computation here
// in one place lets verification be added without touching the parser.
func Checksum(data []byte) byte {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return byte(sum % 256)
}

// ValidateFrame validates an outbound command frame structure
//
// Checks prefix, declared payload length, and the checksum trailer.
// Useful for testing and debugging outgoing commands; inbound frames are
// never validated this way.
func ValidateFrame(frame []byte) error {
	if len(frame) < PowerFrameSize {
		return fmt.Errorf("frame too small: %d bytes (minimum %d)", len(frame), PowerFrameSize)
	}
	if frame[0] != FramePrefix {
		return fmt.Errorf("invalid prefix byte: 0x%02x (expected 0x%02x)", frame[0], FramePrefix)
	}
	if !isKnownCommand(frame[1]) {
		return fmt.Errorf("unknown command type: 0x%02x", frame[1])
	}

	// Declared payload length must account for every byte between the
	// length field and the checksum
	payloadLen := int(frame[2])
	if len(frame) != 3+payloadLen+1 {
		return fmt.Errorf("frame size %d does not match declared payload length %d", len(frame), payloadLen)
	}

	want := Checksum(frame[:len(frame)-1])
	if got := frame[len(frame)-1]; got != want {
		return fmt.Errorf("checksum mismatch: 0x%02x (expected 0x%02x)", got, want)
	}

	return nil
}

// isKnownCommand checks if a command type byte is recognized
func isKnownCommand(cmd byte) bool {
	switch cmd {
	case CmdPower, CmdColorPreset:
		return true
	default:
		return false
	}
}

// CommandName returns a human-readable name for a command type byte
func CommandName(cmd byte) string {
	switch cmd {
	case CmdPower:
		return "Power"
	case CmdColorPreset:
		return "ColorPreset"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", cmd)
	}
}
