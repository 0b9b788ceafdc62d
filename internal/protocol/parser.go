package protocol

import (
	"encoding/binary"
	"fmt"
)

// StatusLayout fixes the byte offsets used to read a status notification.
// The known firmware places power at byte 6, mode at byte 7 and the mode's
// payload from byte 8; rebadged variants ("Minetom" and similar clones) may
// shift these, so the offsets are a parameter rather than constants.
type StatusLayout struct {
	PowerOffset   int // power state byte
	ModeOffset    int // mode byte
	PayloadOffset int // first byte of the mode-specific payload
}

// DefaultLayout matches every Hello Fairy unit observed so far.
var DefaultLayout = StatusLayout{
	PowerOffset:   6,
	ModeOffset:    7,
	PayloadOffset: 8,
}

// minSize is the smallest frame length worth classifying: power, mode and
// at least one payload byte must be present. Offsets are assumed ordered
// power < mode < payload.
func (l StatusLayout) minSize() int {
	return l.PayloadOffset + 1
}

// colorSize is the minimum frame length for a color mode payload:
// three big-endian uint16 fields from PayloadOffset
func (l StatusLayout) colorSize() int {
	return l.PayloadOffset + 6
}

// presetSize is the minimum frame length for a preset mode payload:
// index byte plus big-endian uint16 brightness from PayloadOffset
func (l StatusLayout) presetSize() int {
	return l.PayloadOffset + 3
}

// ParsedStatus is the decoded form of one status notification. Exactly one
// of Color or Preset is set, matching the mode the device reported.
type ParsedStatus struct {
	Power  PowerState
	Mode   Mode
	Color  *ColorHSV        // set when Mode == ModeColor
	Preset *PresetSelection // set when Mode == ModePreset
	Raw    []byte           // original notification bytes for debugging
}

// String returns a debug representation of the status
func (s *ParsedStatus) String() string {
	switch {
	case s.Color != nil:
		return fmt.Sprintf("Status{power=%s, mode=%s, %s}", s.Power, s.Mode, s.Color)
	case s.Preset != nil:
		return fmt.Sprintf("Status{power=%s, mode=%s, %s}", s.Power, s.Mode, s.Preset)
	default:
		return fmt.Sprintf("Status{power=%s, mode=%s}", s.Power, s.Mode)
	}
}

// ParseStatus decodes a status notification using DefaultLayout.
//
// The device pushes these frames on the notify characteristic whenever its
// state changes, including changes made with the physical remote. Frames
// are parsed positionally; trailing bytes beyond the mode's payload are
// ignored and the checksum trailer is not verified (see Checksum).
//
// The device also emits short replies after accepted commands (observed as
// 4-byte echoes of the command type). Their meaning is unconfirmed and they
// are not modeled; they surface here as ErrTooShort and callers drop them.
func ParseStatus(raw []byte) (*ParsedStatus, error) {
	return ParseStatusWithLayout(raw, DefaultLayout)
}

// ParseStatusWithLayout decodes a status notification with explicit byte
// offsets. Every error is recoverable: the caller keeps its previous state
// and continues processing later notifications.
func ParseStatusWithLayout(raw []byte, layout StatusLayout) (*ParsedStatus, error) {
	if len(raw) < layout.minSize() {
		return nil, fmt.Errorf("status frame too short: %d bytes (minimum %d): %w",
			len(raw), layout.minSize(), ErrTooShort)
	}

	status := &ParsedStatus{Raw: raw}

	switch raw[layout.PowerOffset] {
	case byte(PowerOff):
		status.Power = PowerOff
	case byte(PowerOn):
		status.Power = PowerOn
	default:
		return nil, fmt.Errorf("power byte 0x%02x at offset %d: %w",
			raw[layout.PowerOffset], layout.PowerOffset, ErrUnknownPower)
	}

	// Mode and its payload are parsed even when the light reports power
	// off; the device keeps publishing the inactive payload unchanged.
	mode := Mode(raw[layout.ModeOffset])
	switch mode {
	case ModeColor:
		if len(raw) < layout.colorSize() {
			return nil, fmt.Errorf("color status too short: %d bytes (minimum %d): %w",
				len(raw), layout.colorSize(), ErrTooShort)
		}
		off := layout.PayloadOffset
		status.Mode = ModeColor
		status.Color = &ColorHSV{
			Hue:        binary.BigEndian.Uint16(raw[off : off+2]),
			Saturation: binary.BigEndian.Uint16(raw[off+2 : off+4]),
			Value:      binary.BigEndian.Uint16(raw[off+4 : off+6]),
		}

	case ModePreset:
		if len(raw) < layout.presetSize() {
			return nil, fmt.Errorf("preset status too short: %d bytes (minimum %d): %w",
				len(raw), layout.presetSize(), ErrTooShort)
		}
		off := layout.PayloadOffset
		status.Mode = ModePreset
		status.Preset = &PresetSelection{
			Index:      raw[off],
			Brightness: binary.BigEndian.Uint16(raw[off+1 : off+3]),
		}

	default:
		return nil, fmt.Errorf("mode byte 0x%02x at offset %d: %w",
			byte(mode), layout.ModeOffset, ErrUnknownMode)
	}

	return status, nil
}
