package protocol

import (
	"encoding/binary"
)

// Command constructor library for building frames to send to a Hello Fairy
// light. Frame layouts were reconstructed from the esphome fairy.yaml
// capture and verified against the vendor app's BLE traffic.

// BuildPowerFrame constructs a power on/off command frame
//
// Frame structure:
//
//	[0]   0xAA    Frame prefix (FramePrefix)
//	[1]   0x02    Command type (CmdPower)
//	[2]   0x01    Payload length
//	[3]   state   0x01 = on, 0x00 = off
//	[4]   CC      Checksum over bytes 0-3
//
// Only two frames are possible and both are fixed byte strings:
// on is aa 02 01 01 ae, off is aa 02 01 00 ad.
func BuildPowerFrame(on bool) []byte {
	frame := make([]byte, PowerFrameSize)
	frame[0] = FramePrefix
	frame[1] = CmdPower
	frame[2] = 0x01
	if on {
		frame[3] = 0x01
	} else {
		frame[3] = 0x00
	}
	frame[4] = Checksum(frame[:4])
	return frame
}

// BuildColorFrame constructs a static color command frame
//
// Frame structure:
//
//	[0]     0xAA    Frame prefix (FramePrefix)
//	[1]     0x03    Command type (CmdColorPreset)
//	[2]     0x07    Payload length
//	[3]     0x01    Mode selector (ModeColor)
//	[4-5]   hue     Degrees 0-359 (big-endian uint16)
//	[6-7]   sat     0-1000 (big-endian uint16)
//	[8-9]   value   0-1000 (big-endian uint16)
//	[10]    CC      Checksum over bytes 0-9
//
// Returns ErrOutOfRange (wrapped) when any field is outside its domain;
// the frame is never built with wrapped or clamped values.
func BuildColorFrame(c ColorHSV) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	frame := make([]byte, ColorFrameSize)
	frame[0] = FramePrefix
	frame[1] = CmdColorPreset
	frame[2] = 0x07
	frame[3] = byte(ModeColor)
	binary.BigEndian.PutUint16(frame[4:6], c.Hue)
	binary.BigEndian.PutUint16(frame[6:8], c.Saturation)
	binary.BigEndian.PutUint16(frame[8:10], c.Value)
	frame[10] = Checksum(frame[:10])

	return frame, nil
}

// BuildPresetFrame constructs a preset pattern command frame
//
// Frame structure:
//
//	[0]     0xAA    Frame prefix (FramePrefix)
//	[1]     0x03    Command type (CmdColorPreset)
//	[2]     0x04    Payload length
//	[3]     0x02    Mode selector (ModePreset)
//	[4]     index   Pattern number 1-58
//	[5-6]   value   Brightness 0-1000 (big-endian uint16)
//	[7]     CC      Checksum over bytes 0-6
//
// Returns ErrOutOfRange (wrapped) for an index outside 1-58 or a
// brightness above 1000.
func BuildPresetFrame(sel PresetSelection) ([]byte, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	frame := make([]byte, PresetFrameSize)
	frame[0] = FramePrefix
	frame[1] = CmdColorPreset
	frame[2] = 0x04
	frame[3] = byte(ModePreset)
	frame[4] = sel.Index
	binary.BigEndian.PutUint16(frame[5:7], sel.Brightness)
	frame[7] = Checksum(frame[:7])

	return frame, nil
}
