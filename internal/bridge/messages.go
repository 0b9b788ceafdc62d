package bridge

import (
	"time"

	"github.com/muurk/fairyctl/internal/light"
	"github.com/muurk/fairyctl/internal/presets"
	"github.com/muurk/fairyctl/internal/protocol"
	"github.com/muurk/fairyctl/internal/state"
)

// request is one client command. Op selects the operation; the remaining
// fields carry its arguments.
type request struct {
	Op string `json:"op"`

	// set_power
	On *bool `json:"on,omitempty"`

	// set_color takes exactly one of these. RGB components are 0-255;
	// HSV is hue 0-359 with saturation and value in percent.
	Hex string `json:"hex,omitempty"`
	RGB []int  `json:"rgb,omitempty"`
	HSV []int  `json:"hsv,omitempty"`

	// set_preset / set_effect. Brightness also serves set_brightness and
	// is an optional override for the preset ops.
	Preset     int    `json:"preset,omitempty"`
	Effect     string `json:"effect,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`
}

// statusEvent is the full reconciled snapshot sent as a reply to
// get_status and broadcast on every device-side change.
type statusEvent struct {
	Event      string    `json:"event"`
	Known      bool      `json:"known"`
	Power      string    `json:"power,omitempty"`
	Mode       string    `json:"mode,omitempty"`
	HSV        []int     `json:"hsv,omitempty"`
	RGB        []int     `json:"rgb,omitempty"`
	Preset     int       `json:"preset,omitempty"`
	PresetName string    `json:"preset_name,omitempty"`
	Brightness int       `json:"brightness,omitempty"`
	Changed    []string  `json:"changed,omitempty"`
	Updated    time.Time `json:"updated,omitempty"`
}

// okEvent acknowledges a mutating op that completed without error.
type okEvent struct {
	Event string `json:"event"`
	Op    string `json:"op"`
}

// errorEvent reports a failed or malformed op.
type errorEvent struct {
	Event   string `json:"event"`
	Op      string `json:"op,omitempty"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// statusFromSnapshot converts a reconciled snapshot to the wire shape.
// Saturation, value and brightness are reported in percent, matching the
// units set_color and set_brightness accept.
func statusFromSnapshot(s state.DeviceStatus, changed []string) statusEvent {
	ev := statusEvent{
		Event:   "status",
		Known:   s.Known(),
		Changed: changed,
	}
	if !ev.Known {
		return ev
	}

	ev.Power = s.Power.String()
	ev.Mode = s.Mode.String()
	ev.Updated = s.Updated

	if s.Color != nil {
		h := int(s.Color.Hue)
		sat := int(s.Color.Saturation) / 10
		val := int(s.Color.Value) / 10
		ev.HSV = []int{h, sat, val}
		r, g, b := light.HSVToRGB(h, sat, val)
		ev.RGB = []int{int(r), int(g), int(b)}
		if s.Mode == protocol.ModeColor {
			ev.Brightness = val
		}
	}
	if s.Preset != nil {
		ev.Preset = int(s.Preset.Index)
		ev.PresetName = presets.Label(int(s.Preset.Index))
		if s.Mode == protocol.ModePreset {
			ev.Brightness = int(s.Preset.Brightness) / 10
		}
	}
	return ev
}
