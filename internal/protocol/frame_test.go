package protocol

import (
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{
			name: "power on body",
			data: []byte{0xAA, 0x02, 0x01, 0x01},
			want: 0xAE,
		},
		{
			name: "power off body",
			data: []byte{0xAA, 0x02, 0x01, 0x00},
			want: 0xAD,
		},
		{
			name: "empty input",
			data: []byte{},
			want: 0x00,
		},
		{
			name: "sum wraps at 256",
			data: []byte{0x80, 0x80},
			want: 0x00,
		},
		{
			name: "sum wraps with remainder",
			data: []byte{0xFF, 0xFF},
			want: 0xFE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Checksum(tt.data)
			if got != tt.want {
				t.Errorf("Checksum(% 02x) = 0x%02x, want 0x%02x", tt.data, got, tt.want)
			}
		})
	}
}

func TestValidateFrame(t *testing.T) {
	validColor, err := BuildColorFrame(ColorHSV{Hue: 100, Saturation: 500, Value: 500})
	if err != nil {
		t.Fatalf("BuildColorFrame() error = %v", err)
	}

	tests := []struct {
		name    string
		frame   []byte
		wantErr bool
	}{
		{
			name:    "valid power frame",
			frame:   BuildPowerFrame(true),
			wantErr: false,
		},
		{
			name:    "valid color frame",
			frame:   validColor,
			wantErr: false,
		},
		{
			name:    "too small",
			frame:   []byte{0xAA, 0x02, 0x01},
			wantErr: true,
		},
		{
			name:    "wrong prefix",
			frame:   []byte{0xAB, 0x02, 0x01, 0x01, 0xAF},
			wantErr: true,
		},
		{
			name:    "unknown command type",
			frame:   []byte{0xAA, 0x07, 0x01, 0x01, 0xB3},
			wantErr: true,
		},
		{
			name:    "declared length mismatch",
			frame:   []byte{0xAA, 0x02, 0x02, 0x01, 0xAF},
			wantErr: true,
		},
		{
			name: "corrupted checksum",
			frame: func() []byte {
				f := BuildPowerFrame(true)
				f[len(f)-1]++
				return f
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFrame(tt.frame)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFrame() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestColorHSV_Validate(t *testing.T) {
	tests := []struct {
		name    string
		color   ColorHSV
		wantErr bool
	}{
		{name: "zero value", color: ColorHSV{}, wantErr: false},
		{name: "all maximums", color: ColorHSV{Hue: 359, Saturation: 1000, Value: 1000}, wantErr: false},
		{name: "hue too large", color: ColorHSV{Hue: 360}, wantErr: true},
		{name: "saturation too large", color: ColorHSV{Saturation: 1001}, wantErr: true},
		{name: "value too large", color: ColorHSV{Value: 1001}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.color.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresetSelection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sel     PresetSelection
		wantErr bool
	}{
		{name: "first index", sel: PresetSelection{Index: 1}, wantErr: false},
		{name: "last index", sel: PresetSelection{Index: 58, Brightness: 1000}, wantErr: false},
		{name: "index zero", sel: PresetSelection{Index: 0}, wantErr: true},
		{name: "index too large", sel: PresetSelection{Index: 59}, wantErr: true},
		{name: "brightness too large", sel: PresetSelection{Index: 1, Brightness: 1001}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPowerState_String(t *testing.T) {
	tests := []struct {
		state PowerState
		want  string
	}{
		{PowerOn, "on"},
		{PowerOff, "off"},
		{PowerState(0x7F), "unknown(0x7f)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("PowerState(0x%02x).String() = %q, want %q", byte(tt.state), got, tt.want)
		}
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeColor, "color"},
		{ModePreset, "preset"},
		{Mode(0x7F), "unknown(0x7f)"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(0x%02x).String() = %q, want %q", byte(tt.mode), got, tt.want)
		}
	}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		cmd  byte
		want string
	}{
		{CmdPower, "Power"},
		{CmdColorPreset, "ColorPreset"},
		{0x7F, "Unknown(0x7f)"},
	}

	for _, tt := range tests {
		if got := CommandName(tt.cmd); got != tt.want {
			t.Errorf("CommandName(0x%02x) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func BenchmarkChecksum(b *testing.B) {
	frame := []byte{0xAA, 0x03, 0x07, 0x01, 0x00, 0xD2, 0x03, 0x52, 0x03, 0xE8}
	for i := 0; i < b.N; i++ {
		_ = Checksum(frame)
	}
}
