package light

import "testing"

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v int
	}{
		{name: "red", r: 255, g: 0, b: 0, h: 0, s: 100, v: 100},
		{name: "green", r: 0, g: 255, b: 0, h: 120, s: 100, v: 100},
		{name: "blue", r: 0, g: 0, b: 255, h: 240, s: 100, v: 100},
		{name: "white", r: 255, g: 255, b: 255, h: 0, s: 0, v: 100},
		{name: "black", r: 0, g: 0, b: 0, h: 0, s: 0, v: 0},
		{name: "mid gray", r: 128, g: 128, b: 128, h: 0, s: 0, v: 50},
		{name: "orange", r: 255, g: 128, b: 0, h: 30, s: 100, v: 100},
		{name: "magenta", r: 255, g: 0, b: 255, h: 300, s: 100, v: 100},
		{name: "dim red", r: 128, g: 0, b: 0, h: 0, s: 100, v: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			if h != tt.h || s != tt.s || v != tt.v {
				t.Errorf("RGBToHSV(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v int
		r, g, b uint8
	}{
		{name: "red", h: 0, s: 100, v: 100, r: 255, g: 0, b: 0},
		{name: "green", h: 120, s: 100, v: 100, r: 0, g: 255, b: 0},
		{name: "blue", h: 240, s: 100, v: 100, r: 0, g: 0, b: 255},
		{name: "white", h: 0, s: 0, v: 100, r: 255, g: 255, b: 255},
		{name: "black", h: 0, s: 0, v: 0, r: 0, g: 0, b: 0},
		{name: "orange", h: 30, s: 100, v: 100, r: 255, g: 128, b: 0},
		{name: "half blue", h: 240, s: 100, v: 50, r: 0, g: 0, b: 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSVToRGB(tt.h, tt.s, tt.v)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("HSVToRGB(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.h, tt.s, tt.v, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRGBToHSV_RoundTrip(t *testing.T) {
	// Primary and secondary colors survive the round trip exactly.
	colors := []struct{ r, g, b uint8 }{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{255, 255, 0},
		{0, 255, 255},
		{255, 0, 255},
		{255, 255, 255},
		{0, 0, 0},
	}

	for _, c := range colors {
		h, s, v := RGBToHSV(c.r, c.g, c.b)
		r, g, b := HSVToRGB(h, s, v)
		if r != c.r || g != c.g || b != c.b {
			t.Errorf("round trip (%d, %d, %d) -> (%d, %d, %d) -> (%d, %d, %d)",
				c.r, c.g, c.b, h, s, v, r, g, b)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		r, g, b uint8
		wantErr bool
	}{
		{name: "with hash", input: "#FF8800", r: 255, g: 136, b: 0},
		{name: "without hash", input: "FF8800", r: 255, g: 136, b: 0},
		{name: "lowercase", input: "#ff8800", r: 255, g: 136, b: 0},
		{name: "white", input: "#FFFFFF", r: 255, g: 255, b: 255},
		{name: "black", input: "#000000", r: 0, g: 0, b: 0},
		{name: "surrounding space", input: " #336699 ", r: 51, g: 102, b: 153},
		{name: "too short", input: "#FFF", wantErr: true},
		{name: "too long", input: "#FF88001", wantErr: true},
		{name: "not hex", input: "#GGHHII", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, err := ParseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("ParseHexColor(%q) = (%d, %d, %d), want (%d, %d, %d)",
					tt.input, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}
