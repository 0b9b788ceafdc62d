package light

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color conversion helpers between 8-bit RGB and the HSV ranges the
// light works in: hue 0-359 degrees, saturation and value 0-100
// percent. Scaling percent to the device's 0-1000 units happens in the
// controller, next to the frame construction.

// RGBToHSV converts 8-bit RGB to hue (0-359), saturation (0-100) and
// value (0-100).
func RGBToHSV(r, g, b uint8) (int, int, int) {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	var hue float64
	switch {
	case delta == 0:
		hue = 0
	case max == rf:
		hue = 60 * math.Mod((gf-bf)/delta, 6)
	case max == gf:
		hue = 60 * ((bf-rf)/delta + 2)
	default:
		hue = 60 * ((rf-gf)/delta + 4)
	}
	if hue < 0 {
		hue += 360
	}

	var sat float64
	if max > 0 {
		sat = delta / max
	}

	h := int(math.Round(hue)) % 360
	s := int(math.Round(sat * 100))
	v := int(math.Round(max * 100))
	return h, s, v
}

// HSVToRGB converts hue (0-359), saturation (0-100) and value (0-100)
// to 8-bit RGB.
func HSVToRGB(h, s, v int) (uint8, uint8, uint8) {
	hf := math.Mod(float64(h), 360) / 60.0
	sf := float64(s) / 100.0
	vf := float64(v) / 100.0

	c := vf * sf
	x := c * (1 - math.Abs(math.Mod(hf, 2)-1))
	m := vf - c

	var rf, gf, bf float64
	switch int(hf) {
	case 0:
		rf, gf, bf = c, x, 0
	case 1:
		rf, gf, bf = x, c, 0
	case 2:
		rf, gf, bf = 0, c, x
	case 3:
		rf, gf, bf = 0, x, c
	case 4:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	r := uint8(math.Round((rf + m) * 255))
	g := uint8(math.Round((gf + m) * 255))
	b := uint8(math.Round((bf + m) * 255))
	return r, g, b
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB" into 8-bit RGB.
func ParseHexColor(s string) (uint8, uint8, uint8, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: want 6 hex digits like #FF8800", s)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	r := uint8(value >> 16)
	g := uint8(value >> 8)
	b := uint8(value)
	return r, g, b, nil
}
