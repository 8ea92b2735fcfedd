// Package display renders generated teams for terminals and web clients.
package display

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Default team colors.
var (
	DefaultColorA = RGB{R: 255, G: 123, B: 0}
	DefaultColorB = RGB{R: 0, G: 123, B: 255}
)

// Brightness returns the perceived brightness on a 0-255 scale.
func (c RGB) Brightness() float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
}

// TextColor returns the CSS color name readable on top of c.
func (c RGB) TextColor() string {
	if c.Brightness() > 128 {
		return "black"
	}
	return "white"
}

// CSS formats c as rgb(r, g, b).
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseRGB accepts "#rrggbb" and "rgb(r, g, b)".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#") && len(s) == 7:
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q", s)
		}
		return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return RGB{}, fmt.Errorf("invalid rgb color %q", s)
		}
		var ch [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return RGB{}, fmt.Errorf("invalid rgb color %q", s)
			}
			ch[i] = uint8(v)
		}
		return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
	default:
		return RGB{}, fmt.Errorf("unsupported color %q", s)
	}
}

// MarshalText encodes c as a hex string.
func (c RGB) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText accepts any format understood by ParseRGB.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseRGB(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
