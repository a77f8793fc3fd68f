package strip

import (
	"fmt"
	"strings"
)

// Model is the channel layout of a strip, fixed at construction.
type Model uint8

const (
	RGB Model = iota
	RGBW
)

// Channels returns the number of bytes per pixel.
func (m Model) Channels() int {
	if m == RGBW {
		return 4
	}
	return 3
}

func (m Model) String() string {
	if m == RGBW {
		return "rgbw"
	}
	return "rgb"
}

// ParseModel accepts "rgb" / "rgbw" as well as the pixel formats "GRB" / "GRBW".
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(s) {
	case "rgb", "grb":
		return RGB, nil
	case "rgbw", "grbw":
		return RGBW, nil
	}
	return RGB, fmt.Errorf("%w: unknown color model %q", ErrInvalidArgument, s)
}

// Color is one pixel. W is ignored on RGB strips.
type Color struct {
	R, G, B, W uint8
}

// Off is the all-zero color.
var Off = Color{}

func (c Color) String() string {
	if c.W != 0 {
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.W)
	}
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// Blend returns the color ratio of the way from c to to.
func (c Color) Blend(to Color, ratio float32) Color {
	if ratio <= 0 {
		return c
	}
	if ratio >= 1 {
		return to
	}
	mix := func(a, b uint8) uint8 {
		return uint8((float32(b)-float32(a))*ratio + float32(a))
	}
	return Color{
		R: mix(c.R, to.R),
		G: mix(c.G, to.G),
		B: mix(c.B, to.B),
		W: mix(c.W, to.W),
	}
}

// Scale multiplies every channel by s, clamped to [0,1].
func (c Color) Scale(s float32) Color {
	return Off.Blend(c, s)
}

// ParseColor reads "#RRGGBB" or "#RRGGBBWW" (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	var c Color
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Off, fmt.Errorf("%w: color %q: %v", ErrInvalidArgument, s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.W); err != nil {
			return Off, fmt.Errorf("%w: color %q: %v", ErrInvalidArgument, s, err)
		}
	default:
		return Off, fmt.Errorf("%w: color %q must be RRGGBB or RRGGBBWW", ErrInvalidArgument, s)
	}
	return c, nil
}
