// Package effect generates frames on a strip.Strip. Most effects scroll by
// pushing one pixel per frame through the strip's insert primitives instead of
// redrawing the whole buffer.
package effect

import (
	"fmt"
	"sort"

	"github.com/coreman2200/ledstrip/strip"
)

// Effect draws frame n into s. It never refreshes the strip.
type Effect interface {
	Name() string
	Step(s *strip.Strip, n int) error
}

// Comet pushes a bright head followed by a fading tail from pixel 0 upwards.
type Comet struct {
	Color strip.Color
	Tail  int
}

func (c *Comet) Name() string { return "comet" }

func (c *Comet) Step(s *strip.Strip, n int) error {
	tail := c.Tail
	if tail <= 0 {
		tail = 1
	}
	k := n % (s.Len() + tail)
	col := strip.Off
	if k < tail {
		col = c.Color.Scale(1 - float32(k)/float32(tail))
	}
	return s.InsertColor(0, col)
}

// Scroll feeds Colors in from the far end of the strip, one per frame, so the
// pattern travels towards pixel 0. Reverse feeds from pixel 0 instead.
type Scroll struct {
	Colors  []strip.Color
	Reverse bool
}

func (sc *Scroll) Name() string { return "scroll" }

func (sc *Scroll) Step(s *strip.Strip, n int) error {
	if len(sc.Colors) == 0 {
		return nil
	}
	col := sc.Colors[n%len(sc.Colors)]
	if sc.Reverse {
		return s.InsertColor(0, col)
	}
	return s.ReverseInsertColor(s.Len()-1, col)
}

// Rainbow inserts one hue per frame at pixel 0, Steps hues per cycle.
type Rainbow struct {
	Steps int
}

func (r *Rainbow) Name() string { return "rainbow" }

func (r *Rainbow) Step(s *strip.Strip, n int) error {
	steps := r.Steps
	if steps <= 0 {
		steps = s.Len()
	}
	return s.InsertColor(0, Wheel(float64(n%steps)/float64(steps)))
}

// Solid fills the strip with one color on the first frame.
type Solid struct {
	Color strip.Color
}

func (sd *Solid) Name() string { return "solid" }

func (sd *Solid) Step(s *strip.Strip, n int) error {
	if n > 0 {
		return nil
	}
	return s.Fill(sd.Color)
}

// Wheel maps h in [0,1) onto a fully saturated hue.
func Wheel(h float64) strip.Color {
	h *= 6
	switch {
	case h < 1.:
		return strip.Color{R: 255, G: byte(255 * h)}
	case h < 2.:
		return strip.Color{R: byte(255 * (2 - h)), G: 255}
	case h < 3.:
		return strip.Color{G: 255, B: byte(255 * (h - 2))}
	case h < 4.:
		return strip.Color{G: byte(255 * (4 - h)), B: 255}
	case h < 5.:
		return strip.Color{R: byte(255 * (h - 4)), B: 255}
	default:
		return strip.Color{R: 255, B: byte(255 * (6 - h))}
	}
}

var makers = map[string]func(c strip.Color) Effect{
	"comet":   func(c strip.Color) Effect { return &Comet{Color: c, Tail: 8} },
	"scroll":  func(c strip.Color) Effect { return &Scroll{Colors: []strip.Color{c, c, strip.Off, strip.Off}} },
	"rainbow": func(c strip.Color) Effect { return &Rainbow{} },
	"solid":   func(c strip.Color) Effect { return &Solid{Color: c} },
	"breathe": func(c strip.Color) Effect { return &Breathe{Color: c, Period: 90} },
}

// New builds the named effect around the color c.
func New(name string, c strip.Color) (Effect, error) {
	mk, ok := makers[name]
	if !ok {
		return nil, fmt.Errorf("unknown effect %q (have %v)", name, Names())
	}
	return mk(c), nil
}

// Names lists the known effects.
func Names() []string {
	out := make([]string, 0, len(makers))
	for k := range makers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
