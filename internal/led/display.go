package led

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/ledstrip/strip"
)

// Display renders frames onto any periph display.Drawer, one pixel per LED on
// a single row. White is folded into R, G and B.
type Display struct {
	drawer   display.Drawer
	count    int
	channels int
	img      *image.NRGBA
}

// NewDisplay draws count pixels on d.
func NewDisplay(d display.Drawer, count int, m strip.Model) (*Display, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	return &Display{
		drawer:   d,
		count:    count,
		channels: m.Channels(),
		img:      image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}, nil
}

// NewConsole is a Display on periph's ANSI terminal emulator.
func NewConsole(count int, m strip.Model) (*Display, error) {
	return NewDisplay(screen.New(count), count, m)
}

func (d *Display) Transmit(frame []byte) error {
	if err := checkFrame(frame, d.count, d.channels); err != nil {
		return err
	}
	for i := 0; i < d.count; i++ {
		p := frame[i*d.channels : (i+1)*d.channels]
		var w uint8
		if d.channels == 4 {
			w = p[3]
		}
		d.img.SetNRGBA(i, 0, color.NRGBA{R: addSat(p[0], w), G: addSat(p[1], w), B: addSat(p[2], w), A: 255})
	}
	return d.drawer.Draw(d.drawer.Bounds(), d.img, image.Point{})
}

func (d *Display) Release() error {
	return d.drawer.Halt()
}

func addSat(a, b uint8) uint8 {
	if s := int(a) + int(b); s < 255 {
		return uint8(s)
	}
	return 255
}

var _ strip.Engine = (*Display)(nil)
