/*
Package strip manages the pixel buffer of an addressable LED strip
(WS2812, SK6812 and friends) and flushes it through a transmit Engine.

Mutations only touch memory. Nothing reaches the LEDs until Refresh is called.
*/
package strip

import (
	"fmt"
)

// Engine is the physical layer a Strip hands its frames to.
type Engine interface {
	// Transmit sends a frame of Len()*Channels() bytes in R,G,B[,W] order.
	// The slice must not be retained after Transmit returns.
	Transmit(frame []byte) error
	// Release frees the engine's resources.
	Release() error
}

/*
A Strip owns the color state of every LED in the chain.

Methods are NOT safe to call from multiple goroutines concurrently. Callers
sharing a Strip must serialize access themselves.
*/
type Strip struct {
	// pixels holds count*channels bytes, R,G,B[,W] per pixel
	pixels []byte
	// frame is the snapshot handed to the engine on Refresh
	frame    []byte
	count    int
	channels int
	model    Model
	dirty    bool
	engine   Engine
}

// New allocates a strip of count pixels that refreshes through e.
func New(count int, m Model, e Engine) (*Strip, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: pixel count %d", ErrInvalidArgument, count)
	}
	if m != RGB && m != RGBW {
		return nil, fmt.Errorf("%w: color model %d", ErrInvalidArgument, m)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrInvalidArgument)
	}
	ch := m.Channels()
	return &Strip{
		pixels:   make([]byte, count*ch),
		frame:    make([]byte, count*ch),
		count:    count,
		channels: ch,
		model:    m,
		engine:   e,
	}, nil
}

// Len returns the pixel capacity.
func (s *Strip) Len() int {
	s.live()
	return s.count
}

// Model returns the strip's color model.
func (s *Strip) Model() Model {
	s.live()
	return s.model
}

// Dirty reports whether the buffer changed since the last successful Refresh.
func (s *Strip) Dirty() bool {
	s.live()
	return s.dirty
}

// Pixel returns the color stored at index.
func (s *Strip) Pixel(index int) (Color, error) {
	s.live()
	if err := s.check(index); err != nil {
		return Off, err
	}
	return s.get(index), nil
}

// Pixels returns a copy of the whole buffer.
func (s *Strip) Pixels() []Color {
	s.live()
	out := make([]Color, s.count)
	for i := range out {
		out[i] = s.get(i)
	}
	return out
}

// SetPixel sets the RGB channels at index. The white channel of RGBW strips is
// set to zero.
func (s *Strip) SetPixel(index int, r, g, b uint8) error {
	s.live()
	if err := s.check(index); err != nil {
		return err
	}
	s.put(index, Color{R: r, G: g, B: b})
	return nil
}

// SetPixelRGBW sets all four channels at index. RGB strips reject it.
func (s *Strip) SetPixelRGBW(index int, r, g, b, w uint8) error {
	s.live()
	if err := s.checkRGBW(index); err != nil {
		return err
	}
	s.put(index, Color{R: r, G: g, B: b, W: w})
	return nil
}

// InsertPixel writes the color at index after moving pixels [index, N-2] up by
// one. The last pixel falls off the end.
func (s *Strip) InsertPixel(index int, r, g, b uint8) error {
	s.live()
	if err := s.check(index); err != nil {
		return err
	}
	s.insert(index, Color{R: r, G: g, B: b})
	return nil
}

// InsertPixelRGBW is InsertPixel with an explicit white channel.
func (s *Strip) InsertPixelRGBW(index int, r, g, b, w uint8) error {
	s.live()
	if err := s.checkRGBW(index); err != nil {
		return err
	}
	s.insert(index, Color{R: r, G: g, B: b, W: w})
	return nil
}

// ReversePixelInsert writes the color at index after moving pixels [1, index]
// down by one. Pixel 0 is dropped, pixels above index are untouched.
func (s *Strip) ReversePixelInsert(index int, r, g, b uint8) error {
	s.live()
	if err := s.check(index); err != nil {
		return err
	}
	s.reverseInsert(index, Color{R: r, G: g, B: b})
	return nil
}

// ReversePixelInsertRGBW is ReversePixelInsert with an explicit white channel.
func (s *Strip) ReversePixelInsertRGBW(index int, r, g, b, w uint8) error {
	s.live()
	if err := s.checkRGBW(index); err != nil {
		return err
	}
	s.reverseInsert(index, Color{R: r, G: g, B: b, W: w})
	return nil
}

// SetColor picks SetPixel or SetPixelRGBW depending on c.W.
func (s *Strip) SetColor(index int, c Color) error {
	if c.W != 0 {
		return s.SetPixelRGBW(index, c.R, c.G, c.B, c.W)
	}
	return s.SetPixel(index, c.R, c.G, c.B)
}

// InsertColor picks InsertPixel or InsertPixelRGBW depending on c.W.
func (s *Strip) InsertColor(index int, c Color) error {
	if c.W != 0 {
		return s.InsertPixelRGBW(index, c.R, c.G, c.B, c.W)
	}
	return s.InsertPixel(index, c.R, c.G, c.B)
}

// ReverseInsertColor picks ReversePixelInsert or ReversePixelInsertRGBW
// depending on c.W.
func (s *Strip) ReverseInsertColor(index int, c Color) error {
	if c.W != 0 {
		return s.ReversePixelInsertRGBW(index, c.R, c.G, c.B, c.W)
	}
	return s.ReversePixelInsert(index, c.R, c.G, c.B)
}

// Fill sets every pixel to c. A white component on an RGB strip is an error.
func (s *Strip) Fill(c Color) error {
	s.live()
	if c.W != 0 && s.model != RGBW {
		return fmt.Errorf("%w: white channel on %s strip", ErrInvalidArgument, s.model)
	}
	for i := 0; i < s.count; i++ {
		s.put(i, c)
	}
	return nil
}

func (s *Strip) check(index int) error {
	if index < 0 || index >= s.count {
		return fmt.Errorf("%w: index %d outside [0, %d)", ErrInvalidArgument, index, s.count)
	}
	return nil
}

func (s *Strip) checkRGBW(index int) error {
	if s.model != RGBW {
		return fmt.Errorf("%w: white channel on %s strip", ErrInvalidArgument, s.model)
	}
	return s.check(index)
}

func (s *Strip) get(i int) Color {
	p := s.pixels[i*s.channels : (i+1)*s.channels]
	c := Color{R: p[0], G: p[1], B: p[2]}
	if s.channels == 4 {
		c.W = p[3]
	}
	return c
}

// put writes c at pixel i; W is dropped on RGB strips.
func (s *Strip) put(i int, c Color) {
	p := s.pixels[i*s.channels : (i+1)*s.channels]
	p[0], p[1], p[2] = c.R, c.G, c.B
	if s.channels == 4 {
		p[3] = c.W
	}
	s.dirty = true
}

func (s *Strip) insert(index int, c Color) {
	ch := s.channels
	copy(s.pixels[(index+1)*ch:], s.pixels[index*ch:(s.count-1)*ch])
	s.put(index, c)
}

func (s *Strip) reverseInsert(index int, c Color) {
	ch := s.channels
	copy(s.pixels[:index*ch], s.pixels[ch:(index+1)*ch])
	s.put(index, c)
}

// live panics on a deleted strip.
func (s *Strip) live() {
	if s.pixels == nil {
		panic("ledstrip: use of deleted strip")
	}
}
