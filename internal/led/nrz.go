package led

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/ledstrip/strip"
)

// DefaultNRZFreq is the SPI clock nrzled needs for 800kHz parts (3 symbols
// per bit).
const DefaultNRZFreq = 2500 * physic.KiloHertz

// NRZ sends frames through periph's nrzled driver over an SPI port.
type NRZ struct {
	dev      *nrzled.Dev
	port     spi.Port
	count    int
	channels int
}

// NewNRZ wraps an already opened SPI port. The port is closed on Release if it
// implements io.Closer.
func NewNRZ(p spi.Port, count int, m strip.Model, freq physic.Frequency) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if freq == 0 {
		freq = DefaultNRZFreq
	}
	o := nrzled.Opts{
		NumPixels: count,
		Channels:  m.Channels(),
		Freq:      freq,
	}
	d, err := nrzled.NewSPI(p, &o)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: d, port: p, count: count, channels: o.Channels}, nil
}

// OpenNRZ opens the named SPI port ("" for the first one) and builds an NRZ
// engine on it. host.Init must have been called.
func OpenNRZ(name string, count int, m strip.Model, freq physic.Frequency) (*NRZ, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", name, err)
	}
	n, err := NewNRZ(p, count, m, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return n, nil
}

func (n *NRZ) String() string {
	return n.dev.String()
}

func (n *NRZ) Transmit(frame []byte) error {
	if err := checkFrame(frame, n.count, n.channels); err != nil {
		return err
	}
	w, err := n.dev.Write(frame)
	if err != nil {
		return err
	}
	if w != len(frame) {
		return fmt.Errorf("short write: %d of %d bytes", w, len(frame))
	}
	return nil
}

// Release blanks the strip and closes the port.
func (n *NRZ) Release() error {
	err := n.dev.Halt()
	if c, ok := n.port.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

var _ strip.Engine = (*NRZ)(nil)
