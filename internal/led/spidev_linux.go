//go:build linux

package led

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/coreman2200/ledstrip/strip"
)

const (
	spiIOCWriteMode        = 0x40016b01
	spiIOCWriteBitsPerWord = 0x40016b03
	spiIOCWriteMaxSpeedHz  = 0x40046b04
)

// SPIDev drives a WS281x/SK6812 line from a spidev node, encoding frames
// itself with an Encoder.
type SPIDev struct {
	mu       sync.Mutex
	f        *os.File
	count    int
	channels int
	enc      *Encoder
	buf      []byte
	latch    []byte
}

// OpenSPIDev opens spidev (e.g. "/dev/spidev0.0") and prepares the encoder.
// speedHz in the 2_400_000–3_200_000 range matches the 3x symbol expansion.
// resetUs is the latch time, usually >= 280µs.
func OpenSPIDev(path string, count int, m strip.Model, order Order, speedHz, resetUs int) (*SPIDev, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = 2400000
	}
	if resetUs <= 0 {
		resetUs = 300
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open spidev: %w", err)
	}
	fd := int(f.Fd())
	if err := unix.IoctlSetPointerInt(fd, spiIOCWriteMode, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("SPI set mode: %w", err)
	}
	if err := unix.IoctlSetPointerInt(fd, spiIOCWriteBitsPerWord, 8); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("SPI set bits-per-word: %w", err)
	}
	if err := unix.IoctlSetPointerInt(fd, spiIOCWriteMaxSpeedHz, speedHz); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("SPI set speed: %w", err)
	}

	ch := m.Channels()
	return &SPIDev{
		f:        f,
		count:    count,
		channels: ch,
		enc:      NewEncoder(order, ch),
		buf:      make([]byte, 0, EncodedLen(count*ch)),
		latch:    make([]byte, latchBytes(speedHz, resetUs)),
	}, nil
}

func (s *SPIDev) Transmit(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return fmt.Errorf("spidev closed")
	}
	if err := checkFrame(frame, s.count, s.channels); err != nil {
		return err
	}
	s.buf = s.enc.Encode(s.buf[:0], frame)
	if _, err := s.f.Write(s.buf); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	if _, err := s.f.Write(s.latch); err != nil {
		return fmt.Errorf("spi latch: %w", err)
	}
	return nil
}

func (s *SPIDev) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}

var _ strip.Engine = (*SPIDev)(nil)
