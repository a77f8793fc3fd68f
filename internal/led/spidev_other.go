//go:build !linux

package led

import (
	"fmt"

	"github.com/coreman2200/ledstrip/strip"
)

type SPIDev struct{}

func OpenSPIDev(path string, count int, m strip.Model, order Order, speedHz, resetUs int) (*SPIDev, error) {
	return nil, fmt.Errorf("spidev driver not supported on this platform")
}

func (s *SPIDev) Transmit(frame []byte) error {
	return fmt.Errorf("spidev driver not supported on this platform")
}

func (s *SPIDev) Release() error { return nil }

