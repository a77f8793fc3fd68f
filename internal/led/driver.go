// Package led holds the transmit engines a strip.Strip can refresh through.
//
// Every engine accepts frames in R,G,B[,W] byte order and never keeps the
// frame slice after Transmit returns.
package led

import (
	"fmt"
	"strings"

	"github.com/coreman2200/ledstrip/strip"
)

// Order is the wire order of the color channels, e.g. "GRB". The white
// channel, when present, is always sent last.
type Order [3]byte

// GRB is what WS2812 and SK6812 parts expect.
var GRB = Order{'G', 'R', 'B'}

// ParseOrder validates a three letter permutation of R, G and B.
func ParseOrder(s string) (Order, error) {
	s = strings.ToUpper(s)
	if len(s) != 3 || !strings.ContainsRune(s, 'R') || !strings.ContainsRune(s, 'G') || !strings.ContainsRune(s, 'B') {
		return GRB, fmt.Errorf("%w: color order %q must be a permutation of RGB", strip.ErrInvalidArgument, s)
	}
	return Order{s[0], s[1], s[2]}, nil
}

func (o Order) String() string {
	return string(o[:])
}

// offsets returns, for each wire position, the source offset in an R,G,B pixel.
func (o Order) offsets() [3]int {
	var off [3]int
	for i, c := range o {
		switch c {
		case 'R':
			off[i] = 0
		case 'G':
			off[i] = 1
		case 'B':
			off[i] = 2
		}
	}
	return off
}

// Reorder copies frame into dst, rearranging each pixel into wire order.
// len(dst) must be at least len(frame).
func (o Order) Reorder(dst, frame []byte, channels int) {
	off := o.offsets()
	for i := 0; i+channels <= len(frame); i += channels {
		dst[i+0] = frame[i+off[0]]
		dst[i+1] = frame[i+off[1]]
		dst[i+2] = frame[i+off[2]]
		if channels == 4 {
			dst[i+3] = frame[i+3]
		}
	}
}

func checkFrame(frame []byte, count, channels int) error {
	if len(frame) != count*channels {
		return fmt.Errorf("frame length %d does not match %d pixels of %d channels", len(frame), count, channels)
	}
	return nil
}
