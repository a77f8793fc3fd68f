package led

// Encoder expands pixel bytes into the symbol stream a WS281x line expects
// when it is clocked from an SPI port at three times the LED bit rate: every
// data bit becomes 0b110 (one) or 0b100 (zero).
type Encoder struct {
	order    Order
	channels int
	wire     []byte
	// lut maps a byte to its 24 encoded bits.
	lut [256][3]byte
}

// NewEncoder builds the symbol LUT for the given channel order.
func NewEncoder(order Order, channels int) *Encoder {
	e := &Encoder{order: order, channels: channels}
	for v := 0; v < 256; v++ {
		out := uint32(0)
		for i := 7; i >= 0; i-- {
			tri := uint32(0b100)
			if (v>>i)&1 == 1 {
				tri = 0b110
			}
			out = (out << 3) | tri
		}
		e.lut[v] = [3]byte{byte(out >> 16), byte(out >> 8), byte(out)}
	}
	return e
}

// EncodedLen is the size of the symbol stream for n input bytes.
func EncodedLen(n int) int {
	return n * 3
}

// Encode reorders frame into wire order and appends its symbols to dst.
func (e *Encoder) Encode(dst, frame []byte) []byte {
	if cap(e.wire) < len(frame) {
		e.wire = make([]byte, len(frame))
	}
	wire := e.wire[:len(frame)]
	e.order.Reorder(wire, frame, e.channels)
	for _, v := range wire {
		dst = append(dst, e.lut[v][0], e.lut[v][1], e.lut[v][2])
	}
	return dst
}

// latchBytes is the number of zero bytes that hold the line low for resetUs
// at speedHz. Never less than 128.
func latchBytes(speedHz, resetUs int) int {
	n := (speedHz/8*resetUs + 999999) / 1000000
	if n < 128 {
		n = 128
	}
	return n
}
