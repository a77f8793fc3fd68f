package strip

import "fmt"

// Refresh sends the current buffer to the engine. On failure the buffer and
// the dirty flag are left as they were, so the caller may simply retry.
func (s *Strip) Refresh() error {
	s.live()
	copy(s.frame, s.pixels)
	if err := s.engine.Transmit(s.frame); err != nil {
		return fmt.Errorf("%w: %w", ErrTransmitFailure, err)
	}
	s.dirty = false
	return nil
}

// Clear turns every LED off: all channels are zeroed, then the strip is
// refreshed.
func (s *Strip) Clear() error {
	s.live()
	for i := range s.pixels {
		s.pixels[i] = 0
	}
	s.dirty = true
	return s.Refresh()
}

// Delete releases the engine and the buffer. The strip must not be used
// afterwards, whatever the outcome.
func (s *Strip) Delete() error {
	s.live()
	e := s.engine
	s.pixels, s.frame, s.engine = nil, nil, nil
	if err := e.Release(); err != nil {
		return fmt.Errorf("%w: release engine: %w", ErrFailure, err)
	}
	return nil
}
