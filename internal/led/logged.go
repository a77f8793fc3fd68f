package led

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledstrip/strip"
)

// Logged wraps an engine and logs every outcome. Errors pass through
// unchanged.
type Logged struct {
	next   strip.Engine
	name   string
	log    zerolog.Logger
	frames uint64
}

// WithLogger decorates e. name shows up as the "engine" field.
func WithLogger(e strip.Engine, name string, log zerolog.Logger) *Logged {
	return &Logged{next: e, name: name, log: log.With().Str("engine", name).Logger()}
}

func (l *Logged) Transmit(frame []byte) error {
	start := time.Now()
	if err := l.next.Transmit(frame); err != nil {
		l.log.Error().Err(err).Int("bytes", len(frame)).Msg("transmit failed")
		return err
	}
	l.frames++
	l.log.Debug().Uint64("frame", l.frames).Int("bytes", len(frame)).Dur("took", time.Since(start)).Msg("frame sent")
	return nil
}

func (l *Logged) Release() error {
	if err := l.next.Release(); err != nil {
		l.log.Error().Err(err).Msg("release failed")
		return err
	}
	l.log.Info().Uint64("frames", l.frames).Msg("engine released")
	return nil
}

var _ strip.Engine = (*Logged)(nil)
