// Package runner drives an effect on a strip at a fixed frame rate.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledstrip/internal/effect"
	"github.com/coreman2200/ledstrip/strip"
)

// MaxFailures is how many refreshes in a row may fail before Run gives up.
const MaxFailures = 10

// Runner owns the strip while Run is active. Nothing else may touch the strip
// until Run returns.
type Runner struct {
	strip  *strip.Strip
	effect effect.Effect
	fps    int
	log    zerolog.Logger

	frame    int
	failures int
}

func New(s *strip.Strip, e effect.Effect, fps int, log zerolog.Logger) *Runner {
	if fps <= 0 {
		fps = 30
	}
	return &Runner{strip: s, effect: e, fps: fps, log: log}
}

// Frames is the number of frames refreshed successfully.
func (r *Runner) Frames() int {
	return r.frame
}

// Step draws the next frame and refreshes the strip. A failed refresh leaves
// the frame in the buffer; the next Step retries it before drawing.
func (r *Runner) Step() error {
	if r.failures == 0 {
		if err := r.effect.Step(r.strip, r.frame); err != nil {
			return fmt.Errorf("effect %s: %w", r.effect.Name(), err)
		}
	}
	if err := r.strip.Refresh(); err != nil {
		r.failures++
		return err
	}
	r.failures = 0
	r.frame++
	return nil
}

// Run steps the effect until ctx is done. Transmit failures are retried on the
// next tick; MaxFailures consecutive failures or any other error stop it.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.fps))
	defer ticker.Stop()

	r.log.Info().Str("effect", r.effect.Name()).Int("fps", r.fps).Int("pixels", r.strip.Len()).Msg("runner started")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Int("frames", r.frame).Msg("runner stopped")
			return nil
		case <-ticker.C:
			err := r.Step()
			if err == nil {
				continue
			}
			if !errors.Is(err, strip.ErrTransmitFailure) {
				return err
			}
			r.log.Warn().Err(err).Int("failures", r.failures).Msg("refresh failed")
			if r.failures >= MaxFailures {
				return fmt.Errorf("giving up after %d failed refreshes: %w", r.failures, err)
			}
		}
	}
}
