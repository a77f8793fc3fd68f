// Package fake provides an in-memory transmit engine for tests and headless
// runs.
package fake

import (
	"errors"
	"sync"
)

// ErrBusy is the default error injected by Fail.
var ErrBusy = errors.New("fake: engine busy")

// Driver records every frame it is given. Errors can be queued to simulate
// peripheral faults.
type Driver struct {
	mu       sync.Mutex
	frames   [][]byte
	fails    []error
	sent     int
	released bool
	// ReleaseErr, when set, is returned by Release.
	ReleaseErr error
	// Keep bounds the number of retained frames; 0 keeps all of them.
	Keep int
}

// Transmit copies frame unless a queued failure is pending.
func (d *Driver) Transmit(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return errors.New("fake: released")
	}
	if len(d.fails) > 0 {
		err := d.fails[0]
		d.fails = d.fails[1:]
		return err
	}
	d.frames = append(d.frames, append([]byte(nil), frame...))
	if d.Keep > 0 && len(d.frames) > d.Keep {
		d.frames = append(d.frames[:0], d.frames[len(d.frames)-d.Keep:]...)
	}
	d.sent++
	return nil
}

// Release marks the driver released.
func (d *Driver) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ReleaseErr != nil {
		return d.ReleaseErr
	}
	d.released = true
	return nil
}

// Fail queues err for the next Transmit. A nil err queues ErrBusy.
func (d *Driver) Fail(err error) {
	if err == nil {
		err = ErrBusy
	}
	d.mu.Lock()
	d.fails = append(d.fails, err)
	d.mu.Unlock()
}

// Count is the number of frames transmitted successfully.
func (d *Driver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}

// Last returns the most recent frame, or nil.
func (d *Driver) Last() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

// Frames returns the retained frames, oldest first.
func (d *Driver) Frames() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]byte(nil), d.frames...)
}

// Released reports whether Release succeeded.
func (d *Driver) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}
