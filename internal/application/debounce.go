package application

import (
	"sync"
	"time"

	"github.com/bnema/academix-cli/internal/ports"
)

// Debouncer runs at most one pending action, after a quiet period.
type Debouncer struct {
	clock ports.Clock
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	timer   ports.Timer
	pending bool
}

func NewDebouncer(clock ports.Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if delay < 0 {
		delay = 0
	}

	return &Debouncer{clock: clock, delay: delay}
}

// Trigger replaces any pending action with fn, to run after the delay.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen || !d.pending {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending action, reporting whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending
	d.stopLocked()
	d.gen++
	return had
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}
