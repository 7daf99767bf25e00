package player

import (
	"sync"
	"time"

	"github.com/castmirror/server/pkg/clock"
)

// one second of slack so the callback never fires exactly at the
// simulated end-of-video boundary
const endOfVideoSlack = time.Second

// deferred is the single end-of-video callback slot. A generation
// counter makes "at most one live callback" explicit: a stale timer
// that fires after being superseded takes nothing.
type deferred struct {
	clock clock.Clock

	mu    sync.Mutex
	gen   uint64
	timer clock.Timer
}

func newDeferred(c clock.Clock) *deferred {
	return &deferred{clock: c}
}

// Schedule cancels any pending callback and arms fn to fire once after
// d plus the slack second.
func (d *deferred) Schedule(dur time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = d.clock.AfterFunc(dur+endOfVideoSlack, func() {
		if !d.take(gen) {
			return
		}
		fn()
	})
}

// take consumes the pending slot. Firing is single-shot: once taken the
// slot counts as canceled until the next Schedule.
func (d *deferred) take(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		return false
	}
	d.gen++
	d.timer = nil

	return true
}

// Cancel invalidates a pending callback. Canceling with nothing pending
// is a no-op.
func (d *deferred) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
