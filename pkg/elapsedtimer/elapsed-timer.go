// Package elapsedtimer tracks elapsed wall-clock time with
// start/pause/resume/stop/clear semantics.
package elapsedtimer

import (
	"errors"
	"sync"
	"time"

	"github.com/castmirror/server/pkg/clock"
)

var ErrNotPaused = errors.New("timer is not paused")

type state int

const (
	stateIdle state = iota
	stateRunning
	statePaused
)

type Timer struct {
	clock clock.Clock

	mu        sync.Mutex
	state     state
	startedAt time.Time
	elapsed   time.Duration
}

func New(c clock.Clock) *Timer {
	return &Timer{clock: c}
}

// Start begins counting from zero. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateRunning {
		return
	}

	t.elapsed = 0
	t.startedAt = t.clock.Now()
	t.state = stateRunning
}

// Pause freezes the accumulated count. Pausing a timer that is not
// running is a no-op.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateRunning {
		return
	}

	t.elapsed += t.clock.Now().Sub(t.startedAt)
	t.state = statePaused
}

// Resume continues counting from the frozen value. It returns
// ErrNotPaused when the timer is not paused.
func (t *Timer) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != statePaused {
		return ErrNotPaused
	}

	t.startedAt = t.clock.Now()
	t.state = stateRunning

	return nil
}

// Stop returns the timer to idle. The last elapsed value is retained
// until Clear is called.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateRunning {
		t.elapsed += t.clock.Now().Sub(t.startedAt)
	}
	t.state = stateIdle
}

// Clear zeroes the retained elapsed value.
func (t *Timer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateRunning {
		t.startedAt = t.clock.Now()
	}
	t.elapsed = 0
}

// Elapsed returns the accumulated duration: live while running, frozen
// while paused or stopped.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateRunning {
		return t.elapsed + t.clock.Now().Sub(t.startedAt)
	}

	return t.elapsed
}

func (t *Timer) ElapsedMilliseconds() int64 {
	return t.Elapsed().Milliseconds()
}
