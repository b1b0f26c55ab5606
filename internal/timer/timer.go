// Package timer implements the study-session timer state machine.
// A Timer moves Idle -> Running -> (Paused <-> Running) -> Stopped and
// accumulates elapsed wall-clock time only while Running. Time is read
// through an injectable clock so tests can drive it deterministically.
package timer

import (
	"errors"
	"time"
)

type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
	Stopped State = "stopped"
)

var (
	ErrAlreadyStarted = errors.New("timer already started")
	ErrNotRunning     = errors.New("timer is not running")
)

// Clock abstracts time.Now for tests.
type Clock func() time.Time

// Timer measures one study session. Countdown is the fixed duration for
// timed modes; zero means endless count-up. Callers are expected to
// serialize access (the session service holds one goroutine per tick
// loop and locks around transitions).
type Timer struct {
	now       Clock
	countdown time.Duration

	state       State
	startedAt   time.Time
	resumedAt   time.Time
	accumulated time.Duration
}

// New returns an Idle timer. countdown <= 0 selects endless mode.
func New(countdown time.Duration, now Clock) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now, countdown: countdown, state: Idle}
}

func (t *Timer) State() State { return t.state }

// StartedAt is the zero time until Start is called.
func (t *Timer) StartedAt() time.Time { return t.startedAt }

// Start begins measuring. Valid only from Idle.
func (t *Timer) Start() error {
	if t.state != Idle {
		return ErrAlreadyStarted
	}
	t.startedAt = t.now()
	t.resumedAt = t.startedAt
	t.accumulated = 0
	t.state = Running
	return nil
}

// Pause freezes the elapsed counter. Calling Pause in any state other
// than Running is a deliberate no-op: rapid double-clicks from the UI
// must not surface as errors.
func (t *Timer) Pause() {
	if t.state != Running {
		return
	}
	t.accumulated += t.now().Sub(t.resumedAt)
	t.state = Paused
}

// Resume continues a paused timer. A no-op unless Paused, for the same
// reason Pause tolerates wrong-state calls.
func (t *Timer) Resume() {
	if t.state != Paused {
		return
	}
	t.resumedAt = t.now()
	t.state = Running
}

// Stop finalizes the session and returns the total elapsed time. Valid
// from Running or Paused.
func (t *Timer) Stop() (time.Duration, error) {
	switch t.state {
	case Running:
		t.accumulated += t.now().Sub(t.resumedAt)
	case Paused:
		// accumulated already up to date
	default:
		return 0, ErrNotRunning
	}
	t.state = Stopped
	return t.accumulated, nil
}

// Elapsed reports time measured so far, including the live span of a
// Running timer. Paused spans never count.
func (t *Timer) Elapsed() time.Duration {
	if t.state == Running {
		return t.accumulated + t.now().Sub(t.resumedAt)
	}
	return t.accumulated
}

// Remaining reports countdown time left, or 0 for endless timers.
func (t *Timer) Remaining() time.Duration {
	if t.countdown <= 0 {
		return 0
	}
	left := t.countdown - t.Elapsed()
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a fixed countdown has run out. Endless timers
// never expire.
func (t *Timer) Expired() bool {
	return t.countdown > 0 && t.Elapsed() >= t.countdown
}

// Minutes converts an elapsed duration to ledger minutes. Partial
// minutes are floored so short sessions are never over-credited.
func Minutes(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}
