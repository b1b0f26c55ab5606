package timer

import (
	"testing"
	"time"
)

// fakeClock advances only when told to, so elapsed time is exact.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestStartStop(t *testing.T) {
	clock := newFakeClock()
	tm := New(0, clock.Now)

	if tm.State() != Idle {
		t.Fatalf("new timer state = %v, want Idle", tm.State())
	}

	if err := tm.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if tm.State() != Running {
		t.Errorf("state after Start = %v, want Running", tm.State())
	}

	clock.Advance(65 * time.Second)

	elapsed, err := tm.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if elapsed != 65*time.Second {
		t.Errorf("elapsed = %v, want 65s", elapsed)
	}
	if got := Minutes(elapsed); got != 1 {
		t.Errorf("Minutes(65s) = %d, want 1 (floored)", got)
	}
	if tm.State() != Stopped {
		t.Errorf("state after Stop = %v, want Stopped", tm.State())
	}
}

func TestStartTwice(t *testing.T) {
	clock := newFakeClock()
	tm := New(0, clock.Now)

	if err := tm.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := tm.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestPauseExcludesTime(t *testing.T) {
	clock := newFakeClock()
	tm := New(0, clock.Now)

	tm.Start()
	clock.Advance(2 * time.Minute)
	tm.Pause()
	if tm.State() != Paused {
		t.Fatalf("state after Pause = %v, want Paused", tm.State())
	}

	// Time spent paused must not count.
	clock.Advance(10 * time.Minute)
	tm.Resume()
	clock.Advance(time.Minute)

	elapsed, err := tm.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if elapsed != 3*time.Minute {
		t.Errorf("elapsed = %v, want 3m (paused span excluded)", elapsed)
	}
}

func TestWrongStateNoOps(t *testing.T) {
	clock := newFakeClock()

	tests := []struct {
		name  string
		setup func(tm *Timer)
		call  func(tm *Timer)
		want  State
	}{
		{"pause while idle", func(tm *Timer) {}, (*Timer).Pause, Idle},
		{"resume while idle", func(tm *Timer) {}, (*Timer).Resume, Idle},
		{"resume while running", func(tm *Timer) { tm.Start() }, (*Timer).Resume, Running},
		{"pause while paused", func(tm *Timer) { tm.Start(); tm.Pause() }, (*Timer).Pause, Paused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := New(0, clock.Now)
			tt.setup(tm)
			tt.call(tm)
			if tm.State() != tt.want {
				t.Errorf("state = %v, want %v", tm.State(), tt.want)
			}
		})
	}
}

func TestStopWhilePaused(t *testing.T) {
	clock := newFakeClock()
	tm := New(0, clock.Now)

	tm.Start()
	clock.Advance(90 * time.Second)
	tm.Pause()
	clock.Advance(time.Hour)

	elapsed, err := tm.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if elapsed != 90*time.Second {
		t.Errorf("elapsed = %v, want 90s", elapsed)
	}
}

func TestStopIdle(t *testing.T) {
	tm := New(0, newFakeClock().Now)
	if _, err := tm.Stop(); err != ErrNotRunning {
		t.Errorf("Stop() on idle timer error = %v, want ErrNotRunning", err)
	}
}

func TestCountdown(t *testing.T) {
	clock := newFakeClock()
	tm := New(25*time.Minute, clock.Now)

	tm.Start()
	clock.Advance(10 * time.Minute)
	if tm.Expired() {
		t.Error("timer expired at 10m of a 25m countdown")
	}
	if got := tm.Remaining(); got != 15*time.Minute {
		t.Errorf("Remaining() = %v, want 15m", got)
	}

	clock.Advance(15 * time.Minute)
	if !tm.Expired() {
		t.Error("timer not expired at 25m of a 25m countdown")
	}
	if got := tm.Remaining(); got != 0 {
		t.Errorf("Remaining() after expiry = %v, want 0", got)
	}
}

func TestEndlessNeverExpires(t *testing.T) {
	clock := newFakeClock()
	tm := New(0, clock.Now)

	tm.Start()
	clock.Advance(6 * time.Hour)
	if tm.Expired() {
		t.Error("endless timer reported expired")
	}
	if got := tm.Elapsed(); got != 6*time.Hour {
		t.Errorf("Elapsed() = %v, want 6h", got)
	}
}

func TestMinutesFloor(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{59 * time.Second, 0},
		{60 * time.Second, 1},
		{65 * time.Second, 1},
		{119 * time.Second, 1},
		{25 * time.Minute, 25},
		{-time.Minute, 0},
	}

	for _, tt := range tests {
		if got := Minutes(tt.elapsed); got != tt.want {
			t.Errorf("Minutes(%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}
