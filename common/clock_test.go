package common

import (
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// --- ManualClock Tests ---

// TestManualClock_FiresInOrder tests that timers fire by deadline, not registration order
func TestManualClock_FiresInOrder(t *testing.T) {
	c := NewManualClock(epoch)
	var order []int

	c.AfterFunc(300*time.Millisecond, func() { order = append(order, 3) })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, 1) })
	c.AfterFunc(200*time.Millisecond, func() { order = append(order, 2) })

	c.Advance(time.Second)

	if len(order) != 3 {
		t.Fatalf("Expected 3 callbacks, got %d", len(order))
	}
	for i, v := range order {
		if v != i+1 {
			t.Errorf("Expected callback %d at position %d, got %d", i+1, i, v)
		}
	}
}

// TestManualClock_NotDueYet tests that timers beyond the window stay pending
func TestManualClock_NotDueYet(t *testing.T) {
	c := NewManualClock(epoch)
	fired := false
	c.AfterFunc(500*time.Millisecond, func() { fired = true })

	c.Advance(499 * time.Millisecond)
	if fired {
		t.Error("Expected timer not to fire before its deadline")
	}
	if c.Pending() != 1 {
		t.Errorf("Expected 1 pending timer, got %d", c.Pending())
	}

	c.Advance(time.Millisecond)
	if !fired {
		t.Error("Expected timer to fire at its deadline")
	}
}

// TestManualClock_Stop tests that stopped timers never fire
func TestManualClock_Stop(t *testing.T) {
	c := NewManualClock(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Expected Stop to report a pending timer")
	}
	if timer.Stop() {
		t.Error("Expected second Stop to return false")
	}

	c.Advance(2 * time.Second)
	if fired {
		t.Error("Expected stopped timer not to fire")
	}
}

// TestManualClock_Reschedule tests that callbacks can schedule follow-ups inside the window
func TestManualClock_Reschedule(t *testing.T) {
	c := NewManualClock(epoch)
	var count int32
	var tick func()
	tick = func() {
		atomic.AddInt32(&count, 1)
		c.AfterFunc(100*time.Millisecond, tick)
	}
	c.AfterFunc(0, tick)

	c.Advance(350 * time.Millisecond)

	// fires at 0, 100, 200, 300
	if got := atomic.LoadInt32(&count); got != 4 {
		t.Errorf("Expected 4 ticks, got %d", got)
	}
	if c.Pending() != 1 {
		t.Errorf("Expected the next tick to be pending, got %d", c.Pending())
	}
}

// TestManualClock_NowDuringCallback tests that Now reports the timer's deadline
func TestManualClock_NowDuringCallback(t *testing.T) {
	c := NewManualClock(epoch)
	var seen time.Time
	c.AfterFunc(250*time.Millisecond, func() { seen = c.Now() })

	c.Advance(time.Second)

	if want := epoch.Add(250 * time.Millisecond); !seen.Equal(want) {
		t.Errorf("Expected Now() = %v inside callback, got %v", want, seen)
	}
	if want := epoch.Add(time.Second); !c.Now().Equal(want) {
		t.Errorf("Expected clock at %v after Advance, got %v", want, c.Now())
	}
}

// TestRealClock_AfterFunc tests that the real clock fires and can be stopped
func TestRealClock_AfterFunc(t *testing.T) {
	c := NewRealClock()
	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected real timer to fire")
	}

	stopped := c.AfterFunc(time.Hour, func() {})
	if !stopped.Stop() {
		t.Error("Expected Stop to cancel a pending real timer")
	}
}
