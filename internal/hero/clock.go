// internal/hero/clock.go
//
// Time sources for the title animation controller.
// Every delay the controller arms goes through a Clock so that the whole
// choreography can be stepped deterministically in tests.
//
//   - RealClock is clockwork's real clock (callbacks run on their own goroutine).
//   - ManualClock fires callbacks synchronously from Advance, in due order,
//     including timers armed by a callback inside the same window. Phases
//     chain every step through AfterFunc, so tests rely on this ordering.

package hero

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It reports false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Clock provides the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{ clockwork.Clock }

// RealClock returns a Clock backed by the runtime timer wheel.
func RealClock() Clock { return realClock{clockwork.NewRealClock()} }

func (c realClock) AfterFunc(d time.Duration, f func()) Timer { return c.Clock.AfterFunc(d, f) }

// ManualClock is a controllable Clock. Time only moves when Advance is called.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	at    time.Time
	seq   uint64
	f     func()
	done  bool
}

// NewManualClock creates a manual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves time forward by d, firing every timer that becomes due.
// Timers armed by callbacks are honoured if they fall inside the window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.popDueLocked(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if t.at.After(c.now) {
			c.now = t.at
		}
		c.mu.Unlock()
		t.f()
	}
}

// Pending reports how many timers are armed and not yet fired or stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// popDueLocked removes and returns the earliest timer due at or before target.
func (c *ManualClock) popDueLocked(target time.Time) *manualTimer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.SliceStable(c.pending, func(i, j int) bool {
		a, b := c.pending[i], c.pending[j]
		if a.at.Equal(b.at) {
			return a.seq < b.seq
		}
		return a.at.Before(b.at)
	})
	t := c.pending[0]
	if t.at.After(target) {
		return nil
	}
	c.pending = c.pending[1:]
	t.done = true
	return t
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}
	return true
}
