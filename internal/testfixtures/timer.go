package testfixtures

import (
	"sync"
	"time"
)

// FakeTimer is a manually fired single-shot timer handle.
type FakeTimer struct {
	mu      sync.Mutex
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// Fire runs the callback unless the timer was already stopped or fired.
func (t *FakeTimer) Fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}

// Stop cancels the timer, reporting true when the callback had not yet run.
func (t *FakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Fired reports whether the callback ran.
func (t *FakeTimer) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// TimerRecorder collects the timers a component arms so tests can inspect
// delays and fire callbacks deterministically.
type TimerRecorder struct {
	mu     sync.Mutex
	Timers []*FakeTimer
}

// NewTimerRecorder returns an empty recorder.
func NewTimerRecorder() *TimerRecorder {
	return &TimerRecorder{}
}

// Create registers a new fake timer for the given delay and callback.
func (r *TimerRecorder) Create(delay time.Duration, fn func()) *FakeTimer {
	timer := &FakeTimer{Delay: delay, fn: fn}
	r.mu.Lock()
	r.Timers = append(r.Timers, timer)
	r.mu.Unlock()
	return timer
}

// Armed returns the number of timers created so far.
func (r *TimerRecorder) Armed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Timers)
}
