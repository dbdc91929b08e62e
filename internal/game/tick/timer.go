// Package tick provides frame-driven timers and tweens. Nothing in this package
// starts goroutines: every pending callback fires from Advance, on the caller's
// goroutine, at the start of the tick in which its deadline has elapsed.
package tick

import "time"

// Timer fires a callback once a configurable amount of simulated time has
// been advanced through it, unless stopped first.
//
// The zero value is an idle timer. A Timer is not safe for concurrent use; it
// is owned by the component whose tick drives it.
type Timer struct {
	remaining time.Duration
	onFire    func()
	armed     bool
}

// Reset cancels any pending callback and arms the timer to call onFire after
// duration of simulated time.
//
// Precondition: onFire must not be nil.
// Postcondition: Pending() is true; the previous callback will never fire.
func (t *Timer) Reset(duration time.Duration, onFire func()) {
	t.remaining = duration
	t.onFire = onFire
	t.armed = true
}

// Stop prevents the pending callback from firing. Safe to call multiple times.
//
// Postcondition: Pending() is false.
func (t *Timer) Stop() {
	t.armed = false
	t.onFire = nil
	t.remaining = 0
}

// Pending reports whether a callback is armed.
func (t *Timer) Pending() bool {
	return t.armed
}

// Remaining returns the simulated time left before the callback fires, or 0
// when the timer is idle.
func (t *Timer) Remaining() time.Duration {
	if !t.armed {
		return 0
	}
	return t.remaining
}

// Advance moves the timer forward by dt and fires the callback when the
// deadline has been reached. The timer is disarmed before the callback runs,
// so the callback may Reset it to schedule a follow-up.
//
// Precondition: dt >= 0.
// Postcondition: returns true iff the callback fired during this call.
func (t *Timer) Advance(dt time.Duration) bool {
	if !t.armed {
		return false
	}
	t.remaining -= dt
	if t.remaining > 0 {
		return false
	}
	fn := t.onFire
	t.Stop()
	fn()
	return true
}
