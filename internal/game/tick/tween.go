package tick

import "time"

// Ease maps linear progress in [0, 1] to eased progress in [0, 1].
type Ease func(p float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// EaseInOutQuad accelerates through the first half and decelerates through
// the second.
func EaseInOutQuad(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	return 1 - (-2*p+2)*(-2*p+2)/2
}

// EaseOutQuad decelerates towards the target.
func EaseOutQuad(p float64) float64 {
	return 1 - (1-p)*(1-p)
}

// Tween interpolates a value of type T from a start to a target over a fixed
// duration of simulated time. The zero value is an inactive tween.
type Tween[T any] struct {
	from     T
	to       T
	current  T
	elapsed  time.Duration
	duration time.Duration
	lerp     func(a, b T, p float64) T
	ease     Ease
	active   bool
}

// Start replaces any running interpolation with one from -> to over duration.
// A non-positive duration snaps to the target on the next Advance.
//
// Precondition: lerp must not be nil; ease nil means Linear.
// Postcondition: Active() is true and Current() == from.
func (tw *Tween[T]) Start(from, to T, duration time.Duration, lerp func(a, b T, p float64) T, ease Ease) {
	if ease == nil {
		ease = Linear
	}
	tw.from = from
	tw.to = to
	tw.current = from
	tw.elapsed = 0
	tw.duration = duration
	tw.lerp = lerp
	tw.ease = ease
	tw.active = true
}

// Cancel stops the interpolation where it is.
func (tw *Tween[T]) Cancel() {
	tw.active = false
}

// Active reports whether an interpolation is in progress.
func (tw *Tween[T]) Active() bool {
	return tw.active
}

// Target returns the value the current interpolation is heading towards.
func (tw *Tween[T]) Target() T {
	return tw.to
}

// Current returns the most recently interpolated value.
func (tw *Tween[T]) Current() T {
	return tw.current
}

// Advance moves the interpolation forward by dt.
//
// Postcondition: returns the interpolated value and true while active; once
// the duration has elapsed the value equals the target and the tween becomes
// inactive.
func (tw *Tween[T]) Advance(dt time.Duration) (T, bool) {
	if !tw.active {
		return tw.current, false
	}
	tw.elapsed += dt
	if tw.duration <= 0 || tw.elapsed >= tw.duration {
		tw.current = tw.to
		tw.active = false
		return tw.current, true
	}
	p := float64(tw.elapsed) / float64(tw.duration)
	tw.current = tw.lerp(tw.from, tw.to, tw.ease(p))
	return tw.current, true
}
