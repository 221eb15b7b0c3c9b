// Package debounce runs event hooks on a background goroutine, coalescing
// bursts of values into a single trailing action.
package debounce

import (
	"context"
	"time"
)

// DefaultDelay is the quiet period used when a Trailing has no delay set.
const DefaultDelay = 500 * time.Millisecond

// Hook receives every value sent to its runner. HandleEvent folds the value
// into the hook's state and returns the deadline at which FinishDebounce
// should fire; returning false cancels any pending deadline. pending is the
// deadline currently armed, or the zero time when none is.
type Hook[T any] interface {
	HandleEvent(v T, pending time.Time) (time.Time, bool)
	FinishDebounce()
}

// Spawn starts a runner for hook and returns the channel feeding it. The
// runner exits when ctx is cancelled; a deadline pending at that point is
// dropped without firing.
func Spawn[T any](ctx context.Context, hook Hook[T], buffer int) chan T {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan T, buffer)
	go Run(ctx, hook, ch)
	return ch
}

// Run drives hook from in until ctx is done or in is closed.
func Run[T any](ctx context.Context, hook Hook[T], in <-chan T) {
	var (
		deadline time.Time
		timer    *time.Timer
		fire     <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = nil
		fire = nil
		deadline = time.Time{}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-in:
			if !ok {
				return
			}
			next, armed := hook.HandleEvent(v, deadline)
			if !armed {
				stop()
				continue
			}
			if timer != nil && next.Equal(deadline) {
				continue
			}
			stop()
			deadline = next
			timer = time.NewTimer(time.Until(next))
			fire = timer.C
		case <-fire:
			timer = nil
			fire = nil
			deadline = time.Time{}
			if ctx.Err() != nil {
				return
			}
			hook.FinishDebounce()
		}
	}
}

// Send delivers v without blocking. When the channel is full the oldest
// queued value is discarded so the most recent value always gets through.
func Send[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Trailing holds the last value seen by a hook and whether a deadline for it
// is still outstanding. A value equal to the last one seen never moves the
// deadline. The last value starts as the zero value of T, so observing the
// zero value first arms nothing.
type Trailing[T comparable] struct {
	Delay time.Duration

	last    T
	pending bool
}

// Observe records v. When v differs from the last value it returns a fresh
// deadline measured from now; otherwise it returns the deadline already
// pending, reporting false when there is none.
func (t *Trailing[T]) Observe(v T, now, pending time.Time) (time.Time, bool) {
	if v == t.last {
		return pending, !pending.IsZero()
	}
	t.last = v
	t.pending = true
	delay := t.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	return now.Add(delay), true
}

// Take returns the last value and clears the pending flag. The value stays
// remembered for comparison.
func (t *Trailing[T]) Take() (T, bool) {
	ok := t.pending
	t.pending = false
	return t.last, ok
}

// Pending reports whether a value is waiting for its deadline.
func (t *Trailing[T]) Pending() bool {
	return t.pending
}

// Reset returns to the zero value so the next non-zero Observe arms a
// deadline.
func (t *Trailing[T]) Reset() {
	var zero T
	t.last = zero
	t.pending = false
}
