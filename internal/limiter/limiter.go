// Package limiter provides a counting admission primitive that bounds the
// number of simultaneous in-flight operations.
package limiter

import "context"

// Limiter admits at most K holders at a time. Acquire suspends until a slot
// frees up; there is no fairness guarantee beyond eventual admission.
type Limiter struct {
	slots chan struct{}
}

func New(capacity int) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{slots: make(chan struct{}, capacity)}
}

// Acquire blocks until a permit is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a previously acquired permit.
func (l *Limiter) Release() {
	select {
	case <-l.slots:
	default:
		panic("limiter: release without acquire")
	}
}

// Outstanding reports how many permits are currently held.
func (l *Limiter) Outstanding() int {
	return len(l.slots)
}
