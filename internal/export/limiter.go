package export

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when every export slot stays occupied for the whole
// wait. Clients should retry shortly.
var ErrBusy = errors.New("too many exports in progress")

// Limiter bounds the number of exports built at once.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewLimiter allows size concurrent exports. Callers wait at most maxWait
// for a slot. Non-positive values fall back to 4 slots and 10s.
func NewLimiter(size int, maxWait time.Duration) *Limiter {
	if size <= 0 {
		size = 4
	}
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	return &Limiter{slots: make(chan struct{}, size), maxWait: maxWait}
}

// Acquire takes a slot. It returns ErrBusy when the wait expires and
// ctx.Err() when ctx ends first. Every nil return must be paired with Release.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
}

// Release returns a slot taken by Acquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active returns the number of exports in progress.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// Available returns the number of free slots.
func (l *Limiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// Drain blocks until no export is in progress or ctx is done.
func (l *Limiter) Drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
