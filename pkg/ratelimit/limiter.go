package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter paces outgoing requests
type Limiter interface {
	// Allow reports whether a request may start now, reserving the slot if so
	Allow() bool
	// Wait blocks until a request may start or ctx is done
	Wait(ctx context.Context) error
	// Reset forgets previous requests
	Reset()
}

// Interval spaces request starts at least a fixed delay apart. The first
// request after construction or Reset is never delayed. Concurrent callers
// are served in the order they reserve a slot.
type Interval struct {
	mu    sync.Mutex
	every time.Duration
	next  time.Time
	now   func() time.Time
}

// NewInterval creates a limiter with the given minimum spacing
func NewInterval(every time.Duration) *Interval {
	return &Interval{every: every, now: time.Now}
}

// Every returns the configured spacing
func (l *Interval) Every() time.Duration {
	return l.every
}

// Allow reserves the next slot if it is already open
func (l *Interval) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Before(l.next) {
		return false
	}
	l.next = now.Add(l.every)
	return true
}

// Wait reserves the next slot and sleeps until it opens
func (l *Interval) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	now := l.now()
	start := l.next
	if start.Before(now) {
		start = now
	}
	l.next = start.Add(l.every)
	l.mu.Unlock()

	delay := start.Sub(now)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset clears the pending reservation
func (l *Interval) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next = time.Time{}
}

// Unlimited never delays
type Unlimited struct{}

func (Unlimited) Allow() bool                    { return true }
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
func (Unlimited) Reset()                         {}

// New returns an Interval limiter for a positive delay and Unlimited otherwise
func New(delay time.Duration) Limiter {
	if delay <= 0 {
		return Unlimited{}
	}
	return NewInterval(delay)
}
