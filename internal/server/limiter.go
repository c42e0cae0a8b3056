package server

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyConversions is returned when every conversion slot stays occupied for the
// whole wait period. Clients should retry after a short delay.
var ErrTooManyConversions = errors.New("too many concurrent conversions, please try again later")

// Limiter bounds the number of conversions running at once.
type Limiter struct {
	sem     *semaphore.Weighted
	max     int
	maxWait time.Duration
	active  atomic.Int64
}

// NewLimiter creates a limiter that allows at most maxConcurrent conversions.
// Requests that cannot get a slot within maxWait receive ErrTooManyConversions;
// a zero maxWait rejects immediately.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Limiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     maxConcurrent,
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must call Release once the conversion ends.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.maxWait <= 0 {
		if !l.sem.TryAcquire(1) {
			return ErrTooManyConversions
		}
		l.active.Add(1)
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyConversions
	}
	l.active.Add(1)
	return nil
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Active returns the number of running conversions.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// Max returns the maximum number of concurrent conversions.
func (l *Limiter) Max() int {
	return l.max
}
