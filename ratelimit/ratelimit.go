// Package ratelimit gates outbound requests behind a sustained-rate budget
// and a concurrency budget. One Limiter is shared by every request a client
// issues; waiters are admitted in FIFO order and suspend rather than spin.
package ratelimit

import (
	"context"
	"math"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limiter bounds the long-run request rate and the number of requests in
// flight at once. The zero value is not usable; construct with New.
type Limiter struct {
	rate *rate.Limiter
	sem  *semaphore.Weighted
}

// New creates a Limiter allowing requestsPerSecond sustained throughput and
// at most maxConcurrency simultaneous holders. Values below the minimum are
// clamped to 1. The burst equals the per-second rate rounded up, so a cold
// limiter admits up to one second of traffic immediately.
func New(requestsPerSecond float64, maxConcurrency int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	burst := int(math.Ceil(requestsPerSecond))
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		rate: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		sem:  semaphore.NewWeighted(int64(maxConcurrency)),
	}
}

// Acquire blocks until both a concurrency slot and a rate token are
// available, or ctx is done. The concurrency slot is taken first so that a
// caller waiting on the rate budget already counts against the in-flight
// bound. On error nothing is held and Release must not be called.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := l.rate.Wait(ctx); err != nil {
		l.sem.Release(1)
		return err
	}
	return nil
}

// Release returns the concurrency slot taken by a successful Acquire. It
// must be called exactly once per successful Acquire, on every exit path.
func (l *Limiter) Release() {
	l.sem.Release(1)
}
