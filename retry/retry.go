// Package retry decides, after each attempt of an HTTP call, whether to try
// again, how long to wait, and when to give up. The decision logic is a
// plain state machine over attempt records so that backoff, jitter, and
// Retry-After handling are testable without network I/O or real sleeps.
package retry

import (
	"context"
	crand "crypto/rand"
	"math/big"
	"net/http"
	"strconv"
	"time"
)

// Outcome classifies a finished attempt.
type Outcome int

const (
	// Success ends the loop with the response in hand.
	Success Outcome = iota
	// Retryable failures (throttling, server errors, transport faults) may
	// be attempted again while budget remains.
	Retryable
	// Fatal failures surface immediately without another attempt.
	Fatal
)

// Classify maps an attempt result to an Outcome. A transport error (err
// non-nil) is retryable; callers decide separately whether cancellation
// overrides. HTTP 429 and all 5xx are retryable; any other status outside
// 2xx is fatal.
func Classify(statusCode int, err error) Outcome {
	if err != nil {
		return Retryable
	}
	if statusCode >= 200 && statusCode < 300 {
		return Success
	}
	if statusCode == http.StatusTooManyRequests || statusCode >= 500 {
		return Retryable
	}
	return Fatal
}

// Attempt is the ephemeral record of one request try.
type Attempt struct {
	// Number is 1-based: the first try is attempt 1.
	Number    int
	StartedAt time.Time
	// StatusCode is zero when the attempt failed before a response arrived.
	StatusCode int
	// Err is the transport-level failure, nil when a response was received.
	Err error
	// RetryAfter is the parsed Retry-After delay from a throttled response,
	// zero when absent.
	RetryAfter time.Duration
}

// Decision is the policy's verdict on an attempt.
type Decision struct {
	Outcome Outcome
	// Retry is true when another attempt should be made after Delay.
	Retry bool
	Delay time.Duration
	// Exhausted is true when the outcome was retryable but the budget is
	// spent.
	Exhausted bool
}

// Policy computes retry decisions. Fields are read-only after construction;
// one Policy may serve any number of concurrent callers.
type Policy struct {
	// MaxRetries bounds retries after the initial attempt: a request makes
	// at most MaxRetries+1 attempts in total.
	MaxRetries int
	// MinBackoff seeds the exponential delay, doubling per attempt.
	MinBackoff time.Duration
	// MaxBackoff caps the computed delay and any Retry-After override.
	MaxBackoff time.Duration
	// Jitter randomizes each delay across [0, computed) to desynchronize
	// concurrent retriers.
	Jitter bool
	// Clock supplies time and cancellable sleeps; nil means the system
	// clock.
	Clock Clock
}

// Decide applies the classification rules and retry budget to a finished
// attempt.
func (p *Policy) Decide(a Attempt) Decision {
	outcome := Classify(a.StatusCode, a.Err)
	switch outcome {
	case Success, Fatal:
		return Decision{Outcome: outcome}
	default:
	}

	if a.Number > p.MaxRetries {
		return Decision{Outcome: Retryable, Exhausted: true}
	}
	return Decision{
		Outcome: Retryable,
		Retry:   true,
		Delay:   p.delay(a),
	}
}

// Wait sleeps for d or until ctx is done, using the injected clock.
func (p *Policy) Wait(ctx context.Context, d time.Duration) error {
	return p.clock().Sleep(ctx, d)
}

// Now reports the policy clock's current time.
func (p *Policy) Now() time.Time {
	return p.clock().Now()
}

func (p *Policy) clock() Clock {
	if p.Clock != nil {
		return p.Clock
	}
	return systemClock{}
}

// delay computes the wait before the next attempt. A Retry-After value from
// a throttled response replaces the exponential computation; both paths are
// clamped to MaxBackoff.
func (p *Policy) delay(a Attempt) time.Duration {
	if a.RetryAfter > 0 {
		return min(a.RetryAfter, p.maxBackoff())
	}

	base := p.MinBackoff
	if base <= 0 {
		base = 50 * time.Millisecond
	}

	// Cap the shift to avoid overflow when computing the multiplier.
	shift := a.Number - 1
	if shift > 20 { // 2^20 = 1,048,576
		shift = 20
	}
	d := base * time.Duration(1<<shift)
	if d > p.maxBackoff() || d <= 0 {
		d = p.maxBackoff()
	}

	if p.Jitter {
		return fullJitter(d)
	}
	return d
}

func (p *Policy) maxBackoff() time.Duration {
	if p.MaxBackoff > 0 {
		return p.MaxBackoff
	}
	return 30 * time.Second
}

// fullJitter draws a random duration in [0, d).
func fullJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	n, err := crand.Int(crand.Reader, big.NewInt(int64(d)))
	if err != nil {
		// On RNG failure, fall back to the full delay
		return d
	}
	return time.Duration(n.Int64())
}

// ParseRetryAfter reads a Retry-After header value, either delay-seconds or
// an HTTP-date, relative to now. The second return is false when the value
// is absent or unparseable.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.ParseUint(value, 10, 32); err == nil {
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
