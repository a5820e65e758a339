package ratelimit

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultRequestsPerMinute = 25
	MaxRequestsPerMinute     = 30
	DefaultRetries           = 2
	MaxRetries               = 10
	DefaultRetryBackoff      = 65 * time.Second
)

// RateLimited is implemented by errors that carry an upstream 429.
type RateLimited interface {
	RateLimited() bool
	// RetryAfter returns the server's requested wait, when it sent one.
	RetryAfter() (time.Duration, bool)
}

// PacerConfig tunes a Pacer. Zero values take the defaults.
type PacerConfig struct {
	RequestsPerMinute int
	// Delay, when positive, replaces the interval derived from
	// RequestsPerMinute.
	Delay   time.Duration
	Retries *int
	// Backoff is used after a 429 that carries no retry hint.
	Backoff time.Duration

	Clock Clock
	Sleep func(ctx context.Context, d time.Duration) error
}

// Pacer spaces request starts at least Interval apart and retries calls
// rejected with a 429. A Pacer is meant for one sequential batch and is not
// safe for concurrent use.
type Pacer struct {
	interval    time.Duration
	maxAttempts int
	backoff     time.Duration
	clock       Clock
	sleep       func(ctx context.Context, d time.Duration) error

	lastRequestStartedAt time.Time
}

// NewPacer builds a Pacer. Requests per minute are clamped to 1..30 and
// retries to 0..10.
func NewPacer(cfg PacerConfig) *Pacer {
	rpm := cfg.RequestsPerMinute
	if rpm == 0 {
		rpm = DefaultRequestsPerMinute
	}
	rpm = clamp(rpm, 1, MaxRequestsPerMinute)

	interval := cfg.Delay
	if interval <= 0 {
		interval = time.Duration(math.Ceil(float64(time.Minute/time.Millisecond)/float64(rpm))) * time.Millisecond
	}

	retries := DefaultRetries
	if cfg.Retries != nil {
		retries = clamp(*cfg.Retries, 0, MaxRetries)
	}

	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &Pacer{
		interval:    interval,
		maxAttempts: retries + 1,
		backoff:     backoff,
		clock:       clock,
		sleep:       sleep,
	}
}

// Interval is the minimum spacing between request starts.
func (p *Pacer) Interval() time.Duration { return p.interval }

// MaxAttempts is one plus the configured retries.
func (p *Pacer) MaxAttempts() int { return p.maxAttempts }

// Do runs fn, waiting out the interval before every attempt. Rate-limited
// failures are retried after the server's hint or the default backoff; any
// other error, or a 429 on the last attempt, is returned as is.
func (p *Pacer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if waitErr := p.waitForInterval(ctx); waitErr != nil {
			return waitErr
		}
		p.lastRequestStartedAt = p.clock.Now()

		err = fn(ctx)
		if err == nil || !IsRateLimited(err) || attempt == p.maxAttempts {
			return err
		}

		wait, ok := RetryAfter(err)
		if !ok {
			wait = p.backoff
		}
		log.Ctx(ctx).Info().
			Int("attempt", attempt).
			Int("max_attempts", p.maxAttempts).
			Dur("wait", wait).
			Msg("Rate limited, waiting before retry")
		if sleepErr := p.sleep(ctx, wait); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}

func (p *Pacer) waitForInterval(ctx context.Context) error {
	if p.lastRequestStartedAt.IsZero() {
		return nil
	}
	wait := p.interval - p.clock.Now().Sub(p.lastRequestStartedAt)
	if wait <= 0 {
		return nil
	}
	return p.sleep(ctx, wait)
}

var rateLimitPattern = regexp.MustCompile(`(?i)\b429\b|rate limit`)

// IsRateLimited reports whether err is an upstream 429, either typed or by
// its message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var rl RateLimited
	if errors.As(err, &rl) && rl.RateLimited() {
		return true
	}
	return rateLimitPattern.MatchString(err.Error())
}

var (
	retryAfterMillis  = regexp.MustCompile(`(?i)retry[- ]?after[^0-9]*(\d+)\s*(ms|millisecond)`)
	retryAfterSeconds = regexp.MustCompile(`(?i)retry[- ]?after[^0-9]*(\d+)\s*(s|sec|second)`)
)

// RetryAfter extracts the wait requested by a rate-limited error.
func RetryAfter(err error) (time.Duration, bool) {
	var rl RateLimited
	if errors.As(err, &rl) {
		if d, ok := rl.RetryAfter(); ok {
			return d, true
		}
	}
	return ParseRetryAfter(err.Error())
}

// ParseRetryAfter reads "retry after N ms" or "retry after N s" from text.
func ParseRetryAfter(text string) (time.Duration, bool) {
	if m := retryAfterMillis.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return time.Duration(n) * time.Millisecond, true
		}
	}
	if m := retryAfterSeconds.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return time.Duration(n) * time.Second, true
		}
	}
	return 0, false
}

// ParseRetryAfterHeader reads a Retry-After header in delta-seconds form.
func ParseRetryAfterHeader(value string) (time.Duration, bool) {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
