package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeSleeper advances the mock clock instead of blocking.
type fakeSleeper struct {
	clock  *mockClock
	sleeps []time.Duration
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.sleeps = append(s.sleeps, d)
	s.clock.Advance(d)
	return nil
}

type limitedErr struct {
	wait time.Duration
}

func (e limitedErr) Error() string     { return "upstream throttled" }
func (e limitedErr) RateLimited() bool { return true }
func (e limitedErr) RetryAfter() (time.Duration, bool) {
	return e.wait, e.wait > 0
}

func intPtr(v int) *int { return &v }

func newTestPacer(cfg PacerConfig) (*Pacer, *mockClock, *fakeSleeper) {
	clock := newMockClock()
	sleeper := &fakeSleeper{clock: clock}
	cfg.Clock = clock
	cfg.Sleep = sleeper.Sleep
	return NewPacer(cfg), clock, sleeper
}

func TestNewPacerClamps(t *testing.T) {
	tests := []struct {
		name         string
		cfg          PacerConfig
		wantInterval time.Duration
		wantAttempts int
	}{
		{name: "defaults", cfg: PacerConfig{}, wantInterval: 2400 * time.Millisecond, wantAttempts: 3},
		{name: "rpm above max", cfg: PacerConfig{RequestsPerMinute: 120}, wantInterval: 2 * time.Second, wantAttempts: 3},
		{name: "rpm below min", cfg: PacerConfig{RequestsPerMinute: -4}, wantInterval: time.Minute, wantAttempts: 3},
		{name: "uneven rpm rounds up", cfg: PacerConfig{RequestsPerMinute: 7}, wantInterval: 8572 * time.Millisecond, wantAttempts: 3},
		{name: "delay overrides rpm", cfg: PacerConfig{RequestsPerMinute: 30, Delay: 500 * time.Millisecond}, wantInterval: 500 * time.Millisecond, wantAttempts: 3},
		{name: "no retries", cfg: PacerConfig{Retries: intPtr(0)}, wantInterval: 2400 * time.Millisecond, wantAttempts: 1},
		{name: "retries clamped", cfg: PacerConfig{Retries: intPtr(50)}, wantInterval: 2400 * time.Millisecond, wantAttempts: 11},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPacer(tc.cfg)
			if p.Interval() != tc.wantInterval {
				t.Errorf("Interval() = %v, want %v", p.Interval(), tc.wantInterval)
			}
			if p.MaxAttempts() != tc.wantAttempts {
				t.Errorf("MaxAttempts() = %d, want %d", p.MaxAttempts(), tc.wantAttempts)
			}
		})
	}
}

func TestPacerSpacesRequestStarts(t *testing.T) {
	pacer, clock, sleeper := newTestPacer(PacerConfig{RequestsPerMinute: 30})

	var starts []time.Time
	for i, took := range []time.Duration{500 * time.Millisecond, 3 * time.Second, 0} {
		err := pacer.Do(context.Background(), func(ctx context.Context) error {
			starts = append(starts, clock.Now())
			clock.Advance(took)
			return nil
		})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if len(sleeper.sleeps) != 1 || sleeper.sleeps[0] != 1500*time.Millisecond {
		t.Fatalf("unexpected sleeps: %v", sleeper.sleeps)
	}
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < 2*time.Second {
			t.Fatalf("starts %d and %d only %v apart", i-1, i, gap)
		}
	}
}

func TestPacerRetriesRateLimited(t *testing.T) {
	pacer, _, sleeper := newTestPacer(PacerConfig{RequestsPerMinute: 30, Retries: intPtr(2)})

	calls := 0
	err := pacer.Do(context.Background(), func(ctx context.Context) error {
		calls++
		switch calls {
		case 1:
			return limitedErr{wait: 7 * time.Second}
		case 2:
			return errors.New("HTTP 429: Too Many Requests, retry after 1500 ms")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}

	want := []time.Duration{7 * time.Second, 1500 * time.Millisecond, 500 * time.Millisecond}
	if fmt.Sprint(sleeper.sleeps) != fmt.Sprint(want) {
		t.Fatalf("sleeps = %v, want %v", sleeper.sleeps, want)
	}
}

func TestPacerGivesUpAfterMaxAttempts(t *testing.T) {
	pacer, _, sleeper := newTestPacer(PacerConfig{Retries: intPtr(1)})

	calls := 0
	limited := errors.New("rate limit exceeded")
	err := pacer.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return limited
	})
	if !errors.Is(err, limited) {
		t.Fatalf("expected last rate limit error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if sleeper.sleeps[0] != DefaultRetryBackoff {
		t.Fatalf("expected default backoff, got %v", sleeper.sleeps[0])
	}
}

func TestPacerDoesNotRetryOtherErrors(t *testing.T) {
	pacer, _, sleeper := newTestPacer(PacerConfig{})

	calls := 0
	boom := errors.New("HTTP 500: upstream exploded")
	if err := pacer.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	if calls != 1 || len(sleeper.sleeps) != 0 {
		t.Fatalf("calls=%d sleeps=%v", calls, sleeper.sleeps)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		text   string
		want   time.Duration
		wantOK bool
	}{
		{text: "Retry after 250ms", want: 250 * time.Millisecond, wantOK: true},
		{text: "please retry-after: 12 seconds", want: 12 * time.Second, wantOK: true},
		{text: "retryafter 3 s", want: 3 * time.Second, wantOK: true},
		{text: "rate limit exceeded", wantOK: false},
	}
	for _, tc := range tests {
		got, ok := ParseRetryAfter(tc.text)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseRetryAfter(%q) = %v, %v; want %v, %v", tc.text, got, ok, tc.want, tc.wantOK)
		}
	}

	if d, ok := ParseRetryAfterHeader("30"); !ok || d != 30*time.Second {
		t.Errorf("ParseRetryAfterHeader(30) = %v, %v", d, ok)
	}
	if _, ok := ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"); ok {
		t.Errorf("HTTP-date retry hints are not supported")
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(fmt.Errorf("sync: %w", limitedErr{})) {
		t.Error("wrapped typed error should be rate limited")
	}
	if !IsRateLimited(errors.New("Henrik API returned 429")) {
		t.Error("429 in message should be rate limited")
	}
	if IsRateLimited(errors.New("HTTP 4290 weird")) {
		t.Error("4290 is not a 429")
	}
	if IsRateLimited(nil) {
		t.Error("nil is not rate limited")
	}
}
