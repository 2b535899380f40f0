package ratelimit

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// window is the rolling interval the call ceiling applies to.
const window = 60 * time.Second

// Limiter caps the number of calls started within any trailing 60-second
// interval. A call that would exceed the ceiling blocks in WaitIfNeeded
// until the window admits it. The limiter only delays; it never fails
// except when the caller's context is cancelled mid-wait.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	calls    []time.Time

	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	notify func(d time.Duration)
}

// Option configures optional Limiter behavior.
type Option func(*Limiter)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithSleeper overrides the blocking sleep. Used by tests to avoid
// real waits.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.sleep = sleep
	}
}

// WithNotify overrides the user-visible wait notice.
func WithNotify(notify func(d time.Duration)) Option {
	return func(l *Limiter) {
		l.notify = notify
	}
}

// New creates a limiter allowing maxCallsPerMinute calls per rolling minute.
func New(maxCallsPerMinute int, opts ...Option) *Limiter {
	if maxCallsPerMinute <= 0 {
		maxCallsPerMinute = 50
	}
	l := &Limiter{
		maxCalls: maxCallsPerMinute,
		now:      time.Now,
		sleep:    sleepContext,
		notify:   printWaitNotice,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WaitIfNeeded blocks until the rolling window admits another call, then
// records the call. Call it immediately before each outbound request.
// Returns ctx.Err() if the context is cancelled before the wait completes;
// in that case the call is not recorded.
func (l *Limiter) WaitIfNeeded(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())

	if len(l.calls) >= l.maxCalls {
		oldest := l.calls[0]
		wait := window - l.now().Sub(oldest)
		if wait > 0 {
			l.notify(wait)
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
		}
		// The oldest call has now aged out of the window.
		l.prune(l.now())
	}

	l.calls = append(l.calls, l.now())
	return nil
}

// prune drops calls that have aged out of the window. Timestamps are
// appended in order, so the slice stays sorted oldest-first.
func (l *Limiter) prune(now time.Time) {
	kept := l.calls[:0]
	for _, t := range l.calls {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	l.calls = kept
}

// Recorded returns the number of calls currently tracked in the window.
func (l *Limiter) Recorded() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
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

func printWaitNotice(d time.Duration) {
	color.New(color.FgYellow).Fprintf(os.Stderr,
		"Rate limit reached. Waiting %.1f seconds...\n", d.Seconds())
}
