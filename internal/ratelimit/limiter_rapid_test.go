package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// The ceiling contract: no trailing 60-second interval ever contains more
// than maxCalls call starts, regardless of how calls are spaced.
func TestRapidLimiter_CeilingNeverExceeded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxCalls := rapid.IntRange(1, 20).Draw(t, "maxCalls")
		callCount := rapid.IntRange(1, 100).Draw(t, "callCount")

		clock := newTestClock()
		l := New(maxCalls,
			WithClock(clock.Now),
			WithSleeper(clock.Sleep),
			WithNotify(func(time.Duration) {}),
		)

		var admitted []time.Time
		for i := 0; i < callCount; i++ {
			// Random gaps between call attempts, including bursts.
			gapMillis := rapid.IntRange(0, 90_000).Draw(t, fmt.Sprintf("gap%d", i))
			clock.Advance(time.Duration(gapMillis) * time.Millisecond)

			if err := l.WaitIfNeeded(context.Background()); err != nil {
				t.Fatalf("WaitIfNeeded returned error: %v", err)
			}
			admitted = append(admitted, clock.Now())
		}

		// Check every trailing window ending at an admitted call.
		for i, end := range admitted {
			inWindow := 0
			for j := 0; j <= i; j++ {
				if end.Sub(admitted[j]) < 60*time.Second {
					inWindow++
				}
			}
			if inWindow > maxCalls {
				t.Fatalf("window ending at call %d holds %d calls, ceiling is %d",
					i, inWindow, maxCalls)
			}
		}
	})
}
