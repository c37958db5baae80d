// Package pacing inserts randomized courtesy pauses between requests.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// Pacer pauses between network-causing steps.
type Pacer interface {
	Pause(ctx context.Context)
}

// Random sleeps for a duration drawn uniformly from [Min, Max].
type Random struct {
	Min time.Duration
	Max time.Duration

	// sleep and draw are replaced in tests.
	sleep func(ctx context.Context, d time.Duration)
	draw  func(n int64) int64
}

// NewRandom creates a Random pacer. Max below Min is treated as Min.
func NewRandom(minDelay, maxDelay time.Duration) *Random {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Random{Min: minDelay, Max: maxDelay, sleep: sleepContext, draw: rand.Int63n}
}

// Pause returns early if ctx is cancelled.
func (r *Random) Pause(ctx context.Context) {
	r.sleep(ctx, r.Next())
}

// Next returns the next pause duration.
func (r *Random) Next() time.Duration {
	span := int64(r.Max - r.Min)
	if span <= 0 {
		return r.Min
	}
	return r.Min + time.Duration(r.draw(span+1))
}

// None never pauses.
type None struct{}

func (None) Pause(context.Context) {}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
