package crawl

import (
	"context"
	"time"

	random "github.com/mazen160/go-random"
)

// waitRandom sleeps a random duration within [min, max] between cards.
// The jitter is deliberate throttling so the traversal does not look like a
// metronome; keep it even when tuning for speed.
func waitRandom(ctx context.Context, min, max time.Duration) error {
	if min < 0 {
		min = 0
	}
	if max <= min {
		return sleepCtx(ctx, min)
	}

	ms, err := random.IntRange(int(min/time.Millisecond), int(max/time.Millisecond)+1)
	if err != nil {
		ms = int(min / time.Millisecond)
	}
	return sleepCtx(ctx, time.Duration(ms)*time.Millisecond)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
