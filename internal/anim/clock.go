package anim

import (
	"context"
	"time"
)

// Clock is the time source of the animations.
type Clock interface {
	// NowMicros returns a monotonic timestamp in microseconds since an
	// arbitrary epoch. It never goes backward.
	NowMicros() uint64
	// NewTicker creates a ticker that fires every period, starting one period
	// after creation.
	NewTicker(period time.Duration) Ticker
}

// Ticker fires at a fixed period.
type Ticker interface {
	// Next blocks until the next period boundary or until ctx is done.
	Next(ctx context.Context) error
	// Stop releases the ticker.
	Stop()
}

type systemClock struct {
	epoch time.Time
}

// SystemClock returns a Clock backed by the monotonic wall clock. Its epoch is
// the moment SystemClock is called.
func SystemClock() Clock {
	return systemClock{epoch: time.Now()}
}

func (c systemClock) NowMicros() uint64 {
	return uint64(time.Since(c.epoch).Microseconds())
}

func (c systemClock) NewTicker(period time.Duration) Ticker {
	return timeTicker{time.NewTicker(period)}
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
