package anim

import (
	"context"
	"sync"
	"time"

	"libdb.so/treeglow/internal/led"
)

// virtualClock only moves forward when one of its tickers fires, so that
// animations run as fast as the test allows and stay reproducible.
type virtualClock struct {
	mu      sync.Mutex
	now     uint64
	tickers []time.Duration
}

func newVirtualClock(start uint64) *virtualClock {
	return &virtualClock{now: start}
}

func (c *virtualClock) NowMicros() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now += uint64(d.Microseconds())
	c.mu.Unlock()
}

func (c *virtualClock) NewTicker(period time.Duration) Ticker {
	c.mu.Lock()
	c.tickers = append(c.tickers, period)
	c.mu.Unlock()
	return &virtualTicker{clock: c, period: period}
}

type virtualTicker struct {
	clock  *virtualClock
	period time.Duration
}

func (t *virtualTicker) Next(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.clock.advance(t.period)
	return nil
}

func (t *virtualTicker) Stop() {}

// recordingSink keeps a copy of every transmitted frame along with the time
// it was sent at.
type recordingSink struct {
	clock  Clock
	frames []led.LEDs
	times  []uint64
}

func (s *recordingSink) Transmit(ctx context.Context, leds led.LEDs) error {
	frame := led.NewLEDs(len(leds))
	copy(frame, leds)
	s.frames = append(s.frames, frame)
	if s.clock != nil {
		s.times = append(s.times, s.clock.NowMicros())
	}
	return nil
}
