package anim

import (
	"context"

	"github.com/pkg/errors"
	"libdb.so/treeglow/internal/led"
)

// Sink transmits frames to a physical strip.
type Sink interface {
	// Transmit sends the whole buffer in index order and returns once the
	// transmission is complete. It is never called concurrently for the same
	// strip. The sink must not retain leds after returning.
	Transmit(ctx context.Context, leds led.LEDs) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, leds led.LEDs) error

// Transmit calls f.
func (f SinkFunc) Transmit(ctx context.Context, leds led.LEDs) error {
	return f(ctx, leds)
}

// Strip is the state owned by one strip's driver loop: the pixel buffer, the
// output device and the time source. A Strip must only be used by one
// goroutine.
type Strip struct {
	LEDs  led.LEDs
	Sink  Sink
	Clock Clock

	frames uint64
}

// NewStrip creates a strip of numLEDs LEDs, all off.
func NewStrip(numLEDs int, sink Sink, clock Clock) *Strip {
	return &Strip{
		LEDs:  led.NewLEDs(numLEDs),
		Sink:  sink,
		Clock: clock,
	}
}

// Frames returns the number of frames transmitted so far.
func (s *Strip) Frames() uint64 {
	return s.frames
}

// show transmits the current buffer.
func (s *Strip) show(ctx context.Context) error {
	if err := s.Sink.Transmit(ctx, s.LEDs); err != nil {
		return errors.Wrap(err, "failed to transmit frame")
	}
	s.frames++
	return nil
}

// frame transmits the current buffer and parks until the ticker fires.
func (s *Strip) frame(ctx context.Context, ticker Ticker) error {
	if err := s.show(ctx); err != nil {
		return err
	}
	return ticker.Next(ctx)
}
