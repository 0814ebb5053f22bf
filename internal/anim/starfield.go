package anim

import (
	"context"
	"time"

	"libdb.so/treeglow/internal/led"
)

const starfieldPeriod = 100 * time.Millisecond

// Starfield makes every LED of the sky strip twinkle white. It never finishes.
type Starfield struct{}

// NewStarfield creates a Starfield animation.
func NewStarfield() *Starfield {
	return &Starfield{}
}

// Name implements Generator.
func (f *Starfield) Name() string { return "starfield" }

// Run implements Generator. It only returns on error.
func (f *Starfield) Run(ctx context.Context, s *Strip) error {
	ticker := s.Clock.NewTicker(starfieldPeriod)
	defer ticker.Stop()

	for {
		f.draw(s.LEDs, s.Clock.NowMicros())
		if err := s.frame(ctx, ticker); err != nil {
			return err
		}
	}
}

func (f *Starfield) draw(leds led.LEDs, now uint64) {
	for i := range leds {
		if hashClass(now, i, primaryMul, 5) == 0 {
			leds[i] = skyWhite
		} else {
			leds[i] = led.Off
		}
	}
}
