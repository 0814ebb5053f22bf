package anim

import (
	"context"
	"time"

	"libdb.so/treeglow/internal/geom"
	"libdb.so/treeglow/internal/led"
)

const (
	twinklePeriod = 100 * time.Millisecond
	twinkleTicks  = 50
)

// Twinkle randomly lights branches green while the star blinks on its own.
type Twinkle struct {
	Tree geom.Tree
}

// NewTwinkle creates a Twinkle animation for the given tree.
func NewTwinkle(tree geom.Tree) *Twinkle {
	return &Twinkle{Tree: tree}
}

// Name implements Generator.
func (t *Twinkle) Name() string { return "twinkle" }

// Run implements Generator.
func (t *Twinkle) Run(ctx context.Context, s *Strip) error {
	if err := t.Tree.Validate(len(s.LEDs)); err != nil {
		return err
	}

	ticker := s.Clock.NewTicker(twinklePeriod)
	defer ticker.Stop()

	for n := 0; n < twinkleTicks; n++ {
		t.draw(s.LEDs, s.Clock.NowMicros())
		if err := s.frame(ctx, ticker); err != nil {
			return err
		}
	}

	return nil
}

func (t *Twinkle) draw(leds led.LEDs, now uint64) {
	star := t.Tree.Star()

	for i := 0; i < star; i++ {
		if hashClass(now, i, primaryMul, 5) == 0 {
			leds[i] = treeGreen
		} else {
			leds[i] = led.Off
		}
	}

	if now%3 == 0 {
		leds[star] = starColor
	} else {
		leds[star] = led.Off
	}
}
