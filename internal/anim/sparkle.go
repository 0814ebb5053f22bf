package anim

import (
	"context"
	"time"

	"libdb.so/treeglow/internal/geom"
	"libdb.so/treeglow/internal/led"
)

const (
	sparklePeriod = 50 * time.Millisecond
	sparkleTicks  = 500 // 25s at 50ms

	fullBrightness = 100
	dimBrightness  = 20
	brightenStep   = 5
	fadeStep       = 5

	// dimHoldMicros is how long an LED stays dimmed before it starts to
	// recover.
	dimHoldMicros = 200_000
)

// Sparkle fades each branch LED toward randomly chosen colors while LEDs
// randomly flicker dim and recover. The star stays lit.
type Sparkle struct {
	Tree geom.Tree
}

// NewSparkle creates a Sparkle animation for the given tree.
func NewSparkle(tree geom.Tree) *Sparkle {
	return &Sparkle{Tree: tree}
}

// Name implements Generator.
func (sp *Sparkle) Name() string { return "sparkle" }

// Run implements Generator.
func (sp *Sparkle) Run(ctx context.Context, s *Strip) error {
	if err := sp.Tree.Validate(len(s.LEDs)); err != nil {
		return err
	}

	ticker := s.Clock.NewTicker(sparklePeriod)
	defer ticker.Stop()

	s.LEDs.Set(sp.Tree.Star(), warmStar)
	state := newSparkleState(sp.Tree.Star())

	for n := 0; n < sparkleTicks; n++ {
		state.step(s.LEDs, s.Clock.NowMicros())
		if err := s.frame(ctx, ticker); err != nil {
			return err
		}
	}

	return nil
}

// sparkleState is the per-LED state of one Sparkle run. It covers the branch
// LEDs only.
type sparkleState struct {
	targets    []led.RGBColor
	brightness []uint8 // percent, in [dimBrightness, fullBrightness]
	dimStart   []uint64
}

func newSparkleState(n int) *sparkleState {
	st := &sparkleState{
		targets:    make([]led.RGBColor, n),
		brightness: make([]uint8, n),
		dimStart:   make([]uint64, n),
	}
	for i := range st.brightness {
		st.brightness[i] = fullBrightness
	}
	return st
}

// step advances every branch LED by one tick. The buffer holds the dimmed
// color, and the next fade starts from that dimmed value.
func (st *sparkleState) step(leds led.LEDs, now uint64) {
	for i := range st.targets {
		if hashClass(now, i, dimMul, 50) == 0 && st.brightness[i] == fullBrightness {
			st.brightness[i] = dimBrightness
			st.dimStart[i] = now
		}

		if st.brightness[i] < fullBrightness && now-st.dimStart[i] >= dimHoldMicros {
			st.brightness[i] += brightenStep
			if st.brightness[i] > fullBrightness {
				st.brightness[i] = fullBrightness
			}
		}

		if hashClass(now, i, primaryMul, 10) == 0 {
			st.targets[i] = sparklePalette[hashClass(now, i, paletteMul, 4)]
		}

		leds[i] = leds[i].
			StepToward(st.targets[i], fadeStep).
			Scale(st.brightness[i])
	}
}
