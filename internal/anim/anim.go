// Package anim implements the tree and sky animations and the loops that
// drive them.
//
// Every animation is a Generator: it borrows a Strip, computes frames into its
// buffer, transmits each one and waits for the next tick of its own ticker.
// Finite generators return nil once they are done. Nothing in this package
// logs; callers observe progress through Hooks.
package anim

import (
	"context"

	"libdb.so/treeglow/internal/led"
)

// Generator produces successive frames for a strip.
type Generator interface {
	// Name returns a short identifier of the animation.
	Name() string
	// Run draws frames into s until the animation is over. It returns an
	// error only if the sink fails or ctx is done.
	Run(ctx context.Context, s *Strip) error
}

// NumLEDs is the length of both strips.
const NumLEDs = 22

var (
	treeGreen = led.DimRGB(0, 255, 0)
	starColor = led.DimRGB(255, 255, 0)
	warmStar  = led.DimRGB(255, 220, 0)
	skyWhite  = led.DimRGB(255, 255, 255)
)

// sparklePalette is indexed by hashClass(now, i, paletteMul, 4).
var sparklePalette = [4]led.RGBColor{
	led.DimRGB(255, 0, 0),
	led.DimRGB(0, 255, 0),
	led.DimRGB(0, 0, 255),
	led.DimRGB(255, 255, 255),
}
