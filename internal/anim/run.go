package anim

import (
	"context"

	"github.com/pkg/errors"
	"libdb.so/treeglow/internal/geom"
)

// RunTree drives the tree strip through sink forever. It only returns on
// error, including when ctx is done.
func RunTree(ctx context.Context, sink Sink, clock Clock, hooks Hooks) error {
	strip := NewStrip(NumLEDs, sink, clock)
	return MainSequence(geom.Christmas, hooks).Run(ctx, strip)
}

// RunSky drives the sky strip through sink forever. It only returns on error,
// including when ctx is done.
func RunSky(ctx context.Context, sink Sink, clock Clock) error {
	strip := NewStrip(NumLEDs, sink, clock)
	err := NewStarfield().Run(ctx, strip)
	return errors.Wrap(err, "starfield")
}
