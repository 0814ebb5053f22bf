package anim

import (
	"context"

	"github.com/pkg/errors"
	"libdb.so/treeglow/internal/geom"
)

// Hooks are optional callbacks invoked by a Sequence around each generator.
type Hooks struct {
	// Enter is called right before a generator starts.
	Enter func(name string)
	// Exit is called after a generator finished, with the number of frames it
	// transmitted.
	Exit func(name string, frames uint64)
}

// Sequence runs generators one after another. The strip buffer is kept as is
// between generators.
type Sequence struct {
	Generators []Generator
	Hooks      Hooks
}

// MainSequence returns the tree strip's program: Sparkle, Rows, then Twinkle.
func MainSequence(tree geom.Tree, hooks Hooks) *Sequence {
	return &Sequence{
		Generators: []Generator{
			NewSparkle(tree),
			NewRows(tree),
			NewTwinkle(tree),
		},
		Hooks: hooks,
	}
}

// Run runs the sequence over and over. It only returns on error.
func (q *Sequence) Run(ctx context.Context, s *Strip) error {
	for {
		if err := q.RunOnce(ctx, s); err != nil {
			return err
		}
	}
}

// RunOnce runs every generator of the sequence to completion once.
func (q *Sequence) RunOnce(ctx context.Context, s *Strip) error {
	if len(q.Generators) == 0 {
		return errors.New("sequence has no generators")
	}

	for _, g := range q.Generators {
		if q.Hooks.Enter != nil {
			q.Hooks.Enter(g.Name())
		}

		start := s.Frames()
		if err := g.Run(ctx, s); err != nil {
			return errors.Wrapf(err, "%s", g.Name())
		}

		if q.Hooks.Exit != nil {
			q.Hooks.Exit(g.Name(), s.Frames()-start)
		}
	}

	return nil
}
