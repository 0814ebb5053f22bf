package anim

import (
	"context"
	"time"

	"libdb.so/treeglow/internal/geom"
	"libdb.so/treeglow/internal/led"
)

const (
	rowsPeriod  = 300 * time.Millisecond
	rowsRepeats = 3
	starBlinks  = 3
)

// Rows lights the tree row by row from the bottom, then blinks the star.
type Rows struct {
	Tree geom.Tree
}

// NewRows creates a Rows animation for the given tree.
func NewRows(tree geom.Tree) *Rows {
	return &Rows{Tree: tree}
}

// Name implements Generator.
func (r *Rows) Name() string { return "rows" }

// Run implements Generator.
func (r *Rows) Run(ctx context.Context, s *Strip) error {
	if err := r.Tree.Validate(len(s.LEDs)); err != nil {
		return err
	}

	ticker := s.Clock.NewTicker(rowsPeriod)
	defer ticker.Stop()

	star := r.Tree.Star()

	for n := 0; n < rowsRepeats; n++ {
		s.LEDs.Clear()
		if err := s.frame(ctx, ticker); err != nil {
			return err
		}

		for row := 0; row < r.Tree.NumRows()-1; row++ {
			start, end := r.Tree.RowRange(row)
			s.LEDs.SetRange(start, end, treeGreen)
			if err := s.frame(ctx, ticker); err != nil {
				return err
			}
		}

		for i := 0; i < starBlinks; i++ {
			s.LEDs.Set(star, starColor)
			if err := s.frame(ctx, ticker); err != nil {
				return err
			}

			s.LEDs.Set(star, led.Off)
			if err := s.frame(ctx, ticker); err != nil {
				return err
			}
		}
	}

	return nil
}
