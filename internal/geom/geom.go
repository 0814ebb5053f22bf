// Package geom describes how a linear LED strip is folded into the rows of a
// tree.
package geom

import "github.com/pkg/errors"

// Tree maps a strip onto rows, from the bottom of the tree to the top. The
// last row holds a single LED, the star.
type Tree struct {
	Rows []int
}

// Christmas is the 22 LED tree: five tiers of branches, a trunk-top row and
// the star.
var Christmas = Tree{Rows: []int{6, 5, 4, 3, 2, 1, 1}}

// NumLEDs returns the number of LEDs covered by all rows.
func (t Tree) NumLEDs() int {
	var n int
	for _, size := range t.Rows {
		n += size
	}
	return n
}

// NumRows returns the number of rows, including the star.
func (t Tree) NumRows() int {
	return len(t.Rows)
}

// RowStart returns the index of the first LED in row r.
func (t Tree) RowStart(r int) int {
	var start int
	for _, size := range t.Rows[:r] {
		start += size
	}
	return start
}

// RowRange returns the LED range [start, end) of row r.
func (t Tree) RowRange(r int) (start, end int) {
	start = t.RowStart(r)
	return start, start + t.Rows[r]
}

// Star returns the index of the star LED.
func (t Tree) Star() int {
	return t.NumLEDs() - 1
}

// Validate checks that the rows exactly cover a strip of numLEDs LEDs.
func (t Tree) Validate(numLEDs int) error {
	if len(t.Rows) == 0 {
		return errors.New("tree has no rows")
	}
	for r, size := range t.Rows {
		if size < 1 {
			return errors.Errorf("row %d has invalid size %d", r, size)
		}
	}
	if star := t.Rows[len(t.Rows)-1]; star != 1 {
		return errors.Errorf("star row must hold exactly 1 LED, got %d", star)
	}
	if n := t.NumLEDs(); n != numLEDs {
		return errors.Errorf("tree covers %d LEDs, strip has %d", n, numLEDs)
	}
	return nil
}
