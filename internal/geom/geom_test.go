package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChristmas(t *testing.T) {
	tree := Christmas

	assert.NoError(t, tree.Validate(22))
	assert.Equal(t, 22, tree.NumLEDs())
	assert.Equal(t, 7, tree.NumRows())
	assert.Equal(t, 21, tree.Star())

	assert.Equal(t, 0, tree.RowStart(0))
	assert.Equal(t, 11, tree.RowStart(2))

	var sum int
	for r := 0; r < tree.NumRows(); r++ {
		assert.Equal(t, sum, tree.RowStart(r), "row %d", r)
		start, end := tree.RowRange(r)
		assert.Equal(t, sum, start)
		assert.Equal(t, tree.Rows[r], end-start)
		sum += tree.Rows[r]
	}
	assert.Equal(t, tree.NumLEDs(), sum)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tree    Tree
		numLEDs int
		wantErr string
	}{
		{"empty", Tree{}, 0, "tree has no rows"},
		{"zero row", Tree{Rows: []int{3, 0, 1}}, 4, "row 1 has invalid size 0"},
		{"big star", Tree{Rows: []int{3, 2}}, 5, "star row must hold exactly 1 LED, got 2"},
		{"mismatch", Tree{Rows: []int{3, 1}}, 5, "tree covers 4 LEDs, strip has 5"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.EqualError(t, test.tree.Validate(test.numLEDs), test.wantErr)
		})
	}
}
