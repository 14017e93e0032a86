package field

import (
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/maxwell"
	"golang.org/x/exp/constraints"
)

// Grid holds the linearly spaced axis coordinates of a world.
type Grid struct {
	Q1, Q2   []float64
	Min, Max maxwell.Position
}

// NewGrid spans [min, max] with n1 x n2 sample points.
func NewGrid(n1, n2 int, min, max maxwell.Position) (*Grid, error) {
	if n1 < 1 || n2 < 1 {
		return nil, fmt.Errorf("%w: %dx%d", maxwell.ErrInvalidShape, n1, n2)
	}
	return &Grid{
		Q1:  Linspace(min.Q1, max.Q1, n1),
		Q2:  Linspace(min.Q2, max.Q2, n2),
		Min: min,
		Max: max,
	}, nil
}

// Linspace returns n evenly spaced values over [lo, hi], endpoints included.
func Linspace[T constraints.Float](lo, hi T, n int) []T {
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / T(n-1)
	for i := range out {
		out[i] = lo + T(i)*step
	}
	out[n-1] = hi
	return out
}

// argNearest returns the index of the axis value closest to v. Ties resolve
// to the lowest index.
func argNearest[T constraints.Float](axis []T, v T) int {
	best, bestDist := 0, T(math.Inf(1))
	for i, a := range axis {
		d := a - v
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (g *Grid) Shape() (int, int) { return len(g.Q1), len(g.Q2) }

// Delta returns the axis spacings. Single-sample axes report 0.
func (g *Grid) Delta() (dq1, dq2 float64) {
	if n := len(g.Q1); n > 1 {
		dq1 = (g.Max.Q1 - g.Min.Q1) / float64(n-1)
	}
	if n := len(g.Q2); n > 1 {
		dq2 = (g.Max.Q2 - g.Min.Q2) / float64(n-1)
	}
	return dq1, dq2
}

// Nearest maps a position to the closest grid cell.
func (g *Grid) Nearest(p maxwell.Position) (i, j int) {
	return argNearest(g.Q1, p.Q1), argNearest(g.Q2, p.Q2)
}

// Coordinate returns the position of cell (i, j).
func (g *Grid) Coordinate(i, j int) maxwell.Position {
	return maxwell.Position{Q1: g.Q1[i], Q2: g.Q2[j]}
}

// Contains reports whether p lies inside the grid extents.
func (g *Grid) Contains(p maxwell.Position) bool {
	return p.Q1 >= g.Min.Q1 && p.Q1 <= g.Max.Q1 && p.Q2 >= g.Min.Q2 && p.Q2 <= g.Max.Q2
}
