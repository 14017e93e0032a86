package laplace

import (
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
	"gonum.org/v1/gonum/floats"
)

// DefaultIterations is the number of relaxation sweeps run by New.
const DefaultIterations = 1000

// minRowsPerWorker keeps tiny grids on a single goroutine.
const minRowsPerWorker = 8

// Solver relaxes the Laplace equation around fixed conductor potentials.
type Solver struct {
	Iterations int
	// Workers bounds the row-parallel fan-out; <= 0 uses maxwell.DefaultWorkers.
	Workers int
}

func New() *Solver {
	return &Solver{Iterations: DefaultIterations}
}

// Solve returns the potential everywhere on the grid. Every non-zero cell of
// voltage is a fixed boundary value; space outside the grid is held at 0.
// The input field is not modified.
func (s *Solver) Solve(voltage *field.ScalarField, cs maxwell.CoordinateSystem, dq1, dq2 float64) (*field.ScalarField, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	if s.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations %d", maxwell.ErrInvalidParameter, s.Iterations)
	}
	if !positive(dq1) || !positive(dq2) {
		return nil, fmt.Errorf("%w: spacing (%g, %g)", maxwell.ErrInvalidParameter, dq1, dq2)
	}

	var sweep func(cur, next *field.ScalarField, start, end int)
	switch cs {
	case maxwell.Cartesian:
		sweep = cartesianSweep(dq1, dq2)
	case maxwell.Polar:
		sweep = polarSweep(dq1, dq2)
	}

	pinned := voltage.NonZero()
	n1, _ := voltage.Shape()
	cur := voltage.Clone()
	next := field.NewScalarField(voltage.Shape())

	for it := 0; it < s.Iterations; it++ {
		maxwell.ParallelFor(n1, minRowsPerWorker, s.Workers, func(start, end int) {
			sweep(cur, next, start, end)
		})
		if cs == maxwell.Polar {
			centerRow(cur, next)
		}
		for _, c := range pinned {
			next.Set(c.I, c.J, c.Value)
		}
		cur, next = next, cur
	}
	return cur, nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

// at reads a cell, treating everything outside the grid as 0.
func at(f *field.ScalarField, i, j int) float64 {
	n1, n2 := f.Shape()
	if i < 0 || j < 0 || i >= n1 || j >= n2 {
		return 0
	}
	return f.At(i, j)
}

func cartesianSweep(dq1, dq2 float64) func(cur, next *field.ScalarField, start, end int) {
	w1, w2 := 1/(dq1*dq1), 1/(dq2*dq2)
	scale := 0.5 / (w1 + w2)
	return func(cur, next *field.ScalarField, start, end int) {
		_, n2 := cur.Shape()
		for i := start; i < end; i++ {
			for j := 0; j < n2; j++ {
				left, right := at(cur, i-1, j), at(cur, i+1, j)
				down, up := at(cur, i, j-1), at(cur, i, j+1)
				next.Set(i, j, scale*((left+right)*w1+(up+down)*w2))
			}
		}
	}
}

// polarSweep updates rows with r = i·dr > 0. The r = 0 row is handled by
// centerRow.
func polarSweep(dr, dtheta float64) func(cur, next *field.ScalarField, start, end int) {
	return func(cur, next *field.ScalarField, start, end int) {
		_, n2 := cur.Shape()
		for i := max(start, 1); i < end; i++ {
			r := float64(i) * dr
			wr := 1 / (dr * dr)
			wt := 1 / (r * r * dtheta * dtheta)
			drift := 1 / (2 * r * dr)
			den := 2*wr + 2*wt
			for j := 0; j < n2; j++ {
				outer, inner := at(cur, i+1, j), at(cur, i-1, j)
				ahead, behind := at(cur, i, j+1), at(cur, i, j-1)
				num := (outer+inner)*wr + (outer-inner)*drift + (ahead+behind)*wt
				next.Set(i, j, num/den)
			}
		}
	}
}

// centerRow sets the r = 0 row to the mean of the r = dr row.
func centerRow(cur, next *field.ScalarField) {
	n1, n2 := cur.Shape()
	var mean float64
	if n1 > 1 {
		mean = floats.Sum(cur.Row(1)) / float64(n2)
	}
	row := next.Row(0)
	for j := range row {
		row[j] = mean
	}
}
