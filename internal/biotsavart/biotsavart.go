// Package biotsavart computes the magnetic field of an in-plane current
// density by direct Biot–Savart summation.
package biotsavart

import (
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
)

// Mu0Over4Pi is μ0/4π in T·m/A.
const Mu0Over4Pi = 1e-7

const minRowsPerWorker = 4

// Solver sums the contribution of every current carrying cell to every
// cell of the grid. Cost is O(cells × sources).
type Solver struct {
	// Workers bounds the row-parallel fan-out; <= 0 uses maxwell.DefaultWorkers.
	Workers int
}

func New() *Solver { return &Solver{} }

type source struct {
	x, y     float64
	dlx, dly float64
}

// Solve returns B as a three component field. In-plane currents only
// produce a z component, so Bx and By are always 0. Polar grids are not
// supported and return ErrNotImplemented.
func (s *Solver) Solve(current *field.VectorField, cs maxwell.CoordinateSystem, dq1, dq2 float64) (*field.VectorField, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	if cs == maxwell.Polar {
		return nil, fmt.Errorf("%w: biot-savart on polar grids", maxwell.ErrNotImplemented)
	}
	if dq1 <= 0 || dq2 <= 0 || math.IsInf(dq1, 0) || math.IsInf(dq2, 0) {
		return nil, fmt.Errorf("%w: spacing (%g, %g)", maxwell.ErrInvalidParameter, dq1, dq2)
	}

	n1, n2 := current.Shape()
	var sources []source
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			v := current.At(i, j)
			if v[0] == 0 && v[1] == 0 {
				continue
			}
			sources = append(sources, source{
				x: float64(i) * dq1, y: float64(j) * dq2,
				dlx: v[0] * dq1, dly: v[1] * dq2,
			})
		}
	}

	b := field.NewVectorField(n1, n2, 3)
	if len(sources) == 0 {
		return b, nil
	}

	maxwell.ParallelFor(n1, minRowsPerWorker, s.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			x := float64(i) * dq1
			for j := 0; j < n2; j++ {
				y := float64(j) * dq2
				var bz float64
				for _, src := range sources {
					rx, ry := x-src.x, y-src.y
					d2 := rx*rx + ry*ry
					if d2 == 0 {
						continue
					}
					bz += (src.dlx*ry - src.dly*rx) / (d2 * math.Sqrt(d2))
				}
				b.Set(i, j, 0, 0, Mu0Over4Pi*bz)
			}
		}
	})
	return b, nil
}
