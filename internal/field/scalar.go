package field

import (
	"fmt"

	"github.com/san-kum/emsim/internal/maxwell"
	"gonum.org/v1/gonum/floats"
)

// ScalarField is a dense n1 x n2 grid of reals indexed [q1][q2].
type ScalarField struct {
	n1, n2 int
	data   []float64
}

func NewScalarField(n1, n2 int) *ScalarField {
	return &ScalarField{n1: n1, n2: n2, data: make([]float64, n1*n2)}
}

// ScalarFieldFrom copies rows into a new field. All rows must share a length.
func ScalarFieldFrom(rows [][]float64) (*ScalarField, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty rows", maxwell.ErrInvalidShape)
	}
	f := NewScalarField(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != f.n2 {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", maxwell.ErrInvalidShape, i, len(row), f.n2)
		}
		copy(f.data[i*f.n2:], row)
	}
	return f, nil
}

func (f *ScalarField) Shape() (int, int)       { return f.n1, f.n2 }
func (f *ScalarField) At(i, j int) float64     { return f.data[i*f.n2+j] }
func (f *ScalarField) Set(i, j int, v float64) { f.data[i*f.n2+j] = v }

// Data exposes the row-major backing slice.
func (f *ScalarField) Data() []float64 { return f.data }

// Row returns a view of row i.
func (f *ScalarField) Row(i int) []float64 { return f.data[i*f.n2 : (i+1)*f.n2] }

// Column copies column j.
func (f *ScalarField) Column(j int) []float64 {
	out := make([]float64, f.n1)
	for i := range out {
		out[i] = f.At(i, j)
	}
	return out
}

func (f *ScalarField) Clone() *ScalarField {
	c := NewScalarField(f.n1, f.n2)
	copy(c.data, f.data)
	return c
}

// AtPosition reads the cell nearest to p on g.
func (f *ScalarField) AtPosition(g *Grid, p maxwell.Position) float64 {
	i, j := g.Nearest(p)
	return f.At(i, j)
}

func (f *ScalarField) SameShape(o *ScalarField) bool { return f.n1 == o.n1 && f.n2 == o.n2 }

func (f *ScalarField) Min() float64 { return floats.Min(f.data) }
func (f *ScalarField) Max() float64 { return floats.Max(f.data) }
func (f *ScalarField) Sum() float64 { return floats.Sum(f.data) }

func (f *ScalarField) Add(o *ScalarField) (*ScalarField, error) {
	if !f.SameShape(o) {
		return nil, shapeErr(f, o)
	}
	out := f.Clone()
	floats.Add(out.data, o.data)
	return out, nil
}

func (f *ScalarField) Sub(o *ScalarField) (*ScalarField, error) {
	if !f.SameShape(o) {
		return nil, shapeErr(f, o)
	}
	out := f.Clone()
	floats.Sub(out.data, o.data)
	return out, nil
}

// Mul multiplies elementwise.
func (f *ScalarField) Mul(o *ScalarField) (*ScalarField, error) {
	if !f.SameShape(o) {
		return nil, shapeErr(f, o)
	}
	out := f.Clone()
	floats.Mul(out.data, o.data)
	return out, nil
}

func (f *ScalarField) Scale(k float64) *ScalarField {
	out := f.Clone()
	floats.Scale(k, out.data)
	return out
}

func (f *ScalarField) Neg() *ScalarField { return f.Scale(-1) }

// Cell is a grid index with the value stored there.
type Cell struct {
	I, J  int
	Value float64
}

// NonZero lists the cells holding a non-zero value in row-major order.
func (f *ScalarField) NonZero() []Cell {
	var cells []Cell
	for i := 0; i < f.n1; i++ {
		for j := 0; j < f.n2; j++ {
			if v := f.At(i, j); v != 0 {
				cells = append(cells, Cell{I: i, J: j, Value: v})
			}
		}
	}
	return cells
}

// Gradient returns (∂f/∂q1, ∂f/∂q2) using second order central differences
// in the interior and first order one-sided differences on the borders.
func (f *ScalarField) Gradient(dq1, dq2 float64) *VectorField {
	g := NewVectorField(f.n1, f.n2, 2)
	for i := 0; i < f.n1; i++ {
		for j := 0; j < f.n2; j++ {
			g.data[g.index(i, j)] = derivative(f.n1, i, dq1, func(k int) float64 { return f.At(k, j) })
			g.data[g.index(i, j)+1] = derivative(f.n2, j, dq2, func(k int) float64 { return f.At(i, k) })
		}
	}
	return g
}

func derivative(n, k int, h float64, at func(int) float64) float64 {
	if n < 2 || h == 0 {
		return 0
	}
	switch k {
	case 0:
		return (at(1) - at(0)) / h
	case n - 1:
		return (at(n-1) - at(n-2)) / h
	default:
		return (at(k+1) - at(k-1)) / (2 * h)
	}
}

func shapeErr(a, b interface{ Shape() (int, int) }) error {
	a1, a2 := a.Shape()
	b1, b2 := b.Shape()
	return fmt.Errorf("%w: %dx%d vs %dx%d", maxwell.ErrShapeMismatch, a1, a2, b1, b2)
}
