package field

import (
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/maxwell"
	"gonum.org/v1/gonum/floats"
)

// VectorField is a dense n1 x n2 grid of dim-component vectors, dim being 2
// or 3. Components are stored interleaved per cell.
type VectorField struct {
	n1, n2, dim int
	data        []float64
}

func NewVectorField(n1, n2, dim int) *VectorField {
	return &VectorField{n1: n1, n2: n2, dim: dim, data: make([]float64, n1*n2*dim)}
}

// VectorFieldFrom stacks scalar fields as the components of a vector field.
func VectorFieldFrom(components ...*ScalarField) (*VectorField, error) {
	if len(components) < 2 || len(components) > 3 {
		return nil, fmt.Errorf("%w: %d components", maxwell.ErrInvalidShape, len(components))
	}
	n1, n2 := components[0].Shape()
	v := NewVectorField(n1, n2, len(components))
	for k, c := range components {
		if !c.SameShape(components[0]) {
			return nil, shapeErr(components[0], c)
		}
		for idx, val := range c.data {
			v.data[idx*v.dim+k] = val
		}
	}
	return v, nil
}

func (v *VectorField) index(i, j int) int { return (i*v.n2 + j) * v.dim }

func (v *VectorField) Shape() (int, int) { return v.n1, v.n2 }
func (v *VectorField) Dim() int          { return v.dim }

// At copies the vector stored at (i, j).
func (v *VectorField) At(i, j int) []float64 {
	out := make([]float64, v.dim)
	copy(out, v.data[v.index(i, j):])
	return out
}

// Set writes the leading components of cell (i, j); missing ones are zeroed.
func (v *VectorField) Set(i, j int, values ...float64) {
	cell := v.data[v.index(i, j) : v.index(i, j)+v.dim]
	for k := range cell {
		cell[k] = 0
		if k < len(values) {
			cell[k] = values[k]
		}
	}
}

// Component copies axis k into a scalar field. Axes beyond Dim read as zero.
func (v *VectorField) Component(k int) *ScalarField {
	s := NewScalarField(v.n1, v.n2)
	if k >= v.dim {
		return s
	}
	for idx := range s.data {
		s.data[idx] = v.data[idx*v.dim+k]
	}
	return s
}

func (v *VectorField) X() *ScalarField { return v.Component(0) }
func (v *VectorField) Y() *ScalarField { return v.Component(1) }
func (v *VectorField) Z() *ScalarField { return v.Component(2) }

// Magnitude returns the Euclidean norm of every cell.
func (v *VectorField) Magnitude() *ScalarField {
	s := NewScalarField(v.n1, v.n2)
	for idx := range s.data {
		s.data[idx] = floats.Norm(v.data[idx*v.dim:(idx+1)*v.dim], 2)
	}
	return s
}

func (v *VectorField) Clone() *VectorField {
	c := NewVectorField(v.n1, v.n2, v.dim)
	copy(c.data, v.data)
	return c
}

// Pad returns a copy with dim components, zero-filling new axes. Padding to
// fewer components truncates.
func (v *VectorField) Pad(dim int) *VectorField {
	out := NewVectorField(v.n1, v.n2, dim)
	n := min(dim, v.dim)
	for idx := 0; idx < v.n1*v.n2; idx++ {
		copy(out.data[idx*dim:idx*dim+n], v.data[idx*v.dim:idx*v.dim+n])
	}
	return out
}

func (v *VectorField) sameLayout(o *VectorField) bool {
	return v.n1 == o.n1 && v.n2 == o.n2 && v.dim == o.dim
}

func (v *VectorField) layoutErr(o *VectorField) error {
	return fmt.Errorf("%w: %dx%dx%d vs %dx%dx%d", maxwell.ErrShapeMismatch,
		v.n1, v.n2, v.dim, o.n1, o.n2, o.dim)
}

func (v *VectorField) Add(o *VectorField) (*VectorField, error) {
	if !v.sameLayout(o) {
		return nil, v.layoutErr(o)
	}
	out := v.Clone()
	floats.Add(out.data, o.data)
	return out, nil
}

func (v *VectorField) Sub(o *VectorField) (*VectorField, error) {
	if !v.sameLayout(o) {
		return nil, v.layoutErr(o)
	}
	out := v.Clone()
	floats.Sub(out.data, o.data)
	return out, nil
}

func (v *VectorField) Scale(k float64) *VectorField {
	out := v.Clone()
	floats.Scale(k, out.data)
	return out
}

func (v *VectorField) Neg() *VectorField { return v.Scale(-1) }

// Cross returns the cellwise cross product v × o. Two-component operands are
// treated as lying in the plane (z = 0); the result always has 3 components.
func (v *VectorField) Cross(o *VectorField) (*VectorField, error) {
	if v.n1 != o.n1 || v.n2 != o.n2 {
		return nil, v.layoutErr(o)
	}
	a, b := v.Pad(3), o.Pad(3)
	out := NewVectorField(v.n1, v.n2, 3)
	for idx := 0; idx < v.n1*v.n2; idx++ {
		p, q, r := a.data[idx*3:idx*3+3], b.data[idx*3:idx*3+3], out.data[idx*3:idx*3+3]
		r[0] = p[1]*q[2] - p[2]*q[1]
		r[1] = p[2]*q[0] - p[0]*q[2]
		r[2] = p[0]*q[1] - p[1]*q[0]
	}
	return out, nil
}

// HasNaN reports whether any component is NaN.
func (v *VectorField) HasNaN() bool {
	for _, x := range v.data {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
