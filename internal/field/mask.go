package field

import (
	"fmt"

	"github.com/san-kum/emsim/internal/maxwell"
)

// MaskedMean averages fields cellwise, ignoring zero entries. Cells that are
// zero in every input stay zero.
func MaskedMean(fields ...*ScalarField) (*ScalarField, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to merge", maxwell.ErrInvalidShape)
	}
	for _, f := range fields[1:] {
		if !f.SameShape(fields[0]) {
			return nil, shapeErr(fields[0], f)
		}
	}
	out := NewScalarField(fields[0].Shape())
	maskedMean(out.data, len(out.data), func(k int) []float64 { return fields[k].data }, len(fields))
	return out, nil
}

// MaskedMeanVector applies MaskedMean independently to every vector component.
func MaskedMeanVector(fields ...*VectorField) (*VectorField, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to merge", maxwell.ErrInvalidShape)
	}
	for _, f := range fields[1:] {
		if !f.sameLayout(fields[0]) {
			return nil, fields[0].layoutErr(f)
		}
	}
	n1, n2 := fields[0].Shape()
	out := NewVectorField(n1, n2, fields[0].dim)
	maskedMean(out.data, len(out.data), func(k int) []float64 { return fields[k].data }, len(fields))
	return out, nil
}

func maskedMean(dst []float64, n int, src func(int) []float64, count int) {
	for idx := 0; idx < n; idx++ {
		var sum float64
		var hits int
		for k := 0; k < count; k++ {
			if x := src(k)[idx]; x != 0 {
				sum += x
				hits++
			}
		}
		if hits > 0 {
			dst[idx] = sum / float64(hits)
		}
	}
}
