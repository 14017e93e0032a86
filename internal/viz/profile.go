package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
)

const (
	profileHeight = 12
	profileWidth  = 80
)

// Profile plots row i of f (the values along q2 at fixed q1 index i).
func Profile(f *field.ScalarField, row int, caption string) (string, error) {
	n1, _ := f.Shape()
	if row < 0 || row >= n1 {
		return "", fmt.Errorf("row %d outside [0, %d): %w", row, n1, maxwell.ErrInvalidParameter)
	}
	return plotSeries(f.Row(row), caption), nil
}

// ColumnProfile plots column j of f (the values along q1 at fixed q2 index j).
func ColumnProfile(f *field.ScalarField, column int, caption string) (string, error) {
	_, n2 := f.Shape()
	if column < 0 || column >= n2 {
		return "", fmt.Errorf("column %d outside [0, %d): %w", column, n2, maxwell.ErrInvalidParameter)
	}
	return plotSeries(f.Column(column), caption), nil
}

func plotSeries(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(profileHeight),
		asciigraph.Width(profileWidth),
		asciigraph.Caption(caption),
	)
}
