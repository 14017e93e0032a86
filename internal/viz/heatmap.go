package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/emsim/internal/field"
)

const (
	heatBlock  = "█"
	probeBlock = "◆"
	legendSize = 24
)

// HeatmapOptions controls Heatmap rendering.
type HeatmapOptions struct {
	Theme *Theme
	// Probe marks the cell nearest to (I, J) when Show is set.
	Probe struct {
		I, J int
		Show bool
	}
	Legend bool
}

// Heatmap renders f as a block map of at most width x height characters with
// q1 running left to right and q2 bottom to top. Cells are sampled by
// nearest neighbour, so larger sizes than the field are clamped.
func Heatmap(f *field.ScalarField, width, height int) string {
	return HeatmapWith(f, width, height, HeatmapOptions{Legend: true})
}

// HeatmapWith is Heatmap with explicit options.
func HeatmapWith(f *field.ScalarField, width, height int, opts HeatmapOptions) string {
	n1, n2 := f.Shape()
	if width > n1 {
		width = n1
	}
	if height > n2 {
		height = n2
	}
	if width < 1 || height < 1 {
		return ""
	}

	lo, hi := finiteRange(f)
	theme := AutoTheme(lo, hi)
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	probeCol, probeRow := -1, -1
	if opts.Probe.Show {
		probeCol = opts.Probe.I * width / n1
		probeRow = height - 1 - opts.Probe.J*height/n2
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		j := sampleIndex(height-1-row, height, n2)
		for col := 0; col < width; col++ {
			if row == probeRow && col == probeCol {
				b.WriteString(NeonGlow.Render(probeBlock))
				continue
			}
			i := sampleIndex(col, width, n1)
			style := lipgloss.NewStyle().Foreground(theme.Color(theme.Normalize(f.At(i, j), lo, hi)))
			b.WriteString(style.Render(heatBlock))
		}
		b.WriteByte('\n')
	}
	if opts.Legend {
		b.WriteString(Legend(theme, lo, hi))
		b.WriteByte('\n')
	}
	return b.String()
}

// Legend renders a colour bar with the value range.
func Legend(theme Theme, lo, hi float64) string {
	var b strings.Builder
	b.WriteString(MetricValue.Render(fmt.Sprintf("%.3g ", lo)))
	for k := 0; k < legendSize; k++ {
		t := float64(k) / float64(legendSize-1)
		v := lo + t*(hi-lo)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Color(theme.Normalize(v, lo, hi))).Render(heatBlock))
	}
	b.WriteString(MetricValue.Render(fmt.Sprintf(" %.3g", hi)))
	return b.String()
}

// sampleIndex maps output cell k of n onto [0, size) picking cell centres.
func sampleIndex(k, n, size int) int {
	i := int((float64(k) + 0.5) * float64(size) / float64(n))
	if i >= size {
		i = size - 1
	}
	return i
}

func finiteRange(f *field.ScalarField) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.Data() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
