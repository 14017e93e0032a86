package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	// MaxArrows bounds the number of arrows drawn per axis by VectorPNG.
	MaxArrows    = 25
	paletteSize  = 64
	defaultWidth = 6 * vg.Inch
)

type options struct {
	width, height vg.Length
	mask          *field.ScalarField
	xLabel        string
	yLabel        string
}

// Option configures a PNG export.
type Option func(*options)

// WithSize sets the image size. The default is a 6 inch square.
func WithSize(width, height vg.Length) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// WithMask hides every cell where mask is non-zero, typically the
// conductor cells of the voltage field.
func WithMask(mask *field.ScalarField) Option {
	return func(o *options) { o.mask = mask }
}

// WithAxisLabels overrides the q1/q2 axis labels.
func WithAxisLabels(x, y string) Option {
	return func(o *options) { o.xLabel, o.yLabel = x, y }
}

func newOptions(opts []Option) *options {
	o := &options{width: defaultWidth, height: defaultWidth, xLabel: "q1", yLabel: "q2"}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// gridXYZ adapts a scalar field on its grid to plotter.GridXYZ. Columns run
// along q1 and rows along q2.
type gridXYZ struct {
	f    *field.ScalarField
	g    *field.Grid
	mask *field.ScalarField
}

func (g gridXYZ) Dims() (c, r int) { return g.f.Shape() }
func (g gridXYZ) X(c int) float64  { return g.g.Q1[c] }
func (g gridXYZ) Y(r int) float64  { return g.g.Q2[r] }

func (g gridXYZ) Z(c, r int) float64 {
	if g.mask != nil && g.mask.At(c, r) != 0 {
		return math.NaN()
	}
	return g.f.At(c, r)
}

// fieldXY adapts a strided vector field to plotter.FieldXY. Vectors are
// scaled so the longest arrow spans one stride cell.
type fieldXY struct {
	v      *field.VectorField
	g      *field.Grid
	stride [2]int
	scale  float64
}

func (f fieldXY) Dims() (c, r int) {
	n1, n2 := f.v.Shape()
	return (n1 + f.stride[0] - 1) / f.stride[0], (n2 + f.stride[1] - 1) / f.stride[1]
}

func (f fieldXY) X(c int) float64 { return f.g.Q1[c*f.stride[0]] }
func (f fieldXY) Y(r int) float64 { return f.g.Q2[r*f.stride[1]] }

func (f fieldXY) Vector(c, r int) plotter.XY {
	v := f.v.At(c*f.stride[0], r*f.stride[1])
	return plotter.XY{X: v[0] * f.scale, Y: v[1] * f.scale}
}

// ScalarPNG renders f as a heat map and writes it to path. The image format
// follows the file extension.
func ScalarPNG(path string, f *field.ScalarField, g *field.Grid, title string, opts ...Option) error {
	if err := checkShape(f, g); err != nil {
		return err
	}
	o := newOptions(opts)
	if o.mask != nil && !o.mask.SameShape(f) {
		return fmt.Errorf("mask: %w", maxwell.ErrShapeMismatch)
	}

	data := gridXYZ{f: f, g: g, mask: o.mask}
	lo, hi := finiteRange(data)

	h := plotter.NewHeatMap(data, palette.Heat(paletteSize, 1))
	h.Min, h.Max = lo, hi
	if h.Max <= h.Min {
		h.Max = h.Min + 1
	}
	h.NaN = color.Gray{Y: 96}

	p := newPlot(title, o)
	p.Add(h)
	return save(p, o, path)
}

// VectorPNG renders the q1/q2 components of v as arrows and writes the plot
// to path. At most MaxArrows arrows are drawn along each axis. A field that
// is zero everywhere produces an empty frame.
func VectorPNG(path string, v *field.VectorField, g *field.Grid, title string, opts ...Option) error {
	if err := checkShape(v, g); err != nil {
		return err
	}
	o := newOptions(opts)

	n1, n2 := v.Shape()
	stride := [2]int{strideFor(n1), strideFor(n2)}

	var longest float64
	for i := 0; i < n1; i += stride[0] {
		for j := 0; j < n2; j += stride[1] {
			a := v.At(i, j)
			if l := math.Hypot(a[0], a[1]); l > longest {
				longest = l
			}
		}
	}

	p := newPlot(title, o)
	if longest > 0 {
		dq1, dq2 := g.Delta()
		cell := math.Min(dq1*float64(stride[0]), dq2*float64(stride[1]))
		p.Add(plotter.NewField(fieldXY{v: v, g: g, stride: stride, scale: cell / longest}))
	}
	p.X.Min, p.X.Max = g.Min.Q1, g.Max.Q1
	p.Y.Min, p.Y.Max = g.Min.Q2, g.Max.Q2
	return save(p, o, path)
}

func newPlot(title string, o *options) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = o.xLabel
	p.Y.Label.Text = o.yLabel
	return p
}

func save(p *plot.Plot, o *options, path string) error {
	if err := p.Save(o.width, o.height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func checkShape(f interface{ Shape() (int, int) }, g *field.Grid) error {
	n1, n2 := f.Shape()
	g1, g2 := g.Shape()
	if n1 != g1 || n2 != g2 {
		return fmt.Errorf("field %dx%d on grid %dx%d: %w", n1, n2, g1, g2, maxwell.ErrShapeMismatch)
	}
	if n1 < 2 || n2 < 2 {
		return fmt.Errorf("plot needs at least 2x2 cells: %w", maxwell.ErrInvalidShape)
	}
	return nil
}

func strideFor(n int) int {
	if n <= MaxArrows {
		return 1
	}
	return (n + MaxArrows - 1) / MaxArrows
}

func finiteRange(g gridXYZ) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	c, r := g.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			z := g.Z(i, j)
			if math.IsNaN(z) || math.IsInf(z, 0) {
				continue
			}
			lo = math.Min(lo, z)
			hi = math.Max(hi, z)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
