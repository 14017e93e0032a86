package viz

import (
	"math"

	"github.com/san-kum/emsim/internal/circuit"
	"github.com/san-kum/emsim/internal/component"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
)

// boundarySamples is the number of points per grid edge used to find the
// cartesian bounding box of a grid.
const boundarySamples = 64

type Point struct{ X, Y float64 }

// Polyline is one component path sampled in cartesian coordinates.
type Polyline struct {
	Kind   component.Kind
	Label  string
	Points []Point
}

// Bounds is an axis aligned box in cartesian coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// ComponentPaths samples every component path at the circuit increment,
// from start to stop, and maps the samples to cartesian coordinates.
func ComponentPaths(c *circuit.Circuit, cs maxwell.CoordinateSystem) []Polyline {
	inc := c.Increment()
	comps := c.Components()
	out := make([]Polyline, 0, len(comps))
	for _, comp := range comps {
		span := comp.Span()
		norm := span.Norm()
		line := Polyline{Kind: comp.Kind(), Label: comp.Label()}
		if norm > 0 {
			unit := span.Scale(1 / norm)
			samples := int(norm/inc) + 1
			line.Points = make([]Point, 0, samples+1)
			for k := 0; k < samples; k++ {
				p := comp.Start().Add(comp.Evaluate(unit.Scale(float64(k) * inc)))
				line.Points = append(line.Points, cartesian(cs, p))
			}
		}
		line.Points = append(line.Points, cartesian(cs, comp.Stop()))
		out = append(out, line)
	}
	return out
}

// GridBounds returns the cartesian bounding box of the grid's boundary.
func GridBounds(g *field.Grid, cs maxwell.CoordinateSystem) Bounds {
	b := Bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	add := func(q1, q2 float64) {
		x, y := maxwell.ToCartesian(cs, maxwell.Position{Q1: q1, Q2: q2})
		b.MinX, b.MaxX = math.Min(b.MinX, x), math.Max(b.MaxX, x)
		b.MinY, b.MaxY = math.Min(b.MinY, y), math.Max(b.MaxY, y)
	}
	for k := 0; k <= boundarySamples; k++ {
		t := float64(k) / boundarySamples
		q1 := g.Min.Q1 + t*(g.Max.Q1-g.Min.Q1)
		q2 := g.Min.Q2 + t*(g.Max.Q2-g.Min.Q2)
		add(q1, g.Min.Q2)
		add(q1, g.Max.Q2)
		add(g.Min.Q1, q2)
		add(g.Max.Q1, q2)
	}
	return b
}

// CircuitCanvas draws the component paths of c onto a w x h character
// Braille canvas spanning the grid. The q2 (or y) axis points up.
func CircuitCanvas(c *circuit.Circuit, g *field.Grid, cs maxwell.CoordinateSystem, w, h int) *Canvas {
	canvas := NewCanvas(w, h)
	b := GridBounds(g, cs)
	spanX, spanY := b.MaxX-b.MinX, b.MaxY-b.MinY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	px := float64(2*w - 1)
	py := float64(4*h - 1)
	toPixel := func(p Point) (int, int) {
		x := (p.X - b.MinX) / spanX * px
		y := (b.MaxY - p.Y) / spanY * py
		return int(math.Round(x)), int(math.Round(y))
	}

	for _, line := range ComponentPaths(c, cs) {
		x0, y0 := toPixel(line.Points[0])
		canvas.Set(x0, y0)
		for _, p := range line.Points[1:] {
			x1, y1 := toPixel(p)
			canvas.DrawLine(x0, y0, x1, y1)
			x0, y0 = x1, y1
		}
	}
	return canvas
}

func cartesian(cs maxwell.CoordinateSystem, p maxwell.Position) Point {
	x, y := maxwell.ToCartesian(cs, p)
	return Point{x, y}
}
