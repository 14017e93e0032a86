package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/emsim/internal/component"
	"github.com/san-kum/emsim/internal/viz"
)

// Stroke colours per component kind.
var kindColors = map[component.Kind]string{
	component.Wire:          "#00ccff",
	component.VoltageSource: "#ff4444",
	component.CurrentSource: "#ffcc00",
}

// CanvasSVG converts a Braille canvas to SVG format
func CanvasSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CircuitSVG draws component paths as polylines coloured by kind, fitted to
// a width x height viewport with 10% padding. Each path carries its label
// as a title element.
func CircuitSVG(paths []viz.Polyline, width, height int) string {
	if len(paths) == 0 {
		return ""
	}

	first := paths[0].Points[0]
	minX, maxX, minY, maxY := first.X, first.X, first.Y, first.Y
	for _, line := range paths {
		for _, p := range line.Points {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxY += rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, line := range paths {
		color, ok := kindColors[line.Kind]
		if !ok {
			color = "#ffffff"
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		for i, p := range line.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := (maxY - p.Y) / rangeY * float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		fmt.Fprintf(&sb, "\"><title>%s</title></path>\n", html.EscapeString(line.Label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
