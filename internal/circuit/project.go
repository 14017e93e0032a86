package circuit

import (
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
)

const directionEpsilon = 1e-16

// Project rasterizes the solved circuit onto g. Each component is sampled
// every Increment along its start to stop axis and mapped through its path.
// Visited cells carry the component current along the local path direction
// and a potential interpolated between its end nodes. Overlapping components
// are merged by a mean that ignores zero cells.
func Project(sol *Solution, g *field.Grid) (*field.ScalarField, *field.VectorField, error) {
	c := sol.circuit
	voltages := make([]*field.ScalarField, 0, len(c.edges))
	currents := make([]*field.VectorField, 0, len(c.edges))
	for idx := range c.edges {
		v, i := projectEdge(sol, g, idx)
		voltages = append(voltages, v)
		currents = append(currents, i)
	}

	voltage, err := field.MaskedMean(voltages...)
	if err != nil {
		return nil, nil, err
	}
	current, err := field.MaskedMeanVector(currents...)
	if err != nil {
		return nil, nil, err
	}
	return voltage, current, nil
}

type cell struct{ i, j int }

func projectEdge(sol *Solution, g *field.Grid, edge int) (*field.ScalarField, *field.VectorField) {
	c := sol.circuit
	comp := c.Component(edge)
	e := c.edges[edge]
	n1, n2 := g.Shape()
	voltage := field.NewScalarField(n1, n2)
	current := field.NewVectorField(n1, n2, 2)

	axis := comp.Span()
	norm := axis.Norm()
	unit := axis.Scale(1 / (norm + directionEpsilon))
	samples := int(norm/c.increment) + 1
	amps := sol.currents[edge]

	var (
		visited []cell
		seen    = make(map[cell]bool)
		prev    maxwell.Vec2
	)
	for k := 0; k < samples; k++ {
		point := comp.Evaluate(unit.Scale(float64(k) * c.increment))
		dir := point.Sub(prev)
		dir = dir.Scale(1 / (dir.Norm() + directionEpsilon))
		prev = point

		i, j := g.Nearest(comp.Start().Add(point))
		at := cell{i, j}
		if !seen[at] {
			seen[at] = true
			visited = append(visited, at)
		}
		current.Set(i, j, amps*dir.Q1, amps*dir.Q2)
	}

	potentials := field.Linspace(sol.potentials[e.Start], sol.potentials[e.Stop], len(visited))
	for k, at := range visited {
		voltage.Set(at.i, at.j, potentials[k])
	}
	return voltage, current
}
