package circuit

import (
	"github.com/san-kum/emsim/internal/component"
	"gonum.org/v1/gonum/mat"
)

// System is the stacked Kirchhoff system A·I = b. Columns follow ColumnOrder.
type System struct {
	A *mat.Dense
	B *mat.VecDense

	// Row counts of the current law, voltage law and current source blocks.
	Nodes, Loops, Sources int
}

// Constraints assembles the Kirchhoff system of the circuit.
func (c *Circuit) Constraints() *System {
	loops := c.Loops()

	var sources []int
	for _, idx := range c.order {
		if !c.conducts(idx) {
			sources = append(sources, idx)
		}
	}

	rows := len(c.nodes) + len(loops) + len(sources)
	cols := len(c.edges)
	a := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)

	for idx, e := range c.edges {
		if e.Start == e.Stop {
			continue
		}
		a.Set(e.Start, c.column[idx], -1)
		a.Set(e.Stop, c.column[idx], 1)
	}

	row := len(c.nodes)
	for _, loop := range loops {
		for _, s := range loop {
			comp := c.Component(s.Edge)
			switch comp.Kind() {
			case component.Wire:
				a.Set(row, c.column[s.Edge], -s.Dir*comp.Resistance())
			case component.VoltageSource:
				b.SetVec(row, b.AtVec(row)-s.Dir*comp.Voltage())
			}
		}
		row++
	}

	for _, idx := range sources {
		current, _ := c.Component(idx).FixedCurrent()
		a.Set(row, c.column[idx], 1)
		b.SetVec(row, current)
		row++
	}

	return &System{A: a, B: b, Nodes: len(c.nodes), Loops: len(loops), Sources: len(sources)}
}
