package circuit

import (
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/maxwell"
)

// Solution holds the solved currents (per edge) and potentials (per node) of
// a circuit. The circuit itself is never mutated.
type Solution struct {
	circuit    *Circuit
	currents   []float64
	potentials []float64
}

func newSolution(c *Circuit) *Solution {
	s := &Solution{
		circuit:    c,
		currents:   make([]float64, len(c.edges)),
		potentials: make([]float64, len(c.nodes)),
	}
	for i := range s.potentials {
		s.potentials[i] = math.NaN()
	}
	return s
}

func (s *Solution) Circuit() *Circuit { return s.circuit }

// SetCurrent records the current through edge. Current sources only accept
// their own fixed value.
func (s *Solution) SetCurrent(edge int, current float64) error {
	if edge < 0 || edge >= len(s.currents) {
		return fmt.Errorf("%w: edge %d", maxwell.ErrInvalidParameter, edge)
	}
	comp := s.circuit.Component(edge)
	if err := comp.CheckCurrent(current); err != nil {
		return &maxwell.ComponentError{Index: edge, Label: comp.Label(), Wrapped: err}
	}
	s.currents[edge] = current
	return nil
}

func (s *Solution) Current(edge int) float64  { return s.currents[edge] }
func (s *Solution) Potential(node int) float64 { return s.potentials[node] }

// Currents returns a copy of the edge currents in declaration order.
func (s *Solution) Currents() []float64 { return append([]float64(nil), s.currents...) }

// Potentials returns a copy of the node potentials in id order.
func (s *Solution) Potentials() []float64 { return append([]float64(nil), s.potentials...) }

// PotentialAt looks up the potential of the node at an exact position.
func (s *Solution) PotentialAt(p maxwell.Position) (float64, bool) {
	n, ok := s.circuit.NodeAt(p)
	if !ok {
		return 0, false
	}
	return s.potentials[n.ID], true
}

// Label is the component label annotated with its solved current.
func (s *Solution) Label(edge int) string {
	return fmt.Sprintf("%s (I=%.3fA)", s.circuit.Component(edge).Label(), s.currents[edge])
}

func (s *Solution) NodeLabel(node int) string {
	return fmt.Sprintf("%.3fV", s.potentials[node])
}

// Residual returns the largest absolute net current into any node.
func (s *Solution) Residual() float64 {
	net := make([]float64, len(s.potentials))
	for idx, e := range s.circuit.edges {
		net[e.Start] -= s.currents[idx]
		net[e.Stop] += s.currents[idx]
	}
	var worst float64
	for _, v := range net {
		worst = math.Max(worst, math.Abs(v))
	}
	return worst
}
