// Package field provides dense scalar and vector fields over a 2D grid
// together with the algebra the simulator needs: numpy-style gradients,
// cellwise cross products, elementwise arithmetic and masked averaging.
//
// Fields are indexed [q1][q2] where q1 and q2 are the first and second
// coordinates of the active coordinate system. A Grid maps positions to
// cells by nearest axis sample.
//
// # Example
//
//	g, _ := field.NewGrid(101, 101, maxwell.Position{}, maxwell.Position{Q1: 100, Q2: 100})
//	p := field.NewScalarField(g.Shape())
//	e := p.Gradient(g.Delta()).Neg()
//
// # Thread Safety
//
// Fields are plain values without internal locking. Concurrent writers must
// touch disjoint cells.
package field
