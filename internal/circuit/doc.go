// Package circuit turns a list of components into a directed multigraph,
// solves it with Kirchhoff's laws and rasterizes the result onto a grid.
//
// Columns of the Kirchhoff system follow the edges sorted by (start node,
// stop node), ties kept in declaration order. Rows stack the current law of
// every node, the voltage law of every fundamental loop of the graph without
// its current sources, and one row per current source. The system must have
// full column rank; it is solved through its pseudo-inverse.
//
// # Example
//
//	c, err := circuit.New(components, ground)
//	if err != nil {
//		return err
//	}
//	sol, err := c.Solve()
//	if err != nil {
//		return err
//	}
//	voltage, current, err := circuit.Project(sol, grid)
//
// # Thread Safety
//
// A Circuit is immutable after New and may be solved concurrently. Each call
// to Solve returns an independent Solution.
package circuit
