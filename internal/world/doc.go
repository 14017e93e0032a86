// Package world places a circuit on a discretized 2D grid and derives the
// fields it produces.
//
// The grid spans (0, 0) to (n1-1, n2-1) in cartesian worlds and (0, 0) to
// (n1-1, π/2) in polar ones, so a cartesian world has unit spacing.
// Compute runs a fixed pipeline:
//
//	V, I  (projected circuit)
//	P  = relax(V)
//	E  = -∇P
//	B  = biot-savart(I)
//	S  = E × B
//
// # Example
//
//	c, _ := circuit.New(components, ground)
//	w, err := world.New(c, maxwell.Cartesian, [2]int{101, 101})
//	if err != nil {
//		return err
//	}
//	fields, err := w.Compute(ctx, laplace.DefaultIterations)
//
// # Thread Safety
//
// A World is not safe for concurrent use. Compute itself fans out across
// goroutines for the relaxation and magnetic stages.
package world
