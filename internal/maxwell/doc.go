// Package maxwell provides the core primitives shared by the circuit and
// field packages.
//
// The package defines the small vocabulary every stage of the simulation
// speaks:
//
//   - [Position]: an exact point in the active coordinate system
//   - [Vec2]: a displacement between two positions
//   - [CoordinateSystem]: the closed {Cartesian, Polar} enum
//   - sentinel errors and the typed wrappers that carry context
//   - [ParallelFor]: chunked fan-out used by the grid solvers
//
// # Example
//
//	start := maxwell.Position{Q1: 26, Q2: 26}
//	stop := maxwell.Position{Q1: 26, Q2: 74}
//	d := stop.Sub(start) // Vec2{0, 48}
//
// # Thread Safety
//
// All types in this package are plain values and safe to copy. Positions are
// compared with exact equality; no tolerance is applied when they are used as
// map keys.
package maxwell
