// Package component defines the electrical components a circuit is built from.
//
// A [Component] is a closed tagged variant over three kinds:
//
//   - [Wire]: an ohmic conductor with resistance >= 0
//   - [VoltageSource]: raises the potential of its stop node by a fixed voltage
//   - [CurrentSource]: forces a fixed current from start to stop
//
// Every component is laid along a [PathFunc], a pure function mapping a
// displacement from the start position to a displacement in the world. The
// constructors reject paths that do not pass through the origin or do not
// reach the stop position (see [PathTolerance]).
package component
