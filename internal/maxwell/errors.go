package maxwell

import (
	"errors"
	"fmt"
)

// Domain errors for circuit and field operations.
var (
	// ErrPathContract indicates a path function that does not pass through
	// the origin or does not connect the declared endpoints.
	ErrPathContract = errors.New("maxwell: path does not connect component endpoints")

	// ErrOpenCircuit indicates a node with fewer than two connections.
	ErrOpenCircuit = errors.New("maxwell: circuit is not closed")

	// ErrUnsolvable indicates a Kirchhoff system whose rank differs from the
	// number of unknown currents.
	ErrUnsolvable = errors.New("maxwell: system not fully solvable")

	// ErrCurrentSourceConflict indicates an attempt to overwrite a current
	// source's fixed current with a different value.
	ErrCurrentSourceConflict = errors.New("maxwell: current source current is fixed")

	// ErrUnsupportedCoordinateSystem indicates a coordinate system outside
	// {Cartesian, Polar}.
	ErrUnsupportedCoordinateSystem = errors.New("maxwell: unsupported coordinate system")

	// ErrUnreachableNode indicates a node with no wire or voltage source path
	// to ground.
	ErrUnreachableNode = errors.New("maxwell: node unreachable from ground")

	// ErrUnknownGround indicates a ground position that is not a circuit node.
	ErrUnknownGround = errors.New("maxwell: ground position is not a circuit node")

	// ErrInvalidShape indicates a grid shape that cannot be discretized.
	ErrInvalidShape = errors.New("maxwell: invalid grid shape")

	// ErrShapeMismatch indicates operands defined on different grids.
	ErrShapeMismatch = errors.New("maxwell: shape mismatch between fields")

	// ErrInvalidParameter indicates a non-finite or out of range value.
	ErrInvalidParameter = errors.New("maxwell: parameter out of valid bounds")

	// ErrNotImplemented marks a solver path that is intentionally missing.
	ErrNotImplemented = errors.New("maxwell: not implemented")
)

// ComponentError wraps an error with the component that caused it.
type ComponentError struct {
	Index   int
	Label   string
	Wrapped error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %d (%s): %v", e.Index, e.Label, e.Wrapped)
}

func (e *ComponentError) Unwrap() error {
	return e.Wrapped
}

// NodeError wraps an error with the offending circuit node.
type NodeError struct {
	Node     int
	Position Position
	Degree   int
	Wrapped  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %d at %v (degree %d): %v", e.Node, e.Position, e.Degree, e.Wrapped)
}

func (e *NodeError) Unwrap() error {
	return e.Wrapped
}

// RankError reports the rank of a Kirchhoff system that cannot be trusted.
type RankError struct {
	Rank     int
	Unknowns int
}

func (e *RankError) Error() string {
	return fmt.Sprintf("%v: rank is %d vs %d unknowns", ErrUnsolvable, e.Rank, e.Unknowns)
}

func (e *RankError) Unwrap() error {
	return ErrUnsolvable
}
