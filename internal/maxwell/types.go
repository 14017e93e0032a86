package maxwell

import (
	"fmt"
	"math"
	"strings"
)

// Position is a point in the active coordinate system: (x, y) for cartesian
// worlds, (r, θ) for polar ones.
type Position struct {
	Q1, Q2 float64
}

func (p Position) Sub(o Position) Vec2 { return Vec2{p.Q1 - o.Q1, p.Q2 - o.Q2} }
func (p Position) Add(d Vec2) Position { return Position{p.Q1 + d.Q1, p.Q2 + d.Q2} }

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.Q1, p.Q2)
}

// Vec2 is a displacement in the active coordinate system.
type Vec2 struct {
	Q1, Q2 float64
}

func (v Vec2) Add(o Vec2) Vec2           { return Vec2{v.Q1 + o.Q1, v.Q2 + o.Q2} }
func (v Vec2) Sub(o Vec2) Vec2           { return Vec2{v.Q1 - o.Q1, v.Q2 - o.Q2} }
func (v Vec2) Scale(factor float64) Vec2 { return Vec2{v.Q1 * factor, v.Q2 * factor} }
func (v Vec2) Norm() float64             { return math.Hypot(v.Q1, v.Q2) }

// IsValid reports whether both coordinates are finite.
func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.Q1) && !math.IsNaN(v.Q2) && !math.IsInf(v.Q1, 0) && !math.IsInf(v.Q2, 0)
}

// Close reports whether every coordinate of v and o differs by at most tol.
func (v Vec2) Close(o Vec2, tol float64) bool {
	return math.Abs(v.Q1-o.Q1) <= tol && math.Abs(v.Q2-o.Q2) <= tol
}

// CoordinateSystem selects how grid axes are interpreted.
type CoordinateSystem int

const (
	Cartesian CoordinateSystem = 1
	Polar     CoordinateSystem = 2
)

func (c CoordinateSystem) String() string {
	switch c {
	case Cartesian:
		return "cartesian"
	case Polar:
		return "polar"
	default:
		return fmt.Sprintf("CoordinateSystem(%d)", int(c))
	}
}

// Validate fails with ErrUnsupportedCoordinateSystem for anything other than
// Cartesian or Polar.
func (c CoordinateSystem) Validate() error {
	switch c {
	case Cartesian, Polar:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedCoordinateSystem, int(c))
	}
}

// ParseCoordinateSystem maps a config or flag value to a CoordinateSystem.
func ParseCoordinateSystem(s string) (CoordinateSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cartesian", "":
		return Cartesian, nil
	case "polar":
		return Polar, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCoordinateSystem, s)
	}
}

// IsClose mirrors numpy.isclose with its default tolerances.
func IsClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-8+1e-5*math.Abs(b)
}
