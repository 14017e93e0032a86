package component

import (
	"fmt"
	"sort"

	"github.com/san-kum/emsim/internal/maxwell"
)

// Straight follows the displacement unchanged: (q1, q2) -> (q1, q2).
func Straight(d maxwell.Vec2) maxwell.Vec2 { return d }

// Horizontal keeps the first axis only: (x, y) -> (x, 0).
func Horizontal(d maxwell.Vec2) maxwell.Vec2 { return maxwell.Vec2{Q1: d.Q1} }

// Vertical keeps the second axis only: (x, y) -> (0, y).
func Vertical(d maxwell.Vec2) maxwell.Vec2 { return maxwell.Vec2{Q2: d.Q2} }

// Radial and Tangential are the polar names of Horizontal and Vertical.
var (
	Radial     PathFunc = Horizontal
	Tangential PathFunc = Vertical
)

// Scaled returns a path that stretches each axis independently. A scaled path
// only satisfies the endpoint contract when the scale is 1 along every axis
// the component actually moves on.
func Scaled(k1, k2 float64) PathFunc {
	return func(d maxwell.Vec2) maxwell.Vec2 {
		return maxwell.Vec2{Q1: k1 * d.Q1, Q2: k2 * d.Q2}
	}
}

var namedPaths = map[string]PathFunc{
	"straight":   Straight,
	"diagonal":   Straight,
	"horizontal": Horizontal,
	"vertical":   Vertical,
	"radial":     Radial,
	"tangential": Tangential,
}

// PathByName resolves a path by its config name.
func PathByName(name string) (PathFunc, error) {
	if name == "" {
		return Straight, nil
	}
	fn, ok := namedPaths[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown path %q (available: %v)", maxwell.ErrInvalidParameter, name, PathNames())
	}
	return fn, nil
}

// PathNames lists the registered path names in sorted order.
func PathNames() []string {
	names := make([]string, 0, len(namedPaths))
	for name := range namedPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
