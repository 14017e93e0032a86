package component

import (
	"fmt"
	"math"

	"github.com/san-kum/emsim/internal/maxwell"
)

// PathTolerance is the per-axis slack allowed when checking that a path
// passes through the origin and reaches the stop position.
const PathTolerance = 0.1

// Kind tags the electrical law a component obeys.
type Kind int

const (
	Wire Kind = iota + 1
	VoltageSource
	CurrentSource
)

func (k Kind) String() string {
	switch k {
	case Wire:
		return "wire"
	case VoltageSource:
		return "voltage_source"
	case CurrentSource:
		return "current_source"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a config value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "wire", "resistor":
		return Wire, nil
	case "voltage_source", "voltage":
		return VoltageSource, nil
	case "current_source", "current":
		return CurrentSource, nil
	default:
		return 0, fmt.Errorf("%w: unknown component kind %q", maxwell.ErrInvalidParameter, s)
	}
}

// PathFunc maps a displacement from the component's start position to a
// displacement in world coordinates.
type PathFunc func(maxwell.Vec2) maxwell.Vec2

// Component is a circuit edge: a wire, a voltage source or a current source
// laid along a path between two positions. Components are immutable once
// built; solved currents live in the circuit's solution overlay.
type Component struct {
	kind      Kind
	start     maxwell.Position
	stop      maxwell.Position
	path      PathFunc
	variables [2]string
	label     string
	value     float64
}

type Option func(*Component)

// WithLabel overrides the default label derived from the component value.
func WithLabel(label string) Option {
	return func(c *Component) { c.label = label }
}

// WithVariables names the two formal variables of the path, e.g. "r" and
// "theta" for polar circuits.
func WithVariables(q1, q2 string) Option {
	return func(c *Component) { c.variables = [2]string{q1, q2} }
}

// NewWire builds a resistive component. Resistance must be finite and >= 0.
func NewWire(start, stop maxwell.Position, path PathFunc, resistance float64, opts ...Option) (*Component, error) {
	if resistance < 0 {
		return nil, fmt.Errorf("%w: negative resistance %g", maxwell.ErrInvalidParameter, resistance)
	}
	return newComponent(Wire, start, stop, path, resistance, fmt.Sprintf("R=%.2fΩ", resistance), opts)
}

// NewVoltageSource builds an ideal source raising the stop potential by voltage.
func NewVoltageSource(start, stop maxwell.Position, path PathFunc, voltage float64, opts ...Option) (*Component, error) {
	return newComponent(VoltageSource, start, stop, path, voltage, fmt.Sprintf("Vs=%.2fV", voltage), opts)
}

// NewCurrentSource builds an ideal source forcing current from start to stop.
func NewCurrentSource(start, stop maxwell.Position, path PathFunc, current float64, opts ...Option) (*Component, error) {
	return newComponent(CurrentSource, start, stop, path, current, fmt.Sprintf("Is=%.2fA", current), opts)
}

// New dispatches on kind; value is the resistance, voltage or current.
func New(kind Kind, start, stop maxwell.Position, path PathFunc, value float64, opts ...Option) (*Component, error) {
	switch kind {
	case Wire:
		return NewWire(start, stop, path, value, opts...)
	case VoltageSource:
		return NewVoltageSource(start, stop, path, value, opts...)
	case CurrentSource:
		return NewCurrentSource(start, stop, path, value, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown component kind %d", maxwell.ErrInvalidParameter, int(kind))
	}
}

func newComponent(kind Kind, start, stop maxwell.Position, path PathFunc, value float64, label string, opts []Option) (*Component, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: %s value %g", maxwell.ErrInvalidParameter, kind, value)
	}
	if path == nil {
		return nil, fmt.Errorf("%w: nil path", maxwell.ErrPathContract)
	}

	c := &Component{
		kind:      kind,
		start:     start,
		stop:      stop,
		path:      path,
		variables: [2]string{"x", "y"},
		label:     label,
		value:     value,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.validatePath(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Component) validatePath() error {
	origin := c.Evaluate(maxwell.Vec2{})
	if !origin.IsValid() || !origin.Close(maxwell.Vec2{}, PathTolerance) {
		return fmt.Errorf("%w: path evaluates to %v at the origin", maxwell.ErrPathContract, origin)
	}

	span := c.stop.Sub(c.start)
	end := c.Evaluate(span)
	if !end.IsValid() || !end.Close(span, PathTolerance) {
		return fmt.Errorf("%w: start %v not connected to stop %v (path reaches %v)",
			maxwell.ErrPathContract, c.start, c.stop, c.start.Add(end))
	}
	return nil
}

func (c *Component) Kind() Kind              { return c.kind }
func (c *Component) Start() maxwell.Position { return c.start }
func (c *Component) Stop() maxwell.Position  { return c.stop }
func (c *Component) Label() string           { return c.label }
func (c *Component) Variables() [2]string    { return c.variables }
func (c *Component) Value() float64          { return c.value }
func (c *Component) Span() maxwell.Vec2      { return c.stop.Sub(c.start) }

// Evaluate maps a displacement from the start position through the path.
func (c *Component) Evaluate(d maxwell.Vec2) maxwell.Vec2 { return c.path(d) }

// Resistance returns the wire resistance, 0 for sources.
func (c *Component) Resistance() float64 {
	if c.kind == Wire {
		return c.value
	}
	return 0
}

// Voltage returns the source voltage, 0 for other kinds.
func (c *Component) Voltage() float64 {
	if c.kind == VoltageSource {
		return c.value
	}
	return 0
}

// FixedCurrent returns the imposed current of a current source.
func (c *Component) FixedCurrent() (float64, bool) {
	if c.kind == CurrentSource {
		return c.value, true
	}
	return 0, false
}

// CheckCurrent fails with ErrCurrentSourceConflict when current would
// overwrite a current source's fixed value with a different one.
func (c *Component) CheckCurrent(current float64) error {
	if c.kind != CurrentSource {
		return nil
	}
	if !maxwell.IsClose(current, c.value) {
		return fmt.Errorf("%w: new current is %g A, source current is %g A",
			maxwell.ErrCurrentSourceConflict, current, c.value)
	}
	return nil
}

func (c *Component) String() string {
	return fmt.Sprintf("%s %v->%v [%s]", c.kind, c.start, c.stop, c.label)
}
