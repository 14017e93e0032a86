package circuit

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/san-kum/emsim/internal/component"
	"github.com/san-kum/emsim/internal/maxwell"
)

// DefaultIncrement is the sampling step used when rasterizing components.
const DefaultIncrement = 0.01

// Node is a junction shared by every component ending at the same position.
type Node struct {
	ID       int
	Position maxwell.Position
	Label    string
}

// Edge links two nodes through the component of the same index.
type Edge struct {
	Start, Stop int
	Component   int
}

// Circuit is a closed directed multigraph of components. Nodes are
// identified by exact position equality and numbered in order of first
// appearance, start before stop.
type Circuit struct {
	components []*component.Component
	nodes      []Node
	edges      []Edge
	byPosition map[maxwell.Position]int
	ground     int
	increment  float64
	logger     *slog.Logger

	// order lists edge indices in column order; column is its inverse.
	order  []int
	column []int
	forest *forest
}

type Option func(*Circuit)

// WithIncrement sets the rasterization step for Project.
func WithIncrement(increment float64) Option {
	return func(c *Circuit) { c.increment = increment }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Circuit) { c.logger = logger }
}

// New builds the circuit graph. Every node must have degree >= 2 and ground
// must be the position of a node.
func New(components []*component.Component, ground maxwell.Position, opts ...Option) (*Circuit, error) {
	c := &Circuit{
		components: components,
		byPosition: make(map[maxwell.Position]int),
		increment:  DefaultIncrement,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.increment <= 0 || math.IsNaN(c.increment) || math.IsInf(c.increment, 0) {
		return nil, fmt.Errorf("%w: increment %g", maxwell.ErrInvalidParameter, c.increment)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: no components", maxwell.ErrOpenCircuit)
	}

	for idx, comp := range components {
		if comp == nil {
			return nil, &maxwell.ComponentError{Index: idx, Label: "<nil>", Wrapped: maxwell.ErrInvalidParameter}
		}
		start := c.addNode(comp.Start())
		stop := c.addNode(comp.Stop())
		c.edges = append(c.edges, Edge{Start: start, Stop: stop, Component: idx})
	}

	if err := c.validateClosed(); err != nil {
		return nil, err
	}

	id, ok := c.byPosition[ground]
	if !ok {
		return nil, fmt.Errorf("%w: %v", maxwell.ErrUnknownGround, ground)
	}
	c.ground = id

	c.sortEdges()
	c.forest = c.buildForest()

	c.logger.Debug("circuit built",
		"nodes", len(c.nodes),
		"edges", len(c.edges),
		"ground", c.ground,
	)
	return c, nil
}

func (c *Circuit) addNode(p maxwell.Position) int {
	if id, ok := c.byPosition[p]; ok {
		return id
	}
	id := len(c.nodes)
	c.nodes = append(c.nodes, Node{ID: id, Position: p, Label: strconv.Itoa(id)})
	c.byPosition[p] = id
	return id
}

func (c *Circuit) validateClosed() error {
	for _, n := range c.nodes {
		if d := c.Degree(n.ID); d < 2 {
			return &maxwell.NodeError{Node: n.ID, Position: n.Position, Degree: d, Wrapped: maxwell.ErrOpenCircuit}
		}
	}
	return nil
}

// sortEdges fixes the column order: by (start, stop), declaration order on ties.
func (c *Circuit) sortEdges() {
	c.order = make([]int, len(c.edges))
	for i := range c.order {
		c.order[i] = i
	}
	sort.SliceStable(c.order, func(a, b int) bool {
		ea, eb := c.edges[c.order[a]], c.edges[c.order[b]]
		if ea.Start != eb.Start {
			return ea.Start < eb.Start
		}
		return ea.Stop < eb.Stop
	})
	c.column = make([]int, len(c.edges))
	for col, idx := range c.order {
		c.column[idx] = col
	}
}

// Degree counts edge endpoints at a node; a self-loop counts twice.
func (c *Circuit) Degree(node int) int {
	var d int
	for _, e := range c.edges {
		if e.Start == node {
			d++
		}
		if e.Stop == node {
			d++
		}
	}
	return d
}

func (c *Circuit) Components() []*component.Component { return c.components }
func (c *Circuit) Nodes() []Node                       { return append([]Node(nil), c.nodes...) }
func (c *Circuit) Edges() []Edge                       { return append([]Edge(nil), c.edges...) }
func (c *Circuit) Ground() Node                        { return c.nodes[c.ground] }
func (c *Circuit) Increment() float64                  { return c.increment }

// Component returns the component carried by edge.
func (c *Circuit) Component(edge int) *component.Component {
	return c.components[c.edges[edge].Component]
}

// NodeAt looks up the node at an exact position.
func (c *Circuit) NodeAt(p maxwell.Position) (Node, bool) {
	id, ok := c.byPosition[p]
	if !ok {
		return Node{}, false
	}
	return c.nodes[id], true
}

// ColumnOrder returns edge indices in the column order of the constraint matrix.
func (c *Circuit) ColumnOrder() []int { return append([]int(nil), c.order...) }

// conducts reports whether an edge takes part in voltage loops and potential
// propagation. Current sources do not.
func (c *Circuit) conducts(edge int) bool {
	return c.Component(edge).Kind() != component.CurrentSource
}

func (c *Circuit) other(edge, node int) int {
	if e := c.edges[edge]; e.Start == node {
		return e.Stop
	}
	return c.edges[edge].Start
}
