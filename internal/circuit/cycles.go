package circuit

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/traverse"
)

// forest is a breadth-first spanning forest of the conducting subgraph,
// rooted first at ground and then at the lowest unvisited node.
type forest struct {
	depth  []int
	parent []int // edge index, -1 for roots
	root   []int
}

// Step is one edge of a loop, walked along (+1) or against (-1) its direction.
type Step struct {
	Edge int
	Dir  float64
}

// Loop is a closed walk through the circuit.
type Loop []Step

func (c *Circuit) undirected() *multi.UndirectedGraph {
	g := multi.NewUndirectedGraph()
	for _, n := range c.nodes {
		g.AddNode(multi.Node(n.ID))
	}
	for idx, e := range c.edges {
		if !c.conducts(idx) || e.Start == e.Stop {
			continue
		}
		g.SetLine(multi.Line{F: multi.Node(e.Start), T: multi.Node(e.Stop), UID: int64(idx)})
	}
	return g
}

func (c *Circuit) buildForest() *forest {
	n := len(c.nodes)
	f := &forest{
		depth:  make([]int, n),
		parent: make([]int, n),
		root:   make([]int, n),
	}
	for i := range f.parent {
		f.parent[i] = -1
		f.root[i] = -1
	}

	g := c.undirected()
	var bfs traverse.BreadthFirst
	roots := make([]int, 0, n+1)
	roots = append(roots, c.ground)
	for id := 0; id < n; id++ {
		roots = append(roots, id)
	}
	for _, r := range roots {
		if bfs.Visited(multi.Node(r)) {
			continue
		}
		bfs.Walk(g, multi.Node(r), func(node graph.Node, d int) bool {
			f.depth[node.ID()] = d
			f.root[node.ID()] = r
			return false
		})
	}

	// The first edge in column order towards the previous level is the parent.
	for _, idx := range c.order {
		e := c.edges[idx]
		if !c.conducts(idx) || e.Start == e.Stop {
			continue
		}
		for _, pair := range [2][2]int{{e.Start, e.Stop}, {e.Stop, e.Start}} {
			child, par := pair[0], pair[1]
			if f.parent[child] == -1 && child != f.root[child] && f.depth[par] == f.depth[child]-1 {
				f.parent[child] = idx
			}
		}
	}
	return f
}

func (f *forest) isTree(c *Circuit, edge int) bool {
	e := c.edges[edge]
	return f.parent[e.Start] == edge || f.parent[e.Stop] == edge
}

// Loops returns a fundamental cycle basis of the circuit without its current
// sources. Each non-tree edge, self-loops and parallel edges included,
// closes one loop walked along the edge's own direction and back through
// the spanning forest.
func (c *Circuit) Loops() []Loop {
	var loops []Loop
	for _, idx := range c.order {
		if !c.conducts(idx) || c.forest.isTree(c, idx) {
			continue
		}
		e := c.edges[idx]
		loop := Loop{{Edge: idx, Dir: 1}}
		loop = append(loop, c.treePath(e.Stop, e.Start)...)
		loops = append(loops, loop)
	}
	return loops
}

// treePath walks the spanning forest from a to b. Both must share a root.
func (c *Circuit) treePath(a, b int) []Step {
	f := c.forest
	var up, down []Step
	for a != b {
		if f.depth[a] >= f.depth[b] {
			e := f.parent[a]
			next := c.other(e, a)
			up = append(up, c.step(e, a))
			a = next
		} else {
			e := f.parent[b]
			next := c.other(e, b)
			down = append(down, c.step(e, next))
			b = next
		}
	}
	for i, j := 0, len(down)-1; i < j; i, j = i+1, j-1 {
		down[i], down[j] = down[j], down[i]
	}
	return append(up, down...)
}

func (c *Circuit) step(edge, from int) Step {
	if c.edges[edge].Start == from {
		return Step{Edge: edge, Dir: 1}
	}
	return Step{Edge: edge, Dir: -1}
}
