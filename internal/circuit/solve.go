package circuit

import (
	"errors"
	"sort"

	"github.com/san-kum/emsim/internal/component"
	"github.com/san-kum/emsim/internal/maxwell"
	"gonum.org/v1/gonum/mat"
)

const (
	machineEpsilon = 2.220446049250313e-16
	// pinvCutoff is the relative singular value cutoff of the pseudo-inverse.
	pinvCutoff = 1e-15
)

var errFactorize = errors.New("circuit: singular value decomposition failed")

// Solve computes branch currents from Kirchhoff's laws and propagates node
// potentials outward from ground.
func (c *Circuit) Solve() (*Solution, error) {
	sys := c.Constraints()

	x, rank, err := leastSquares(sys.A, sys.B)
	if err != nil {
		return nil, err
	}
	if rank != len(c.edges) {
		return nil, &maxwell.RankError{Rank: rank, Unknowns: len(c.edges)}
	}

	sol := newSolution(c)
	for col, idx := range c.order {
		if err := sol.SetCurrent(idx, x.AtVec(col)); err != nil {
			return nil, err
		}
		if fixed, ok := c.Component(idx).FixedCurrent(); ok {
			sol.currents[idx] = fixed
		}
	}

	if err := c.propagatePotentials(sol); err != nil {
		return nil, err
	}

	c.logger.Debug("circuit solved",
		"rank", rank,
		"loops", sys.Loops,
		"sources", sys.Sources,
	)
	return sol, nil
}

// leastSquares returns pinv(a)·b and the numerical rank of a, both from one
// thin SVD.
func leastSquares(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, int, error) {
	m, n := a.Dims()

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, 0, errFactorize
	}
	s := svd.Values(nil)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var smax float64
	if len(s) > 0 {
		smax = s[0]
	}
	rankTol := smax * float64(max(m, n)) * machineEpsilon
	cutoff := smax * pinvCutoff

	var rank int
	x := mat.NewVecDense(n, nil)
	for k, sk := range s {
		if sk > rankTol {
			rank++
		}
		if sk <= cutoff {
			continue
		}
		coef := mat.Dot(u.ColView(k), b) / sk
		x.AddScaledVec(x, coef, v.ColView(k))
	}
	return x, rank, nil
}

// propagatePotentials walks the spanning tree outward from ground. Every
// node must be reachable through wires or voltage sources.
func (c *Circuit) propagatePotentials(sol *Solution) error {
	f := c.forest

	ids := make([]int, 0, len(c.nodes))
	for _, n := range c.nodes {
		if f.root[n.ID] != c.ground {
			return &maxwell.NodeError{Node: n.ID, Position: n.Position, Degree: c.Degree(n.ID), Wrapped: maxwell.ErrUnreachableNode}
		}
		ids = append(ids, n.ID)
	}
	sort.Slice(ids, func(a, b int) bool {
		if f.depth[ids[a]] != f.depth[ids[b]] {
			return f.depth[ids[a]] < f.depth[ids[b]]
		}
		return ids[a] < ids[b]
	})

	sol.potentials[c.ground] = 0
	for _, id := range ids {
		edge := f.parent[id]
		if edge < 0 {
			continue
		}
		comp := c.Component(edge)
		e := c.edges[edge]

		var drop float64
		switch comp.Kind() {
		case component.VoltageSource:
			drop = comp.Voltage()
		case component.Wire:
			drop = -sol.currents[edge] * comp.Resistance()
		}

		if e.Stop == id {
			sol.potentials[id] = sol.potentials[e.Start] + drop
		} else {
			sol.potentials[id] = sol.potentials[e.Stop] - drop
		}
	}
	return nil
}
