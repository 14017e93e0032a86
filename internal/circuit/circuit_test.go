package circuit

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emsim/internal/component"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
)

func pos(q1, q2 float64) maxwell.Position { return maxwell.Position{Q1: q1, Q2: q2} }

func mustWire(t *testing.T, start, stop maxwell.Position, path component.PathFunc, r float64) *component.Component {
	t.Helper()
	c, err := component.NewWire(start, stop, path, r)
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	return c
}

func mustVoltage(t *testing.T, start, stop maxwell.Position, path component.PathFunc, v float64) *component.Component {
	t.Helper()
	c, err := component.NewVoltageSource(start, stop, path, v)
	if err != nil {
		t.Fatalf("voltage source: %v", err)
	}
	return c
}

func mustCurrent(t *testing.T, start, stop maxwell.Position, path component.PathFunc, i float64) *component.Component {
	t.Helper()
	c, err := component.NewCurrentSource(start, stop, path, i)
	if err != nil {
		t.Fatalf("current source: %v", err)
	}
	return c
}

func mustSolve(t *testing.T, comps []*component.Component, ground maxwell.Position) *Solution {
	t.Helper()
	c, err := New(comps, ground)
	if err != nil {
		t.Fatalf("new circuit: %v", err)
	}
	sol, err := c.Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	return sol
}

// squareLoop is a 1V source feeding two 0.5Ω wires and a zero resistance
// return wire around the square (2,2)-(6,6).
func squareLoop(t *testing.T) []*component.Component {
	return []*component.Component{
		mustVoltage(t, pos(2, 2), pos(2, 6), component.Vertical, 1),
		mustWire(t, pos(2, 6), pos(6, 6), component.Horizontal, 0.5),
		mustWire(t, pos(6, 6), pos(6, 2), component.Vertical, 0.5),
		mustWire(t, pos(6, 2), pos(2, 2), component.Horizontal, 0),
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestOhmSeriesLoop(t *testing.T) {
	comps := []*component.Component{
		mustVoltage(t, pos(0, 0), pos(0, 1), component.Vertical, 1),
		mustWire(t, pos(0, 1), pos(0, 0), component.Vertical, 1),
	}
	sol := mustSolve(t, comps, pos(0, 0))

	for edge := range comps {
		if !approx(sol.Current(edge), 1) {
			t.Errorf("edge %d: expected 1A, got %f", edge, sol.Current(edge))
		}
	}

	top, _ := sol.PotentialAt(pos(0, 1))
	bottom, _ := sol.PotentialAt(pos(0, 0))
	if !approx(top-bottom, 1) {
		t.Errorf("expected 1V drop across the wire, got %f", top-bottom)
	}
	if bottom != 0 {
		t.Errorf("ground potential should be 0, got %f", bottom)
	}

	if got := sol.Label(1); got != "R=1.00Ω (I=1.000A)" {
		t.Errorf("unexpected edge label %q", got)
	}
	if got := sol.NodeLabel(1); got != "1.000V" {
		t.Errorf("unexpected node label %q", got)
	}
}

func TestSquareLoop(t *testing.T) {
	sol := mustSolve(t, squareLoop(t), pos(2, 2))

	for edge, got := range sol.Currents() {
		if !approx(got, 1) {
			t.Errorf("edge %d: expected 1A, got %f", edge, got)
		}
	}

	want := map[maxwell.Position]float64{
		pos(2, 2): 0,
		pos(2, 6): 1,
		pos(6, 6): 0.5,
		pos(6, 2): 0,
	}
	for p, v := range want {
		got, ok := sol.PotentialAt(p)
		if !ok {
			t.Fatalf("no node at %v", p)
		}
		if !approx(got, v) {
			t.Errorf("potential at %v: expected %f, got %f", p, v, got)
		}
	}

	if r := sol.Residual(); r > 1e-9 {
		t.Errorf("current law residual too large: %g", r)
	}
}

func TestParallelResistors(t *testing.T) {
	comps := []*component.Component{
		mustVoltage(t, pos(0, 0), pos(0, 1), component.Vertical, 2),
		mustWire(t, pos(0, 1), pos(0, 0), component.Vertical, 1),
		mustWire(t, pos(0, 1), pos(0, 0), component.Vertical, 2),
	}
	sol := mustSolve(t, comps, pos(0, 0))

	expected := []float64{3, 2, 1}
	for edge, want := range expected {
		if !approx(sol.Current(edge), want) {
			t.Errorf("edge %d: expected %fA, got %f", edge, want, sol.Current(edge))
		}
	}
	if r := sol.Residual(); r > 1e-9 {
		t.Errorf("current law residual too large: %g", r)
	}
}

func TestSelfLoopCarriesNoCurrent(t *testing.T) {
	comps := []*component.Component{
		mustVoltage(t, pos(0, 0), pos(0, 1), component.Vertical, 1),
		mustWire(t, pos(0, 1), pos(0, 0), component.Vertical, 1),
		mustWire(t, pos(0, 1), pos(0, 1), component.Straight, 1),
	}
	c, err := New(comps, pos(0, 0))
	if err != nil {
		t.Fatalf("new circuit: %v", err)
	}
	if d := c.Degree(1); d != 4 {
		t.Errorf("self-loop should count twice, got degree %d", d)
	}
	if n := len(c.Loops()); n != 2 {
		t.Errorf("expected 2 fundamental loops, got %d", n)
	}

	sol, err := c.Solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !approx(sol.Current(2), 0) {
		t.Errorf("self-loop current should be 0, got %f", sol.Current(2))
	}
}

func TestNodesAndColumnOrder(t *testing.T) {
	comps := []*component.Component{
		mustWire(t, pos(5, 0), pos(0, 0), component.Horizontal, 1),
		mustVoltage(t, pos(0, 0), pos(5, 0), component.Horizontal, 1),
		mustWire(t, pos(5, 0), pos(0, 0), component.Horizontal, 1),
	}
	c, err := New(comps, pos(0, 0))
	if err != nil {
		t.Fatalf("new circuit: %v", err)
	}

	nodes := c.Nodes()
	if len(nodes) != 2 || nodes[0].Position != pos(5, 0) || nodes[1].Position != pos(0, 0) {
		t.Fatalf("nodes not numbered by first appearance: %+v", nodes)
	}
	if c.Ground().ID != 1 {
		t.Errorf("expected ground node 1, got %d", c.Ground().ID)
	}

	// edges 0 and 2 run 0->1, edge 1 runs 1->0
	order := c.ColumnOrder()
	expected := []int{0, 2, 1}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("expected column order %v, got %v", expected, order)
		}
	}

	sys := c.Constraints()
	rows, cols := sys.A.Dims()
	if rows != 2+2 || cols != 3 {
		t.Errorf("expected 4x3 system, got %dx%d", rows, cols)
	}
	if sys.Nodes != 2 || sys.Loops != 2 || sys.Sources != 0 {
		t.Errorf("unexpected block sizes %+v", sys)
	}
}

func TestOpenCircuit(t *testing.T) {
	_, err := New(nil, pos(0, 0))
	if !errors.Is(err, maxwell.ErrOpenCircuit) {
		t.Errorf("empty circuit: expected ErrOpenCircuit, got %v", err)
	}

	comps := []*component.Component{
		mustVoltage(t, pos(0, 0), pos(0, 1), component.Vertical, 1),
		mustWire(t, pos(0, 1), pos(0, 0), component.Vertical, 1),
		mustWire(t, pos(0, 1), pos(3, 1), component.Horizontal, 1),
	}
	_, err = New(comps, pos(0, 0))
	if !errors.Is(err, maxwell.ErrOpenCircuit) {
		t.Fatalf("expected ErrOpenCircuit, got %v", err)
	}
	var nodeErr *maxwell.NodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("expected NodeError, got %T", err)
	}
	if nodeErr.Position != pos(3, 1) || nodeErr.Degree != 1 {
		t.Errorf("unexpected node error %+v", nodeErr)
	}
}

func TestUnknownGround(t *testing.T) {
	_, err := New(squareLoop(t), pos(4, 4))
	if !errors.Is(err, maxwell.ErrUnknownGround) {
		t.Errorf("expected ErrUnknownGround, got %v", err)
	}
}

func TestInvalidIncrement(t *testing.T) {
	for _, inc := range []float64{0, -1, math.NaN()} {
		_, err := New(squareLoop(t), pos(2, 2), WithIncrement(inc))
		if !errors.Is(err, maxwell.ErrInvalidParameter) {
			t.Errorf("increment %g: expected ErrInvalidParameter, got %v", inc, err)
		}
	}
}

func TestParallelVoltageSourcesUnsolvable(t *testing.T) {
	comps := []*component.Component{
		mustVoltage(t, pos(0, 0), pos(0, 1), component.Vertical, 1),
		mustVoltage(t, pos(0, 0), pos(0, 1), component.Vertical, 1),
		mustWire(t, pos(0, 1), pos(0, 0), component.Vertical, 1),
	}
	c, err := New(comps, pos(0, 0))
	if err != nil {
		t.Fatalf("new circuit: %v", err)
	}

	_, err = c.Solve()
	if !errors.Is(err, maxwell.ErrUnsolvable) {
		t.Fatalf("expected ErrUnsolvable, got %v", err)
	}
	var rankErr *maxwell.RankError
	if !errors.As(err, &rankErr) {
		t.Fatalf("expected RankError, got %T", err)
	}
	if rankErr.Rank != 2 || rankErr.Unknowns != 3 {
		t.Errorf("expected rank 2 of 3, got %d of %d", rankErr.Rank, rankErr.Unknowns)
	}
}

func TestCurrentSource(t *testing.T) {
	comps := []*component.Component{
		mustCurrent(t, pos(0, 0), pos(0, 1), component.Vertical, 0.5),
		mustWire(t, pos(0, 1), pos(0, 0), component.Vertical, 2),
	}
	sol := mustSolve(t, comps, pos(0, 0))

	if sol.Current(0) != 0.5 {
		t.Errorf("current source must keep its fixed value, got %f", sol.Current(0))
	}
	if !approx(sol.Current(1), 0.5) {
		t.Errorf("expected 0.5A through the wire, got %f", sol.Current(1))
	}
	if v, _ := sol.PotentialAt(pos(0, 1)); !approx(v, 1) {
		t.Errorf("expected 1V above ground, got %f", v)
	}

	err := sol.SetCurrent(0, 0.7)
	if !errors.Is(err, maxwell.ErrCurrentSourceConflict) {
		t.Errorf("expected ErrCurrentSourceConflict, got %v", err)
	}
	if err := sol.SetCurrent(0, 0.5); err != nil {
		t.Errorf("setting the fixed value should succeed: %v", err)
	}
	if err := sol.SetCurrent(9, 1); !errors.Is(err, maxwell.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unknown edge, got %v", err)
	}
}

func TestUnreachableNode(t *testing.T) {
	comps := []*component.Component{
		mustCurrent(t, pos(0, 0), pos(1, 0), component.Horizontal, 1),
		mustCurrent(t, pos(1, 0), pos(0, 0), component.Horizontal, 1),
	}
	c, err := New(comps, pos(0, 0))
	if err != nil {
		t.Fatalf("new circuit: %v", err)
	}

	_, err = c.Solve()
	if !errors.Is(err, maxwell.ErrUnreachableNode) {
		t.Fatalf("expected ErrUnreachableNode, got %v", err)
	}
	var nodeErr *maxwell.NodeError
	if !errors.As(err, &nodeErr) || nodeErr.Node != 1 {
		t.Errorf("expected node 1 to be reported, got %v", err)
	}
}

func TestProject(t *testing.T) {
	sol := mustSolve(t, squareLoop(t), pos(2, 2))
	g, err := field.NewGrid(9, 9, pos(0, 0), pos(8, 8))
	if err != nil {
		t.Fatalf("grid: %v", err)
	}

	voltage, current, err := Project(sol, g)
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	if v := voltage.At(4, 6); !approx(v, 0.75) {
		t.Errorf("expected 0.75V halfway along the top wire, got %f", v)
	}
	if v := voltage.At(2, 6); !approx(v, 1) {
		t.Errorf("expected 1V at the source terminal, got %f", v)
	}
	if v := voltage.At(4, 4); v != 0 {
		t.Errorf("cells off the circuit should stay 0, got %f", v)
	}

	checks := []struct {
		i, j   int
		ix, iy float64
	}{
		{2, 4, 0, 1},
		{4, 6, 1, 0},
		{6, 4, 0, -1},
		{4, 2, -1, 0},
	}
	for _, tt := range checks {
		got := current.At(tt.i, tt.j)
		if math.Abs(got[0]-tt.ix) > 1e-9 || math.Abs(got[1]-tt.iy) > 1e-9 {
			t.Errorf("current at (%d,%d): expected (%g,%g), got %v", tt.i, tt.j, tt.ix, tt.iy, got)
		}
	}
	if got := current.At(4, 4); got[0] != 0 || got[1] != 0 {
		t.Errorf("cells off the circuit should carry no current, got %v", got)
	}
}
