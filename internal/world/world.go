package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/emsim/internal/biotsavart"
	"github.com/san-kum/emsim/internal/circuit"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/laplace"
	"github.com/san-kum/emsim/internal/maxwell"
)

// MagneticSolver computes B from the projected current density.
type MagneticSolver interface {
	Solve(current *field.VectorField, cs maxwell.CoordinateSystem, dq1, dq2 float64) (*field.VectorField, error)
}

// World places a solved circuit on a regular grid.
type World struct {
	circuit  *circuit.Circuit
	cs       maxwell.CoordinateSystem
	n1, n2   int
	grid     *field.Grid
	solution *circuit.Solution
	voltage  *field.ScalarField
	current  *field.VectorField

	logger   *slog.Logger
	workers  int
	magnetic MagneticSolver
}

type Option func(*World)

func WithLogger(logger *slog.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// WithWorkers bounds the goroutines used by the relaxation and magnetic solvers.
func WithWorkers(n int) Option {
	return func(w *World) { w.workers = n }
}

func WithMagneticSolver(s MagneticSolver) Option {
	return func(w *World) { w.magnetic = s }
}

// New validates the world geometry, solves the circuit and rasterizes it.
func New(c *circuit.Circuit, cs maxwell.CoordinateSystem, shape [2]int, opts ...Option) (*World, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	if shape[0] < 2 || shape[1] < 2 {
		return nil, fmt.Errorf("%w: %dx%d, need at least 2x2", maxwell.ErrInvalidShape, shape[0], shape[1])
	}

	w := &World{circuit: c, cs: cs, n1: shape[0], n2: shape[1]}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.magnetic == nil {
		w.magnetic = &biotsavart.Solver{Workers: w.workers}
	}

	grid, err := field.NewGrid(w.n1, w.n2, w.Minimum(), w.Maximum())
	if err != nil {
		return nil, err
	}
	w.grid = grid

	sol, err := c.Solve()
	if err != nil {
		return nil, fmt.Errorf("solve circuit: %w", err)
	}
	w.solution = sol

	w.voltage, w.current, err = circuit.Project(sol, grid)
	if err != nil {
		return nil, fmt.Errorf("project circuit: %w", err)
	}
	return w, nil
}

func (w *World) Minimum() maxwell.Position { return maxwell.Position{} }

func (w *World) Maximum() maxwell.Position {
	if w.cs == maxwell.Polar {
		return maxwell.Position{Q1: float64(w.n1 - 1), Q2: math.Pi / 2}
	}
	return maxwell.Position{Q1: float64(w.n1 - 1), Q2: float64(w.n2 - 1)}
}

func (w *World) DeltaQ1() float64 { return (w.Maximum().Q1 - w.Minimum().Q1) / float64(w.n1-1) }
func (w *World) DeltaQ2() float64 { return (w.Maximum().Q2 - w.Minimum().Q2) / float64(w.n2-1) }

func (w *World) Shape() [2]int                              { return [2]int{w.n1, w.n2} }
func (w *World) CoordinateSystem() maxwell.CoordinateSystem { return w.cs }
func (w *World) Grid() *field.Grid                          { return w.grid }
func (w *World) Circuit() *circuit.Circuit                  { return w.circuit }
func (w *World) Solution() *circuit.Solution                { return w.solution }
func (w *World) Voltage() *field.ScalarField                { return w.voltage }
func (w *World) Current() *field.VectorField                { return w.current }

// Compute runs relaxation, the electric field, the magnetic field and the
// energy flux in that order. A magnetic solver returning ErrNotImplemented
// is replaced by zero B and zero flux; any other failure aborts the run.
func (w *World) Compute(ctx context.Context, iterations int) (*Fields, error) {
	begin := time.Now()
	dq1, dq2 := w.DeltaQ1(), w.DeltaQ2()
	out := &Fields{Voltage: w.voltage, Current: w.current}

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t0 := time.Now()
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		w.logger.Info("stage done", "stage", name, "elapsed", time.Since(t0))
		return nil
	}

	err := stage("potential", func() error {
		solver := &laplace.Solver{Iterations: iterations, Workers: w.workers}
		p, err := solver.Solve(w.voltage, w.cs, dq1, dq2)
		out.Potential = p
		return err
	})
	if err != nil {
		return nil, err
	}

	err = stage("electric", func() error {
		out.Electric = w.electricField(out.Potential, dq1, dq2)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage("magnetic", func() error {
		b, err := w.magnetic.Solve(w.current, w.cs, dq1, dq2)
		if errors.Is(err, maxwell.ErrNotImplemented) {
			w.logger.Warn("magnetic field unavailable, using zero field",
				"coordinates", w.cs, "error", err)
			out.MagneticFallback = true
			b = field.NewVectorField(w.n1, w.n2, 3)
			err = nil
		}
		out.Magnetic = b
		return err
	})
	if err != nil {
		return nil, err
	}

	err = stage("energy_flux", func() error {
		s, err := out.Electric.Cross(out.Magnetic)
		out.EnergyFlux = s
		return err
	})
	if err != nil {
		return nil, err
	}

	out.Elapsed = time.Since(begin)
	return out, nil
}

// electricField returns E = -∇P. On polar grids the θ component is divided
// by r so that both components are physical; it is 0 on the r = 0 row.
func (w *World) electricField(p *field.ScalarField, dq1, dq2 float64) *field.VectorField {
	e := p.Gradient(dq1, dq2).Neg()
	if w.cs != maxwell.Polar {
		return e
	}
	for i := 0; i < w.n1; i++ {
		r := w.grid.Q1[i]
		for j := 0; j < w.n2; j++ {
			v := e.At(i, j)
			if r == 0 {
				v[1] = 0
			} else {
				v[1] /= r
			}
			e.Set(i, j, v...)
		}
	}
	return e
}
