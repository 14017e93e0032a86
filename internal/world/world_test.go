package world_test

import (
	"context"
	"errors"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/emsim/internal/circuit"
	"github.com/san-kum/emsim/internal/component"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
	"github.com/san-kum/emsim/internal/world"
)

func pos(q1, q2 float64) maxwell.Position { return maxwell.Position{Q1: q1, Q2: q2} }

func build(kind component.Kind, start, stop maxwell.Position, path component.PathFunc, value float64) *component.Component {
	c, err := component.New(kind, start, stop, path, value)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func squareLoop() *circuit.Circuit {
	comps := []*component.Component{
		build(component.VoltageSource, pos(5, 5), pos(5, 15), component.Vertical, 1),
		build(component.Wire, pos(5, 15), pos(15, 15), component.Horizontal, 0.01),
		build(component.Wire, pos(15, 15), pos(15, 5), component.Vertical, 1),
		build(component.Wire, pos(15, 5), pos(5, 5), component.Horizontal, 0.01),
	}
	c, err := circuit.New(comps, pos(5, 5), circuit.WithIncrement(0.05))
	Expect(err).NotTo(HaveOccurred())
	return c
}

func polarLoop() *circuit.Circuit {
	comps := []*component.Component{
		build(component.Wire, pos(4, 0.2), pos(4, 1.0), component.Tangential, 0.01),
		build(component.VoltageSource, pos(4, 1.0), pos(8, 1.0), component.Radial, 1),
		build(component.Wire, pos(8, 1.0), pos(8, 0.2), component.Tangential, 1),
		build(component.Wire, pos(8, 0.2), pos(4, 0.2), component.Radial, 0.01),
	}
	c, err := circuit.New(comps, pos(4, 0.2))
	Expect(err).NotTo(HaveOccurred())
	return c
}

type failingSolver struct{ err error }

func (f failingSolver) Solve(*field.VectorField, maxwell.CoordinateSystem, float64, float64) (*field.VectorField, error) {
	return nil, f.err
}

var _ = Describe("World", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(GinkgoWriter, nil))
	})

	Describe("construction", func() {
		It("spans unit cells in cartesian worlds", func() {
			w, err := world.New(squareLoop(), maxwell.Cartesian, [2]int{21, 11}, world.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			Expect(w.Minimum()).To(Equal(pos(0, 0)))
			Expect(w.Maximum()).To(Equal(pos(20, 10)))
			Expect(w.DeltaQ1()).To(BeNumerically("~", 1, 1e-12))
			Expect(w.DeltaQ2()).To(BeNumerically("~", 1, 1e-12))
		})

		It("spans a quarter turn in polar worlds", func() {
			w, err := world.New(polarLoop(), maxwell.Polar, [2]int{11, 21}, world.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			Expect(w.Maximum()).To(Equal(pos(10, math.Pi/2)))
			Expect(w.DeltaQ2()).To(BeNumerically("~", math.Pi/40, 1e-12))
		})

		It("checks the coordinate system before the shape", func() {
			_, err := world.New(squareLoop(), maxwell.CoordinateSystem(3), [2]int{1, 1})
			Expect(err).To(MatchError(maxwell.ErrUnsupportedCoordinateSystem))
		})

		It("rejects degenerate shapes", func() {
			_, err := world.New(squareLoop(), maxwell.Cartesian, [2]int{1, 20})
			Expect(err).To(MatchError(maxwell.ErrInvalidShape))
		})

		It("surfaces unsolvable circuits", func() {
			comps := []*component.Component{
				build(component.VoltageSource, pos(1, 1), pos(1, 3), component.Vertical, 1),
				build(component.VoltageSource, pos(1, 1), pos(1, 3), component.Vertical, 2),
				build(component.Wire, pos(1, 3), pos(1, 1), component.Vertical, 1),
			}
			c, err := circuit.New(comps, pos(1, 1))
			Expect(err).NotTo(HaveOccurred())

			_, err = world.New(c, maxwell.Cartesian, [2]int{5, 5})
			Expect(err).To(MatchError(maxwell.ErrUnsolvable))
			var rankErr *maxwell.RankError
			Expect(errors.As(err, &rankErr)).To(BeTrue())
		})
	})

	Describe("Compute", func() {
		It("derives every field of a cartesian loop", func() {
			w, err := world.New(squareLoop(), maxwell.Cartesian, [2]int{21, 21},
				world.WithLogger(logger), world.WithWorkers(2))
			Expect(err).NotTo(HaveOccurred())

			f, err := w.Compute(context.Background(), 200)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.MagneticFallback).To(BeFalse())

			Expect(f.Electric.Dim()).To(Equal(2))
			Expect(f.Magnetic.Dim()).To(Equal(3))
			Expect(f.EnergyFlux.Dim()).To(Equal(3))

			By("keeping conductors at their circuit potential")
			for _, c := range f.Voltage.NonZero() {
				Expect(f.Potential.At(c.I, c.J)).To(Equal(c.Value))
			}

			By("producing an out of plane magnetic field inside the loop")
			Expect(f.Magnetic.X().Max()).To(BeZero())
			Expect(f.Magnetic.Z().At(10, 10)).NotTo(BeZero())

			By("keeping the energy flux in plane")
			Expect(f.EnergyFlux.Z().Max()).To(BeZero())
			Expect(f.EnergyFlux.Z().Min()).To(BeZero())
			e, b, s := f.Electric.At(8, 12), f.Magnetic.At(8, 12), f.EnergyFlux.At(8, 12)
			Expect(s[0]).To(BeNumerically("~", e[1]*b[2], 1e-18))
			Expect(s[1]).To(BeNumerically("~", -e[0]*b[2], 1e-18))
		})

		It("falls back to a zero magnetic field on polar grids", func() {
			w, err := world.New(polarLoop(), maxwell.Polar, [2]int{11, 21}, world.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			f, err := w.Compute(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.MagneticFallback).To(BeTrue())
			Expect(f.Magnetic.Magnitude().Max()).To(BeZero())
			Expect(f.EnergyFlux.Magnitude().Max()).To(BeZero())
			Expect(f.Electric.HasNaN()).To(BeFalse())

			for j := 0; j < 21; j++ {
				Expect(f.Electric.At(0, j)[1]).To(BeZero())
			}
		})

		It("aborts on magnetic solver failures other than not implemented", func() {
			boom := errors.New("boom")
			w, err := world.New(squareLoop(), maxwell.Cartesian, [2]int{21, 21},
				world.WithLogger(logger), world.WithMagneticSolver(failingSolver{err: boom}))
			Expect(err).NotTo(HaveOccurred())

			_, err = w.Compute(context.Background(), 10)
			Expect(err).To(MatchError(boom))
		})

		It("rejects non-positive iteration counts", func() {
			w, err := world.New(squareLoop(), maxwell.Cartesian, [2]int{21, 21}, world.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			_, err = w.Compute(context.Background(), 0)
			Expect(err).To(MatchError(maxwell.ErrInvalidParameter))
		})

		It("stops when the context is cancelled", func() {
			w, err := world.New(squareLoop(), maxwell.Cartesian, [2]int{21, 21}, world.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err = w.Compute(ctx, 10)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
