package world

import (
	"fmt"
	"time"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
)

// Fields is the output of one Compute run. E has two components, B and the
// energy flux three.
type Fields struct {
	Voltage    *field.ScalarField
	Current    *field.VectorField
	Potential  *field.ScalarField
	Electric   *field.VectorField
	Magnetic   *field.VectorField
	EnergyFlux *field.VectorField

	// MagneticFallback is set when B could not be computed and was replaced
	// by a zero field.
	MagneticFallback bool
	Elapsed          time.Duration
}

// ScalarNames lists the names accepted by Fields.Scalar.
var ScalarNames = []string{
	"voltage", "potential",
	"ex", "ey", "e",
	"ix", "iy", "i",
	"bz",
	"sx", "sy", "s",
}

// VectorNames lists the names accepted by Fields.Vector.
var VectorNames = []string{"current", "electric", "magnetic", "flux"}

// Scalar returns a scalar view by name. Single letters ("e", "i", "s")
// select vector magnitudes.
func (f *Fields) Scalar(name string) (*field.ScalarField, error) {
	switch name {
	case "voltage":
		return f.Voltage, nil
	case "potential":
		return f.Potential, nil
	case "ex":
		return f.Electric.X(), nil
	case "ey":
		return f.Electric.Y(), nil
	case "e":
		return f.Electric.Magnitude(), nil
	case "ix":
		return f.Current.X(), nil
	case "iy":
		return f.Current.Y(), nil
	case "i":
		return f.Current.Magnitude(), nil
	case "bz":
		return f.Magnetic.Z(), nil
	case "sx":
		return f.EnergyFlux.X(), nil
	case "sy":
		return f.EnergyFlux.Y(), nil
	case "s":
		return f.EnergyFlux.Magnitude(), nil
	}
	return nil, fmt.Errorf("%w: unknown scalar field %q (available: %v)", maxwell.ErrInvalidParameter, name, ScalarNames)
}

// Vector returns a vector field by name.
func (f *Fields) Vector(name string) (*field.VectorField, error) {
	switch name {
	case "current":
		return f.Current, nil
	case "electric":
		return f.Electric, nil
	case "magnetic":
		return f.Magnetic, nil
	case "flux":
		return f.EnergyFlux, nil
	}
	return nil, fmt.Errorf("%w: unknown vector field %q (available: %v)", maxwell.ErrInvalidParameter, name, VectorNames)
}
