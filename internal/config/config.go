package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/san-kum/emsim/internal/circuit"
	"github.com/san-kum/emsim/internal/component"
	"github.com/san-kum/emsim/internal/maxwell"
	"gopkg.in/yaml.v3"
)

const (
	DefaultShape       = 101
	DefaultIterations  = 1000
	DefaultIncrement   = circuit.DefaultIncrement
	DefaultCoordinates = "cartesian"
)

// Config describes a circuit and the world it is placed in.
type Config struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Shape       [2]int            `yaml:"shape"`
	Coordinates string            `yaml:"coordinates"`
	Ground      [2]float64        `yaml:"ground"`
	Increment   float64           `yaml:"increment"`
	Iterations  int               `yaml:"iterations"`
	Workers     int               `yaml:"workers,omitempty"`
	Components  []ComponentConfig `yaml:"components"`

	// Degrees reads the second coordinate of every position in degrees.
	// Only meaningful for polar worlds.
	Degrees bool `yaml:"degrees,omitempty"`
}

type ComponentConfig struct {
	Kind       string     `yaml:"kind"`
	Start      [2]float64 `yaml:"start"`
	Stop       [2]float64 `yaml:"stop"`
	Path       string     `yaml:"path,omitempty"`
	Resistance float64    `yaml:"resistance,omitempty"`
	Voltage    float64    `yaml:"voltage,omitempty"`
	Current    float64    `yaml:"current,omitempty"`
	Label      string     `yaml:"label,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "circuit",
		Shape:       [2]int{DefaultShape, DefaultShape},
		Coordinates: DefaultCoordinates,
		Increment:   DefaultIncrement,
		Iterations:  DefaultIterations,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Components = append([]ComponentConfig(nil), c.Components...)
	return &out
}

func (c *Config) CoordinateSystem() (maxwell.CoordinateSystem, error) {
	return maxwell.ParseCoordinateSystem(c.Coordinates)
}

// Validate checks everything that can be checked without building the
// circuit graph.
func (c *Config) Validate() error {
	if _, err := c.CoordinateSystem(); err != nil {
		return err
	}
	if c.Shape[0] < 2 || c.Shape[1] < 2 {
		return fmt.Errorf("%w: %dx%d", maxwell.ErrInvalidShape, c.Shape[0], c.Shape[1])
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations %d", maxwell.ErrInvalidParameter, c.Iterations)
	}
	if !(c.Increment > 0) || math.IsInf(c.Increment, 0) {
		return fmt.Errorf("%w: increment %g", maxwell.ErrInvalidParameter, c.Increment)
	}
	if len(c.Components) == 0 {
		return fmt.Errorf("%w: no components", maxwell.ErrOpenCircuit)
	}
	for i, cc := range c.Components {
		if _, err := component.ParseKind(cc.Kind); err != nil {
			return &maxwell.ComponentError{Index: i, Label: cc.Label, Wrapped: err}
		}
		if _, err := component.PathByName(cc.Path); err != nil {
			return &maxwell.ComponentError{Index: i, Label: cc.Label, Wrapped: err}
		}
	}
	return nil
}

// Position converts a config coordinate pair.
func (c *Config) Position(p [2]float64) maxwell.Position {
	if c.Degrees {
		return maxwell.Position{Q1: p[0], Q2: p[1] * math.Pi / 180}
	}
	return maxwell.Position{Q1: p[0], Q2: p[1]}
}

// BuildComponents builds the configured components in declaration order.
func (c *Config) BuildComponents() ([]*component.Component, error) {
	cs, err := c.CoordinateSystem()
	if err != nil {
		return nil, err
	}
	vars := [2]string{"x", "y"}
	if cs == maxwell.Polar {
		vars = [2]string{"r", "theta"}
	}

	comps := make([]*component.Component, 0, len(c.Components))
	for i, cc := range c.Components {
		kind, err := component.ParseKind(cc.Kind)
		if err != nil {
			return nil, &maxwell.ComponentError{Index: i, Label: cc.Label, Wrapped: err}
		}
		path, err := component.PathByName(cc.Path)
		if err != nil {
			return nil, &maxwell.ComponentError{Index: i, Label: cc.Label, Wrapped: err}
		}

		opts := []component.Option{component.WithVariables(vars[0], vars[1])}
		if cc.Label != "" {
			opts = append(opts, component.WithLabel(cc.Label))
		}
		comp, err := component.New(kind, c.Position(cc.Start), c.Position(cc.Stop), path, cc.value(kind), opts...)
		if err != nil {
			return nil, &maxwell.ComponentError{Index: i, Label: cc.Label, Wrapped: err}
		}
		comps = append(comps, comp)
	}
	return comps, nil
}

// Build validates the config and assembles its circuit.
func (c *Config) Build(logger *slog.Logger) (*circuit.Circuit, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	comps, err := c.BuildComponents()
	if err != nil {
		return nil, err
	}
	return circuit.New(comps, c.Position(c.Ground),
		circuit.WithIncrement(c.Increment),
		circuit.WithLogger(logger),
	)
}

func (cc ComponentConfig) value(kind component.Kind) float64 {
	switch kind {
	case component.VoltageSource:
		return cc.Voltage
	case component.CurrentSource:
		return cc.Current
	default:
		return cc.Resistance
	}
}
