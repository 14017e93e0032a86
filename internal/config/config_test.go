package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/emsim/internal/maxwell"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Shape != [2]int{DefaultShape, DefaultShape} {
		t.Errorf("unexpected default shape %v", cfg.Shape)
	}
	if cfg.Iterations != DefaultIterations {
		t.Errorf("expected %d iterations, got %d", DefaultIterations, cfg.Iterations)
	}
	if cfg.Increment <= 0 {
		t.Error("increment should be positive")
	}
	if cs, err := cfg.CoordinateSystem(); err != nil || cs != maxwell.Cartesian {
		t.Errorf("expected cartesian default, got %v (%v)", cs, err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladder.yaml")
	cfg := GetPreset("ladder")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != "ladder" || loaded.Ground != cfg.Ground || loaded.Shape != cfg.Shape {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Components) != len(cfg.Components) {
		t.Fatalf("expected %d components, got %d", len(cfg.Components), len(loaded.Components))
	}
	for i := range cfg.Components {
		if loaded.Components[i] != cfg.Components[i] {
			t.Errorf("component %d: expected %+v, got %+v", i, cfg.Components[i], loaded.Components[i])
		}
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	doc := `
name: tiny
ground: [0, 0]
components:
  - {kind: voltage_source, start: [0, 0], stop: [0, 4], path: vertical, voltage: 2}
  - {kind: resistor, start: [0, 4], stop: [0, 0], path: vertical, resistance: 4}
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Iterations != DefaultIterations || cfg.Increment != DefaultIncrement {
		t.Errorf("defaults not kept: %+v", cfg)
	}

	c, err := cfg.Build(nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	sol, err := c.Solve()
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(sol.Current(1)-0.5) > 1e-9 {
		t.Errorf("expected 0.5A, got %f", sol.Current(1))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"coordinates", func(c *Config) { c.Coordinates = "spherical" }, maxwell.ErrUnsupportedCoordinateSystem},
		{"shape", func(c *Config) { c.Shape = [2]int{1, 10} }, maxwell.ErrInvalidShape},
		{"iterations", func(c *Config) { c.Iterations = 0 }, maxwell.ErrInvalidParameter},
		{"increment", func(c *Config) { c.Increment = -0.1 }, maxwell.ErrInvalidParameter},
		{"empty", func(c *Config) { c.Components = nil }, maxwell.ErrOpenCircuit},
		{"kind", func(c *Config) { c.Components[0].Kind = "diode" }, maxwell.ErrInvalidParameter},
		{"path", func(c *Config) { c.Components[2].Path = "spiral" }, maxwell.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetPreset("loop")
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildReportsComponent(t *testing.T) {
	cfg := GetPreset("loop")
	cfg.Components[3].Path = "horizontal"

	_, err := cfg.Build(nil)
	if !errors.Is(err, maxwell.ErrPathContract) {
		t.Fatalf("expected ErrPathContract, got %v", err)
	}
	var compErr *maxwell.ComponentError
	if !errors.As(err, &compErr) || compErr.Index != 3 {
		t.Errorf("expected component 3 to be reported, got %v", err)
	}
}

func TestDegrees(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Degrees = true
	p := cfg.Position([2]float64{5, 90})
	if p.Q1 != 5 || math.Abs(p.Q2-math.Pi/2) > 1e-15 {
		t.Errorf("expected (5, π/2), got %v", p)
	}
}

func TestPresetsSolve(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			c, err := cfg.Build(nil)
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			sol, err := c.Solve()
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if r := sol.Residual(); r > 1e-9 {
				t.Errorf("current law residual %g", r)
			}
		})
	}
}

func TestLoopPresetCurrent(t *testing.T) {
	c, err := GetPreset("loop").Build(nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	sol, err := c.Solve()
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	want := batteryVoltage / (4*lowResistance + 2*highResistance)
	for edge, got := range sol.Currents() {
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("edge %d: expected %f, got %f", edge, want, got)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("loop")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	cfg.Components[0].Resistance = 99
	if Presets["loop"].Components[0].Resistance == 99 {
		t.Error("GetPreset must return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}
