package config

import (
	"math"
	"sort"
)

const (
	lowResistance  = 0.01
	highResistance = 1.0
	batteryVoltage = 1.0
)

func wire(start, stop [2]float64, path string, r float64) ComponentConfig {
	return ComponentConfig{Kind: "wire", Start: start, Stop: stop, Path: path, Resistance: r}
}

func battery(start, stop [2]float64, path string, v float64) ComponentConfig {
	return ComponentConfig{Kind: "voltage_source", Start: start, Stop: stop, Path: path, Voltage: v}
}

// arc converts a quarter-turn grid column of a 101 wide polar world to an angle.
func arc(k float64) float64 { return k * math.Pi / (2 * DefaultShape) }

var Presets = map[string]*Config{
	"loop": {
		Name:        "loop",
		Description: "single battery loop with two resistive segments",
		Shape:       [2]int{101, 101},
		Coordinates: "cartesian",
		Ground:      [2]float64{40, 26},
		Increment:   DefaultIncrement,
		Iterations:  DefaultIterations,
		Components: []ComponentConfig{
			wire([2]float64{26, 26}, [2]float64{26, 74}, "vertical", lowResistance),
			wire([2]float64{26, 74}, [2]float64{60, 74}, "horizontal", lowResistance),
			wire([2]float64{60, 74}, [2]float64{74, 74}, "horizontal", highResistance),
			wire([2]float64{74, 74}, [2]float64{74, 40}, "vertical", lowResistance),
			wire([2]float64{74, 40}, [2]float64{74, 26}, "vertical", highResistance),
			wire([2]float64{74, 26}, [2]float64{40, 26}, "horizontal", lowResistance),
			battery([2]float64{40, 26}, [2]float64{26, 26}, "horizontal", batteryVoltage),
		},
	},
	"ladder": {
		Name:        "ladder",
		Description: "three mesh ladder driven by two batteries",
		Shape:       [2]int{101, 101},
		Coordinates: "cartesian",
		Ground:      [2]float64{20, 45},
		Increment:   DefaultIncrement,
		Iterations:  DefaultIterations,
		Components: []ComponentConfig{
			wire([2]float64{20, 20}, [2]float64{20, 45}, "vertical", lowResistance),
			battery([2]float64{20, 45}, [2]float64{20, 60}, "vertical", batteryVoltage),
			wire([2]float64{20, 60}, [2]float64{20, 80}, "vertical", lowResistance),
			wire([2]float64{20, 80}, [2]float64{40, 80}, "horizontal", lowResistance),

			wire([2]float64{40, 80}, [2]float64{40, 60}, "vertical", lowResistance),
			wire([2]float64{40, 60}, [2]float64{40, 45}, "vertical", highResistance),
			wire([2]float64{40, 45}, [2]float64{40, 20}, "vertical", lowResistance),
			wire([2]float64{40, 20}, [2]float64{20, 20}, "horizontal", lowResistance),

			wire([2]float64{40, 80}, [2]float64{60, 80}, "horizontal", lowResistance),
			wire([2]float64{60, 80}, [2]float64{60, 60}, "vertical", lowResistance),
			wire([2]float64{60, 60}, [2]float64{60, 45}, "vertical", highResistance),
			wire([2]float64{60, 45}, [2]float64{60, 20}, "vertical", lowResistance),
			wire([2]float64{60, 20}, [2]float64{40, 20}, "horizontal", lowResistance),

			wire([2]float64{60, 20}, [2]float64{80, 20}, "horizontal", lowResistance),
			wire([2]float64{80, 20}, [2]float64{80, 45}, "vertical", lowResistance),
			battery([2]float64{80, 45}, [2]float64{80, 60}, "vertical", batteryVoltage),
			wire([2]float64{80, 60}, [2]float64{80, 80}, "vertical", lowResistance),
			wire([2]float64{80, 80}, [2]float64{60, 80}, "horizontal", lowResistance),
		},
	},
	"polar-arc": {
		Name:        "polar-arc",
		Description: "annular sector loop on a polar grid",
		Shape:       [2]int{101, 101},
		Coordinates: "polar",
		Ground:      [2]float64{40, arc(40)},
		Increment:   DefaultIncrement,
		Iterations:  DefaultIterations,
		Components: []ComponentConfig{
			wire([2]float64{40, arc(15)}, [2]float64{40, arc(40)}, "tangential", lowResistance),
			battery([2]float64{40, arc(40)}, [2]float64{40, arc(50)}, "tangential", batteryVoltage),
			wire([2]float64{40, arc(50)}, [2]float64{40, arc(75)}, "tangential", lowResistance),
			wire([2]float64{40, arc(75)}, [2]float64{60, arc(75)}, "radial", lowResistance),
			wire([2]float64{60, arc(75)}, [2]float64{60, arc(50)}, "tangential", lowResistance),
			wire([2]float64{60, arc(50)}, [2]float64{60, arc(40)}, "tangential", highResistance),
			wire([2]float64{60, arc(40)}, [2]float64{60, arc(15)}, "tangential", lowResistance),
			wire([2]float64{60, arc(15)}, [2]float64{40, arc(15)}, "radial", lowResistance),
		},
	},
	"parallel": {
		Name:        "parallel",
		Description: "battery feeding two resistors in parallel",
		Shape:       [2]int{101, 101},
		Coordinates: "cartesian",
		Ground:      [2]float64{20, 30},
		Increment:   DefaultIncrement,
		Iterations:  DefaultIterations,
		Components: []ComponentConfig{
			battery([2]float64{20, 30}, [2]float64{20, 70}, "vertical", batteryVoltage),
			wire([2]float64{20, 70}, [2]float64{50, 70}, "horizontal", lowResistance),
			wire([2]float64{50, 70}, [2]float64{50, 30}, "vertical", highResistance),
			wire([2]float64{50, 30}, [2]float64{20, 30}, "horizontal", lowResistance),
			wire([2]float64{50, 70}, [2]float64{80, 70}, "horizontal", lowResistance),
			wire([2]float64{80, 70}, [2]float64{80, 30}, "vertical", 2*highResistance),
			wire([2]float64{80, 30}, [2]float64{50, 30}, "horizontal", lowResistance),
		},
	},
	"current-source": {
		Name:        "current-source",
		Description: "ideal current source driving a resistive loop",
		Shape:       [2]int{101, 101},
		Coordinates: "cartesian",
		Ground:      [2]float64{30, 30},
		Increment:   DefaultIncrement,
		Iterations:  DefaultIterations,
		Components: []ComponentConfig{
			{Kind: "current_source", Start: [2]float64{30, 30}, Stop: [2]float64{30, 70}, Path: "vertical", Current: 0.5},
			wire([2]float64{30, 70}, [2]float64{70, 70}, "horizontal", lowResistance),
			wire([2]float64{70, 70}, [2]float64{70, 30}, "vertical", 2*highResistance),
			wire([2]float64{70, 30}, [2]float64{30, 30}, "horizontal", lowResistance),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
