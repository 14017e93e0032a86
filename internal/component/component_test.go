package component

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/emsim/internal/maxwell"
)

func pos(q1, q2 float64) maxwell.Position { return maxwell.Position{Q1: q1, Q2: q2} }

func TestNewWire(t *testing.T) {
	w, err := NewWire(pos(26, 26), pos(26, 74), Vertical, 0.01)
	if err != nil {
		t.Fatalf("new wire: %v", err)
	}
	if w.Kind() != Wire {
		t.Errorf("expected kind wire, got %s", w.Kind())
	}
	if w.Resistance() != 0.01 {
		t.Errorf("expected resistance 0.01, got %f", w.Resistance())
	}
	if w.Voltage() != 0 {
		t.Errorf("wire should have no voltage, got %f", w.Voltage())
	}
	if w.Label() != "R=0.01Ω" {
		t.Errorf("unexpected default label %q", w.Label())
	}
}

func TestPathContract(t *testing.T) {
	tests := []struct {
		name  string
		start maxwell.Position
		stop  maxwell.Position
		path  PathFunc
		ok    bool
	}{
		{"vertical on vertical span", pos(0, 0), pos(0, 10), Vertical, true},
		{"horizontal on vertical span", pos(0, 0), pos(0, 10), Horizontal, false},
		{"straight on diagonal", pos(1, 1), pos(5, 9), Straight, true},
		{"offset origin", pos(0, 0), pos(10, 0), func(d maxwell.Vec2) maxwell.Vec2 {
			return maxwell.Vec2{Q1: d.Q1, Q2: 1}
		}, false},
		{"within tolerance", pos(0, 0), pos(10, 0), func(d maxwell.Vec2) maxwell.Vec2 {
			return maxwell.Vec2{Q1: d.Q1 + 0.05, Q2: 0}
		}, true},
		{"nan path", pos(0, 0), pos(10, 0), func(d maxwell.Vec2) maxwell.Vec2 {
			return maxwell.Vec2{Q1: math.NaN()}
		}, false},
		{"nil path", pos(0, 0), pos(10, 0), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWire(tt.start, tt.stop, tt.path, 1)
			if tt.ok && err != nil {
				t.Errorf("expected success, got %v", err)
			}
			if !tt.ok && !errors.Is(err, maxwell.ErrPathContract) {
				t.Errorf("expected ErrPathContract, got %v", err)
			}
		})
	}
}

func TestInvalidValues(t *testing.T) {
	if _, err := NewWire(pos(0, 0), pos(1, 0), Horizontal, -1); !errors.Is(err, maxwell.ErrInvalidParameter) {
		t.Errorf("negative resistance: expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewVoltageSource(pos(0, 0), pos(1, 0), Horizontal, math.Inf(1)); !errors.Is(err, maxwell.ErrInvalidParameter) {
		t.Errorf("infinite voltage: expected ErrInvalidParameter, got %v", err)
	}
	if _, err := New(Kind(9), pos(0, 0), pos(1, 0), Horizontal, 1); !errors.Is(err, maxwell.ErrInvalidParameter) {
		t.Errorf("unknown kind: expected ErrInvalidParameter, got %v", err)
	}
}

func TestCurrentSourceIsFixed(t *testing.T) {
	cs, err := NewCurrentSource(pos(0, 0), pos(0, 5), Vertical, 0.5)
	if err != nil {
		t.Fatalf("new current source: %v", err)
	}

	if v, ok := cs.FixedCurrent(); !ok || v != 0.5 {
		t.Errorf("expected fixed current 0.5, got %f (%v)", v, ok)
	}
	if err := cs.CheckCurrent(0.5 + 1e-12); err != nil {
		t.Errorf("same current should be accepted, got %v", err)
	}
	if err := cs.CheckCurrent(0.7); !errors.Is(err, maxwell.ErrCurrentSourceConflict) {
		t.Errorf("expected ErrCurrentSourceConflict, got %v", err)
	}

	w, _ := NewWire(pos(0, 0), pos(0, 5), Vertical, 1)
	if err := w.CheckCurrent(42); err != nil {
		t.Errorf("wires accept any current, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	v, err := NewVoltageSource(pos(40, 0.6), pos(40, 0.8), Tangential, 1,
		WithLabel("battery"), WithVariables("r", "theta"))
	if err != nil {
		t.Fatalf("new voltage source: %v", err)
	}
	if v.Label() != "battery" {
		t.Errorf("expected label battery, got %q", v.Label())
	}
	if v.Variables() != [2]string{"r", "theta"} {
		t.Errorf("unexpected variables %v", v.Variables())
	}
}

func TestPathByName(t *testing.T) {
	for _, name := range PathNames() {
		if _, err := PathByName(name); err != nil {
			t.Errorf("path %q: %v", name, err)
		}
	}
	if _, err := PathByName("spiral"); !errors.Is(err, maxwell.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	fn, _ := PathByName("")
	if got := fn(maxwell.Vec2{Q1: 1, Q2: 2}); got != (maxwell.Vec2{Q1: 1, Q2: 2}) {
		t.Errorf("empty name should be straight, got %v", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"wire", Wire},
		{"voltage_source", VoltageSource},
		{"current", CurrentSource},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseKind("capacitor"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
