package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

type rgb struct{ r, g, b float64 }

// Theme is a colour map for terminal heat maps. Stops are spread evenly over
// [0, 1].
type Theme struct {
	Name  string
	Stops []rgb
	// Signed themes put their middle stop at zero.
	Signed bool
}

var (
	ThemeHeat = Theme{
		Name:  "heat",
		Stops: []rgb{{0, 0, 0}, {128, 0, 0}, {255, 64, 0}, {255, 200, 0}, {255, 255, 224}},
	}

	ThemeDiverging = Theme{
		Name:   "diverging",
		Stops:  []rgb{{40, 70, 200}, {140, 180, 255}, {235, 235, 235}, {255, 150, 120}, {200, 30, 30}},
		Signed: true,
	}

	ThemeOcean = Theme{
		Name:  "ocean",
		Stops: []rgb{{0, 26, 51}, {0, 119, 190}, {0, 168, 204}, {224, 240, 255}},
	}

	ThemeRetroGreen = Theme{
		Name:  "retro",
		Stops: []rgb{{0, 17, 0}, {0, 85, 0}, {0, 204, 0}, {136, 255, 136}},
	}

	Themes = []Theme{
		ThemeHeat,
		ThemeDiverging,
		ThemeOcean,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name, falling back to heat.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeHeat
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// AutoTheme picks diverging for fields with both signs and heat otherwise.
func AutoTheme(lo, hi float64) Theme {
	if lo < 0 && hi > 0 {
		return ThemeDiverging
	}
	return ThemeHeat
}

// Color maps t in [0, 1] onto the theme by linear interpolation between
// neighbouring stops. NaN maps to the first stop.
func (th Theme) Color(t float64) lipgloss.Color {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	n := len(th.Stops) - 1
	if n <= 0 {
		return lipgloss.Color("#ffffff")
	}
	pos := t * float64(n)
	k := int(pos)
	if k >= n {
		k = n - 1
	}
	frac := pos - float64(k)
	a, b := th.Stops[k], th.Stops[k+1]
	return hexColor(
		a.r+frac*(b.r-a.r),
		a.g+frac*(b.g-a.g),
		a.b+frac*(b.b-a.b),
	)
}

// Normalize maps v into [0, 1] over [lo, hi]. Signed themes are centred on
// zero so that equal magnitudes of either sign get mirrored colours.
func (th Theme) Normalize(v, lo, hi float64) float64 {
	if th.Signed {
		m := math.Max(math.Abs(lo), math.Abs(hi))
		if m == 0 {
			return 0.5
		}
		return 0.5 + 0.5*v/m
	}
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func hexColor(r, g, b float64) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", clampByte(r), clampByte(g), clampByte(b)))
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(math.Round(v))
}
