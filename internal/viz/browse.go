package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/world"
)

const (
	defaultMapWidth  = 60
	defaultMapHeight = 24
	// rows taken by the header, metrics and key hints
	chromeRows = 8
)

type browser struct {
	fields   *world.Fields
	grid     *field.Grid
	names    []string
	cursor   int
	theme    int // -1 selects the automatic theme
	i, j     int
	mapW     int
	mapH     int
	quitting bool
}

// NewBrowser returns the bubbletea model behind Browse. The probe starts at
// the grid centre.
func NewBrowser(fields *world.Fields, g *field.Grid) tea.Model {
	n1, n2 := g.Shape()
	return browser{
		fields: fields,
		grid:   g,
		names:  world.ScalarNames,
		theme:  -1,
		i:      n1 / 2,
		j:      n2 / 2,
		mapW:   defaultMapWidth,
		mapH:   defaultMapHeight,
	}
}

// Browse runs an interactive full screen field browser.
func Browse(fields *world.Fields, g *field.Grid) error {
	_, err := tea.NewProgram(NewBrowser(fields, g), tea.WithAltScreen()).Run()
	return err
}

func (m browser) Init() tea.Cmd { return nil }

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.mapW = max(msg.Width-4, 8)
		m.mapH = max(msg.Height-chromeRows, 4)
	}
	return m, nil
}

func (m browser) handleKey(msg tea.KeyMsg) (browser, tea.Cmd) {
	n1, n2 := m.grid.Shape()
	s1, s2 := m.steps()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "n":
		m.cursor = (m.cursor + 1) % len(m.names)
	case "shift+tab", "p":
		m.cursor = (m.cursor + len(m.names) - 1) % len(m.names)
	case "t":
		m.theme++
		if m.theme >= len(Themes) {
			m.theme = -1
		}
	case "left", "h":
		m.i = max(m.i-s1, 0)
	case "right", "l":
		m.i = min(m.i+s1, n1-1)
	case "down", "j":
		m.j = max(m.j-s2, 0)
	case "up", "k":
		m.j = min(m.j+s2, n2-1)
	}
	return m, nil
}

// steps returns the probe step per key press so that every press moves the
// marker by one character.
func (m browser) steps() (int, int) {
	n1, n2 := m.grid.Shape()
	w, h := min(m.mapW, n1), min(m.mapH, n2)
	return (n1 + w - 1) / w, (n2 + h - 1) / h
}

func (m browser) View() string {
	if m.quitting {
		return ""
	}
	name := m.names[m.cursor]
	f, err := m.fields.Scalar(name)
	if err != nil {
		return Warning.Render(err.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString(Title.Render("EMSIM") + "  " + Subtle.Render("field browser") + "\n")
	b.WriteString(Separator(min(m.mapW, 60)) + "\n")

	opts := HeatmapOptions{Legend: true}
	opts.Probe.I, opts.Probe.J, opts.Probe.Show = m.i, m.j, true
	if m.theme >= 0 {
		opts.Theme = &Themes[m.theme]
	}
	b.WriteString(HeatmapWith(f, m.mapW, m.mapH, opts))

	at := m.grid.Coordinate(m.i, m.j)
	b.WriteString(strings.Join([]string{
		Metric("field", name),
		Metric("probe", fmt.Sprintf("[%d,%d] %s", m.i, m.j, at)),
		Metric("value", fmt.Sprintf("%.6g", f.At(m.i, m.j))),
	}, "  ") + "\n")
	if m.fields.MagneticFallback && (name == "bz" || strings.HasPrefix(name, "s")) {
		b.WriteString(Warning.Render("magnetic field unavailable for this coordinate system; shown as zero") + "\n")
	}
	b.WriteString(Keys("tab/n", "next", "p", "prev", "hjkl", "probe", "t", "theme", "q", "quit") + "\n")
	return b.String()
}
