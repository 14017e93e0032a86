package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
	"github.com/san-kum/emsim/internal/world"
)

const (
	metadataFile = "metadata.json"
	fieldsFile   = "fields.csv"
)

var fieldsHeader = []string{
	"i", "j", "q1", "q2",
	"voltage", "potential",
	"ex", "ey",
	"ix", "iy",
	"bz",
	"sx", "sy", "sz",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ComponentRecord struct {
	Kind    string     `json:"kind"`
	Label   string     `json:"label"`
	Start   [2]float64 `json:"start"`
	Stop    [2]float64 `json:"stop"`
	Value   float64    `json:"value"`
	Current float64    `json:"current"`
}

type NodeRecord struct {
	ID        int        `json:"id"`
	Position  [2]float64 `json:"position"`
	Potential float64    `json:"potential"`
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Timestamp        time.Time          `json:"timestamp"`
	Shape            [2]int             `json:"shape"`
	Coordinates      string             `json:"coordinates"`
	Minimum          [2]float64         `json:"minimum"`
	Maximum          [2]float64         `json:"maximum"`
	DeltaQ1          float64            `json:"delta_q1"`
	DeltaQ2          float64            `json:"delta_q2"`
	Iterations       int                `json:"iterations"`
	ElapsedMs        float64            `json:"elapsed_ms"`
	MagneticFallback bool               `json:"magnetic_fallback,omitempty"`
	Components       []ComponentRecord  `json:"components"`
	Nodes            []NodeRecord       `json:"nodes"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Save writes a computed world as a new run and returns its id.
func (s *Store) Save(name string, w *world.World, fields *world.Fields, iterations int) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := newMetadata(runID, name, w, fields, iterations)

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, fieldsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	cw := csv.NewWriter(csvFile)
	if err := cw.Write(fieldsHeader); err != nil {
		return "", err
	}

	grid := w.Grid()
	n1, n2 := grid.Shape()
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			e := fields.Electric.At(i, j)
			c := fields.Current.At(i, j)
			b := fields.Magnetic.At(i, j)
			sv := fields.EnergyFlux.At(i, j)
			row := []string{
				strconv.Itoa(i), strconv.Itoa(j),
				format(grid.Q1[i]), format(grid.Q2[j]),
				format(fields.Voltage.At(i, j)), format(fields.Potential.At(i, j)),
				format(e[0]), format(e[1]),
				format(c[0]), format(c[1]),
				format(b[2]),
				format(sv[0]), format(sv[1]), format(sv[2]),
			}
			if err := cw.Write(row); err != nil {
				return "", err
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func newMetadata(runID, name string, w *world.World, fields *world.Fields, iterations int) RunMetadata {
	sol := w.Solution()
	c := w.Circuit()
	shape := w.Shape()
	minimum, maximum := w.Minimum(), w.Maximum()

	meta := RunMetadata{
		ID:               runID,
		Name:             name,
		Timestamp:        time.Now(),
		Shape:            shape,
		Coordinates:      w.CoordinateSystem().String(),
		Minimum:          [2]float64{minimum.Q1, minimum.Q2},
		Maximum:          [2]float64{maximum.Q1, maximum.Q2},
		DeltaQ1:          w.DeltaQ1(),
		DeltaQ2:          w.DeltaQ2(),
		Iterations:       iterations,
		ElapsedMs:        float64(fields.Elapsed.Microseconds()) / 1000,
		MagneticFallback: fields.MagneticFallback,
		Metrics:          Summarize(fields),
	}

	for idx, comp := range c.Components() {
		meta.Components = append(meta.Components, ComponentRecord{
			Kind:    comp.Kind().String(),
			Label:   comp.Label(),
			Start:   [2]float64{comp.Start().Q1, comp.Start().Q2},
			Stop:    [2]float64{comp.Stop().Q1, comp.Stop().Q2},
			Value:   comp.Value(),
			Current: sol.Current(idx),
		})
	}
	for _, n := range c.Nodes() {
		meta.Nodes = append(meta.Nodes, NodeRecord{
			ID:        n.ID,
			Position:  [2]float64{n.Position.Q1, n.Position.Q2},
			Potential: sol.Potential(n.ID),
		})
	}
	return meta
}

// Summarize reduces the fields of a run to a few headline numbers.
func Summarize(f *world.Fields) map[string]float64 {
	e := f.Electric.Magnitude()
	bz := f.Magnetic.Z()
	return map[string]float64{
		"potential_min": f.Potential.Min(),
		"potential_max": f.Potential.Max(),
		"e_max":         e.Max(),
		"bz_min":        bz.Min(),
		"bz_max":        bz.Max(),
		"flux_max":      f.EnergyFlux.Magnitude().Max(),
	}
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(a, b int) bool { return runs[a].Timestamp.After(runs[b].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFields rebuilds the grid and fields of a saved run.
func (s *Store) LoadFields(runID string) (*world.Fields, *field.Grid, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	grid, err := field.NewGrid(meta.Shape[0], meta.Shape[1],
		maxwell.Position{Q1: meta.Minimum[0], Q2: meta.Minimum[1]},
		maxwell.Position{Q1: meta.Maximum[0], Q2: meta.Maximum[1]})
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, fieldsFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(fieldsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	n1, n2 := meta.Shape[0], meta.Shape[1]
	f := &world.Fields{
		Voltage:          field.NewScalarField(n1, n2),
		Potential:        field.NewScalarField(n1, n2),
		Electric:         field.NewVectorField(n1, n2, 2),
		Current:          field.NewVectorField(n1, n2, 2),
		Magnetic:         field.NewVectorField(n1, n2, 3),
		EnergyFlux:       field.NewVectorField(n1, n2, 3),
		MagneticFallback: meta.MagneticFallback,
		Elapsed:          time.Duration(meta.ElapsedMs * float64(time.Millisecond)),
	}

	for line, record := range records[min(1, len(records)):] {
		vals := make([]float64, len(record))
		for k, raw := range record {
			if vals[k], err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", fieldsFile, line+2, err)
			}
		}
		i, j := int(vals[0]), int(vals[1])
		if i < 0 || i >= n1 || j < 0 || j >= n2 {
			return nil, nil, fmt.Errorf("%w: cell (%d,%d) outside %dx%d", maxwell.ErrShapeMismatch, i, j, n1, n2)
		}
		f.Voltage.Set(i, j, vals[4])
		f.Potential.Set(i, j, vals[5])
		f.Electric.Set(i, j, vals[6], vals[7])
		f.Current.Set(i, j, vals[8], vals[9])
		f.Magnetic.Set(i, j, 0, 0, vals[10])
		f.EnergyFlux.Set(i, j, vals[11], vals[12], vals[13])
	}

	return f, grid, nil
}
