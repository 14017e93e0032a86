package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/emsim/internal/config"
	"github.com/san-kum/emsim/internal/export"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/maxwell"
	"github.com/san-kum/emsim/internal/storage"
	"github.com/san-kum/emsim/internal/viz"
	"github.com/san-kum/emsim/internal/world"
	"github.com/spf13/cobra"
)

const defaultPreset = "loop"

var (
	dataDir string
	verbose bool
	logger  *slog.Logger
	// run
	configFile string
	iterations int
	workers    int
	noSave     bool
	// views
	fieldName    string
	width        int
	height       int
	canvasWidth  int
	canvasHeight int
	themeName    string
	row          int
	column       int
	outFile      string
	maskCells    bool
	svgFile      string
	brailleSVG   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "emsim",
		Short:         "circuit driven electromagnetic field simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".emsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "solve a circuit and compute its fields",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWorld,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "relaxation iterations")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in circuits",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	circuitCmd := &cobra.Command{
		Use:   "circuit [preset]",
		Short: "draw and solve a circuit without computing fields",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showCircuit,
	}
	circuitCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	circuitCmd.Flags().IntVar(&canvasWidth, "width", 60, "canvas width in characters")
	circuitCmd.Flags().IntVar(&canvasHeight, "height", 20, "canvas height in characters")
	circuitCmd.Flags().StringVar(&svgFile, "svg", "", "write the component paths to an svg file")
	circuitCmd.Flags().StringVar(&brailleSVG, "braille-svg", "", "write the braille canvas to an svg file")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a field heat map",
		Args:  cobra.ExactArgs(1),
		RunE:  showField,
	}
	showCmd.Flags().StringVar(&fieldName, "field", "potential", "scalar field ("+strings.Join(world.ScalarNames, ", ")+")")
	showCmd.Flags().IntVar(&width, "width", 80, "map width in characters")
	showCmd.Flags().IntVar(&height, "height", 30, "map height in characters")
	showCmd.Flags().StringVar(&themeName, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	profileCmd := &cobra.Command{
		Use:   "profile [run_id]",
		Short: "plot one row or column of a field",
		Args:  cobra.ExactArgs(1),
		RunE:  profileField,
	}
	profileCmd.Flags().StringVar(&fieldName, "field", "potential", "scalar field")
	profileCmd.Flags().IntVar(&row, "row", -1, "q1 index (default: middle)")
	profileCmd.Flags().IntVar(&column, "column", -1, "q2 index; plots along q1 instead of a row")

	exportCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "export a field as a png plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportCmd.Flags().StringVar(&fieldName, "field", "potential", "scalar or vector field ("+strings.Join(world.VectorNames, ", ")+")")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>_<field>.png)")
	exportCmd.Flags().BoolVar(&maskCells, "mask", false, "hide conductor cells")

	browseCmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "interactive field browser",
		Args:  cobra.ExactArgs(1),
		RunE:  browseRun,
	}

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, circuitCmd, showCmd, profileCmd, exportCmd, browseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves --config or a preset name, in that order.
func loadConfig(args []string) (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	name := defaultPreset
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	return cfg, nil
}

func buildWorld(cfg *config.Config) (*world.World, error) {
	c, err := cfg.Build(logger)
	if err != nil {
		return nil, err
	}
	cs, err := cfg.CoordinateSystem()
	if err != nil {
		return nil, err
	}
	return world.New(c, cs, cfg.Shape, world.WithLogger(logger), world.WithWorkers(cfg.Workers))
}

func runWorld(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	// CLI flags override config
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations = iterations
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	w, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("%s  %dx%d %s grid, %d iterations\n",
		viz.Title.Render(cfg.Name), cfg.Shape[0], cfg.Shape[1], cfg.Coordinates, cfg.Iterations)

	fields, err := w.Compute(ctx, cfg.Iterations)
	if err != nil {
		return err
	}

	if err := printSolution(w); err != nil {
		return err
	}
	if err := printMetrics(storage.Summarize(fields)); err != nil {
		return err
	}
	fmt.Println(viz.Metric("elapsed", fields.Elapsed.String()))
	if fields.MagneticFallback {
		fmt.Println(viz.Warning.Render("magnetic field not available for " + cfg.Coordinates + " grids; B and S are zero"))
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Name, w, fields, cfg.Iterations)
	if err != nil {
		return err
	}
	fmt.Println(viz.Metric("saved", runID))
	return nil
}

func printSolution(w *world.World) error {
	sol := w.Solution()
	c := w.Circuit()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EDGE\tKIND\tSTART\tSTOP\tLABEL")
	for k, comp := range c.Components() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", k, comp.Kind(), comp.Start(), comp.Stop(), sol.Label(k))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "NODE\tPOSITION\tPOTENTIAL")
	for _, n := range c.Nodes() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", n.ID, n.Position, sol.NodeLabel(n.ID))
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func printMetrics(metrics map[string]float64) error {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%.6g\n", name, metrics[name])
	}
	return tw.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOORDS\tSHAPE\tCOMPONENTS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%s\n",
			name, cfg.Coordinates, cfg.Shape[0], cfg.Shape[1], len(cfg.Components), cfg.Description)
	}
	return tw.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTIME\tSHAPE\tCOORDS\tITER\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%s\t%d\t%.0fms\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Shape[0], run.Shape[1],
			run.Coordinates,
			run.Iterations,
			run.ElapsedMs,
		)
	}
	return tw.Flush()
}

func showCircuit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	w, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	canvas := viz.CircuitCanvas(w.Circuit(), w.Grid(), w.CoordinateSystem(), canvasWidth, canvasHeight)
	fmt.Println(viz.GlassPanel.Render(strings.TrimRight(canvas.String(), "\n")))
	if err := printSolution(w); err != nil {
		return err
	}
	fmt.Println(viz.Metric("residual", fmt.Sprintf("%.3g", w.Solution().Residual())))

	if svgFile != "" {
		svg := export.CircuitSVG(viz.ComponentPaths(w.Circuit(), w.CoordinateSystem()), 800, 800)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Println(viz.Metric("svg", svgFile))
	}
	if brailleSVG != "" {
		if err := os.WriteFile(brailleSVG, []byte(export.CanvasSVG(canvas, 4)), 0644); err != nil {
			return err
		}
		fmt.Println(viz.Metric("svg", brailleSVG))
	}
	return nil
}

func loadRun(runID string) (*storage.RunMetadata, *world.Fields, *field.Grid, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	fields, grid, err := st.LoadFields(runID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load fields %s: %w", runID, err)
	}
	return meta, fields, grid, nil
}

func showField(cmd *cobra.Command, args []string) error {
	_, fields, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	f, err := fields.Scalar(fieldName)
	if err != nil {
		return err
	}

	opts := viz.HeatmapOptions{Legend: true}
	if themeName != "" {
		theme := viz.GetTheme(themeName)
		opts.Theme = &theme
	}
	fmt.Println(viz.Title.Render(fieldName) + "  " + viz.Subtle.Render(args[0]))
	fmt.Print(viz.HeatmapWith(f, width, height, opts))
	return nil
}

func profileField(cmd *cobra.Command, args []string) error {
	_, fields, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}
	f, err := fields.Scalar(fieldName)
	if err != nil {
		return err
	}

	var graph string
	if column >= 0 {
		graph, err = viz.ColumnProfile(f, column, fmt.Sprintf("%s at q2=%.4g", fieldName, grid.Q2[min(column, len(grid.Q2)-1)]))
	} else {
		n1, _ := f.Shape()
		if row < 0 {
			row = n1 / 2
		}
		graph, err = viz.Profile(f, row, fmt.Sprintf("%s at q1=%.4g", fieldName, grid.Q1[min(row, n1-1)]))
	}
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	meta, fields, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := outFile
	if out == "" {
		out = fmt.Sprintf("%s_%s.png", args[0], fieldName)
	}

	var opts []export.Option
	if cs, err := maxwell.ParseCoordinateSystem(meta.Coordinates); err == nil && cs == maxwell.Polar {
		opts = append(opts, export.WithAxisLabels("r", "θ"))
	}
	if maskCells {
		opts = append(opts, export.WithMask(fields.Current.Magnitude()))
	}
	title := fmt.Sprintf("%s (%s)", fieldName, meta.Name)

	if slices.Contains(world.VectorNames, fieldName) {
		v, err := fields.Vector(fieldName)
		if err != nil {
			return err
		}
		err = export.VectorPNG(out, v, grid, title, opts...)
		if err != nil {
			return err
		}
	} else {
		f, err := fields.Scalar(fieldName)
		if err != nil {
			return err
		}
		if err := export.ScalarPNG(out, f, grid, title, opts...); err != nil {
			return err
		}
	}

	fmt.Println(viz.Metric("wrote", out))
	return nil
}

func browseRun(cmd *cobra.Command, args []string) error {
	_, fields, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return viz.Browse(fields, grid)
}
