package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/letterfall/internal/analysis"
	"github.com/san-kum/letterfall/internal/automation"
	"github.com/san-kum/letterfall/internal/config"
	"github.com/san-kum/letterfall/internal/experiment"
	"github.com/san-kum/letterfall/internal/export"
	"github.com/san-kum/letterfall/internal/gui"
	"github.com/san-kum/letterfall/internal/menu"
	"github.com/san-kum/letterfall/internal/optim"
	"github.com/san-kum/letterfall/internal/server"
	"github.com/san-kum/letterfall/internal/sim"
	"github.com/san-kum/letterfall/internal/storage"
	"github.com/san-kum/letterfall/internal/tui"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	preset   string
	labels   []string
	font     string
	dt       float64
	duration float64
	seed     int64
	force    float64

	scriptFile  string
	metricNames []string
	runs        int

	addr         string
	plotField    string
	analyzeField string
	limit        int
	svgLimit     int
	xy           bool
	svgFile      string
	sweeps       []string
	metric       string
	maximize     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "letterfall",
		Short:         "physics-driven navigation menus",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".letterfall", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	menuFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [variant]",
		Short: "open the menu in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	menuFlags(guiCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui [variant]",
		Short: "render the menu in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
	menuFlags(tuiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [variant]",
		Short: "stream the menu to browsers over a websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	menuFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run the menu headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	menuFlags(runCmd)
	runFlags(runCmd)
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final frame as SVG")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [variant]",
		Short: "run several seeds concurrently and compare metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	menuFlags(ensembleCmd)
	runFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot letter trajectories of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "y", "letter coordinate to plot (x, y, angle)")
	plotCmd.Flags().IntVar(&limit, "limit", 6, "maximum number of letters to plot")
	plotCmd.Flags().BoolVar(&xy, "xy", false, "plot each letter's path in the x/y plane")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "swing frequency and settle time per letter",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeField, "field", "angle", "letter coordinate to analyze (x, y, angle)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export letter paths of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgLimit, "limit", 0, "maximum number of letters (0 for all)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [variant]",
		Short: "grid search over variant overrides",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	menuFlags(sweepCmd)
	runFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweeps, "param", nil, "parameter range, e.g. force=10,25,50 (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "peak_energy", "metric to rank by")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "rank by the largest value")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	variantsCmd := &cobra.Command{
		Use:   "variants",
		Short: "list menu variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range menu.Variants() {
				fmt.Println(name)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list available presets for a variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for variant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(guiCmd, tuiCmd, serveCmd, runCmd, ensembleCmd, sweepCmd, listCmd, showCmd,
		plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, variantsCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func menuFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "menu labels")
	cmd.Flags().StringVar(&font, "font", "", "font source (builtin name, path or url)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&force, "force", 0, "override the click impulse strength")
}

func runFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&scriptFile, "script", "", "pointer script (yaml)")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default all)")
}

func newLogger(w *os.File) (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "letterfall",
	}), nil
}

// resolveConfig layers the config file, the preset and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Variant = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Variant, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Variant))
		}
		cfg.Duration = p.Duration
		cfg.Overrides = p.Overrides
	}

	flags := cmd.Flags()
	if flags.Changed("labels") {
		cfg.Labels = labels
	}
	if flags.Changed("font") {
		cfg.Font = font
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("force") {
		f := force
		cfg.Overrides.Force = &f
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGUI(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	m, fnt, err := experiment.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return gui.Run(ctx, gui.Options{
		Menu:   m,
		Font:   fnt,
		Dt:     cfg.Dt,
		Width:  int(cfg.Viewport.Width),
		Height: int(cfg.Viewport.Height),
		Logger: logger,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the program, so logs go to a file.
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(dataDir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	m, _, err := experiment.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{Menu: m, Dt: cfg.Dt, Logger: logger})
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	m, _, err := experiment.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	s := server.New(m, server.Options{
		Addr:   addr,
		Dt:     cfg.Dt,
		Labels: cfg.Labels,
		Logger: logger,
	})
	return s.Run(ctx)
}

func loadScript() (*automation.Script, error) {
	if scriptFile == "" {
		return nil, nil
	}
	return automation.LoadScript(scriptFile)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	script, err := loadScript()
	if err != nil {
		return err
	}
	metrics, err := experiment.NewRegistry().Metrics(metricNames)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(ctx, script, metrics); err != nil {
		return err
	}

	fmt.Printf("running %s menu...\n", cfg.Variant)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Info(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("events: %d\n", len(result.Events))
	fmt.Println("\nmetrics:")
	for _, m := range metrics {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}

	if svgFile != "" {
		f, err := os.Create(svgFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.Snapshot(f, exp.Menu()); err != nil {
			return err
		}
		fmt.Printf("\nsnapshot: %s\n", svgFile)
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	script, err := loadScript()
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if _, err := registry.Metrics(metricNames); err != nil {
		return err
	}
	if runs <= 0 {
		return fmt.Errorf("runs must be positive")
	}

	ctx, cancel := signalContext()
	defer cancel()

	factory := func(s int64) (*sim.Simulator, error) {
		c := *cfg
		c.Seed = s
		metrics, err := registry.Metrics(metricNames)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(&c, logger)
		if err := exp.Setup(ctx, script, metrics); err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}

	start := time.Now()
	results, err := sim.NewEnsemble(factory, runs, cfg.Seed).Run(ctx, sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d runs of %s in %v\n\n", runs, cfg.Variant, time.Since(start))

	names := metricNames
	if len(names) == 0 {
		names = registry.ListMetrics()
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for i, res := range results {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = fmt.Sprintf("%.4f", res.Metrics[name])
		}
		fmt.Fprintf(w, "%d\t%s\n", cfg.Seed+int64(i), strings.Join(row, "\t"))
	}
	return w.Flush()
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tDURATION\tDT\tLABELS\tSCRIPT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			strings.Join(run.Labels, ","),
			run.Script,
		)
	}
	return w.Flush()
}

func checkField(f string) error {
	switch f {
	case "x", "y", "angle":
		return nil
	}
	return fmt.Errorf("unknown field: %s", f)
}

func loadRun(runID string) (*storage.RunMetadata, *storage.FrameTable, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	table, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(table.Rows) == 0 {
		return nil, nil, fmt.Errorf("no frames recorded for run %s", runID)
	}
	return meta, table, nil
}

// letterColumns returns the column prefix of every letter, in file order.
func letterColumns(table *storage.FrameTable) []string {
	var out []string
	for _, col := range table.Columns {
		if prefix, ok := strings.CutSuffix(col, "_x"); ok {
			out = append(out, prefix)
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if err := checkField(plotField); err != nil {
		return err
	}
	meta, table, err := loadRun(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", len(table.Rows))

	plotted := 0
	for _, prefix := range letterColumns(table) {
		if plotted >= limit {
			break
		}
		if xy {
			xs, _ := table.Column(prefix + "_x")
			ys, _ := table.Column(prefix + "_y")
			fmt.Printf("%s path\n", prefix)
			fmt.Println(analysis.TrajectoryToASCII(analysis.Trajectory(xs, ys), 70, 20))
			plotted++
			continue
		}

		col := prefix + "_" + plotField
		data, ok := table.Column(col)
		if !ok || len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", col)),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("no letters to plot in run %s", runID)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if err := checkField(analyzeField); err != nil {
		return err
	}
	meta, table, err := loadRun(runID)
	if err != nil {
		return err
	}

	sampleDt := meta.Dt
	if len(table.Times) > 1 {
		sampleDt = table.Times[1] - table.Times[0]
	}

	fmt.Printf("analysis: %s (%s, %s)\n\n", meta.ID, meta.Variant, analyzeField)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LETTER\tMIN\tMAX\tFREQ\tPERIOD\tSETTLED\tCROSSINGS")
	for _, prefix := range letterColumns(table) {
		data, ok := table.Column(prefix + "_" + analyzeField)
		if !ok || len(data) == 0 {
			continue
		}
		lo, hi := analysis.Range(data)
		freq, period := "-", "-"
		if f, ok := analysis.DominantFrequency(data, sampleDt); ok {
			freq = fmt.Sprintf("%.3fhz", f)
			period = fmt.Sprintf("%.3fs", 1/f)
		}
		settled := "-"
		if t, ok := analysis.SettleTime(table.Times, data, 0.01*(hi-lo)+1e-6); ok {
			settled = fmt.Sprintf("%.2fs", t)
		}
		mean := (lo + hi) / 2
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%s\t%s\t%s\t%d\n",
			prefix, lo, hi, freq, period, settled, analysis.Crossings(data, mean))
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, table, err := loadRun(args[0])
	if err != nil {
		return err
	}
	var series []export.Series
	for _, prefix := range letterColumns(table) {
		if svgLimit > 0 && len(series) >= svgLimit {
			break
		}
		xs, _ := table.Column(prefix + "_x")
		ys, _ := table.Column(prefix + "_y")
		series = append(series, export.Series{Name: prefix, Points: analysis.Trajectory(xs, ys)})
	}
	return export.TrajectoriesToSVG(os.Stdout, series, 800, 600)
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(sweeps) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.Params)
	}
	names := make([]string, 0, len(sweeps))
	ranges := make([][]float64, 0, len(sweeps))
	for _, s := range sweeps {
		name, values, err := optim.ParseRange(s)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	script, err := loadScript()
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metric); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		c := *base
		if err := optim.Apply(&c, params); err != nil {
			return nil, err
		}
		m, err := registry.Metrics(metricNames)
		if err != nil {
			return nil, err
		}
		if len(metricNames) > 0 && !slices.Contains(metricNames, metric) {
			extra, _ := registry.GetMetric(metric)
			m = append(m, extra)
		}
		exp := experiment.New(&c, logger)
		if err := exp.Setup(ctx, script, m); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	}

	fmt.Printf("sweeping %d configurations of %s...\n\n", grid.Size(), base.Variant)
	trials, err := grid.Search(ctx, run, metric, maximize)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\t%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for i, t := range trials {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = fmt.Sprintf("%g", t.Params[name])
		}
		value := fmt.Sprintf("%.6f", t.Value)
		if t.Err != nil {
			value = "error: " + t.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, strings.Join(row, "\t"), value)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
