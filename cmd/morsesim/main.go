package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/morsesim/internal/analysis"
	"github.com/san-kum/morsesim/internal/automation"
	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/experiment"
	"github.com/san-kum/morsesim/internal/export"
	"github.com/san-kum/morsesim/internal/metrics"
	"github.com/san-kum/morsesim/internal/optim"
	"github.com/san-kum/morsesim/internal/storage"
	"github.com/san-kum/morsesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	gridEdge       int
	spacing        float64
	padding        float64
	speedScale     float64
	tracked        int
	tauMultiplier  float64
	seed           int64
	steps          int
	sampleInterval int
	acceleration   string
	updateOrder    string

	// run
	quiet  bool
	noSave bool
	// live
	stepsPerFrame int
	theme         string
	// plot / analyze
	field string
	// export-json / export-svg / snapshot
	outFile string
	plane   string
	view    int
	// sweep
	sweepParams []string
	sweepMetric string
	// montecarlo
	trials int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "morsesim",
		Short: "Morse potential lattice relaxation",
		Long: "morsesim integrates a cubic lattice of particles interacting through a pairwise\n" +
			"Morse potential and reports kinetic energy, stress and a tracked trajectory.",
		RunE: runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".morsesim", "data directory")
	addSimFlags(rootCmd)
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-sample reports")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with the interactive terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addLiveFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "", "single field to plot (default: all)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a diagnostic series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&field, "field", "kinetic_energy", "series to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the tracked particle path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane: xy, xz or yz")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and render the final lattice as SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	addSimFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "lattice.svg", "output file")
	snapshotCmd.Flags().IntVar(&view, "view", 4, "camera preset 1-4")
	snapshotCmd.Flags().StringVar(&theme, "theme", viz.ThemeClassic.Name, "color theme")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over run parameters",
		Long: "sweep runs every combination of the given parameter values and reports the\n" +
			"final value of a metric. Parameters: " + strings.Join(optim.ParamNames(), ", ") + ".\n\n" +
			"  morsesim sweep --param tau=0.01,0.03,0.05 --param speed=1e-18,5e-18",
		Args: cobra.NoArgs,
		RunE: sweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "kinetic_energy", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of consecutive runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a run over random lattice seeds",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time every acceleration/update order combination",
		Args:  cobra.NoArgs,
		RunE:  benchIntegrators,
	}
	addSimFlags(benchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list material presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd,
		exportSVGCmd, snapshotCmd, sweepCmd, scenarioCmd, monteCarloCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", config.DefaultMaterial, "material preset")
	cmd.Flags().IntVar(&gridEdge, "grid", d.Lattice.GridEdge, "lattice edge length (N = grid³)")
	cmd.Flags().Float64Var(&spacing, "spacing", d.Lattice.Spacing, "lattice spacing (m)")
	cmd.Flags().Float64Var(&padding, "padding", d.Lattice.Padding, "box padding (m)")
	cmd.Flags().Float64Var(&speedScale, "speed", d.Lattice.InitialSpeedScale, "initial speed scale (m per step)")
	cmd.Flags().IntVar(&tracked, "track", d.TrackedParticle, "tracked particle index")
	cmd.Flags().Float64Var(&tauMultiplier, "tau", d.TauMultiplier, "tau multiplier [0.01, 0.05]")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&steps, "steps", d.Steps, "iterations for headless runs")
	cmd.Flags().IntVar(&sampleInterval, "interval", d.SampleInterval, "iterations between diagnostics")
	cmd.Flags().StringVar(&acceleration, "accel", d.Acceleration, "acceleration: second-derivative or newtonian")
	cmd.Flags().StringVar(&updateOrder, "order", d.UpdateOrder, "update order: snapshot or sequential")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 1, "iterations per rendered frame")
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeClassic.Name, "color theme")
}

// buildConfig layers preset, config file and explicitly set flags, in that
// order. Keys missing from the file keep the preset's values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("grid") {
		cfg.Lattice.GridEdge = gridEdge
	}
	if flags.Changed("spacing") {
		cfg.Lattice.Spacing = spacing
	}
	if flags.Changed("padding") {
		cfg.Lattice.Padding = padding
	}
	if flags.Changed("speed") {
		cfg.Lattice.InitialSpeedScale = speedScale
	}
	if flags.Changed("track") {
		cfg.TrackedParticle = tracked
	}
	if flags.Changed("tau") {
		cfg.TauMultiplier = tauMultiplier
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("interval") {
		cfg.SampleInterval = sampleInterval
	}
	if flags.Changed("accel") {
		cfg.Acceleration = acceleration
	}
	if flags.Changed("order") {
		cfg.UpdateOrder = updateOrder
	}
	if cfg.Seed == 0 || flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	exp.Summary(os.Stdout)
	fmt.Println()

	if !quiet {
		reporter := metrics.NewReporter(os.Stdout)
		exp.Sampler().OnReport(reporter.Write)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)

	fmt.Printf("iterations: %d (%.4e s simulated) in %s\n", result.Iterations, result.Time, elapsed.Round(time.Millisecond))
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %.6e\n", name, result.Metrics[name])
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, exp.Simulator().Dt(), exp.Simulator().State().BoxSize, result)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	if err := viz.Run(exp, stepsPerFrame, viz.GetTheme(theme)); err != nil {
		return err
	}

	st := exp.Simulator().State()
	fmt.Printf("stopped after %d iterations (%.4e s)\n", st.Iteration, st.Time)
	return exp.Simulator().Err()
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
	fmt.Fprintln(w, "ID\tMATERIAL\tTIME\tN\tITERS\tTAU\tACCEL\tORDER\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "diverged"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3es\t%s\t%s\t%s\n",
			run.ID,
			run.Config.Material.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Particles(),
			run.Iterations,
			run.Tau,
			run.Config.Acceleration,
			run.Config.UpdateOrder,
			status,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []metrics.Report, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	reports, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(reports) == 0 {
		return nil, nil, fmt.Errorf("no samples recorded for %s", runID)
	}
	return meta, reports, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, reports, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("material: %s\n", meta.Config.Material.Name)
	fmt.Printf("samples: %d\n\n", len(reports))

	names := []string{"kinetic_energy", "temperature", "stress_x", "tracked_x", "tracked_speed"}
	if field != "" {
		names = []string{field}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		f, ok := analysis.Fields[name]
		if !ok {
			return fmt.Errorf("unknown field: %s", name)
		}
		data := analysis.Column(reports, f)
		if len(data) > 1 {
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(name+" vs iteration"),
			))
			fmt.Println()
		}
		s := analysis.Summarize(data)
		fmt.Fprintf(w, "%s\tmean %.4e\tsd %.4e\tmin %.4e\tmax %.4e\n", name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	fmt.Println()
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, reports, err := loadRun(args[0])
	if err != nil {
		return err
	}
	f, ok := analysis.Fields[field]
	if !ok {
		return fmt.Errorf("unknown field: %s", field)
	}

	data := analysis.Detrend(analysis.Column(reports, f))
	sampleSpacing := float64(meta.Config.SampleInterval) * meta.Tau
	spectrum := analysis.PowerSpectrum(data)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("field: %s (%d samples, detrended)\n", field, len(data))

	if len(spectrum) > 1 {
		fmt.Println(asciigraph.Plot(spectrum[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+field+")"),
		))
	}

	freq, power := analysis.DominantFrequency(data, sampleSpacing)
	fmt.Printf("\nsample spacing: %.4e s\n", sampleSpacing)
	fmt.Printf("dominant frequency: %.4e Hz (magnitude %.4e)\n", freq, power)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		return st.ExportJSONFile(outFile, args[0])
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	p, ok := export.Planes[plane]
	if !ok {
		return fmt.Errorf("unknown plane: %s", plane)
	}
	_, reports, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(export.TrackedPath(reports, p), 800, 800, "#00ffff")
	if svg == "" {
		return fmt.Errorf("need at least two samples to draw a path")
	}
	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	cam := viz.NewCamera()
	cam.Preset(view)

	_, runErr := exp.Run(context.Background())
	svg := export.SceneToSVG(exp.Simulator(), cam, 100, 50, viz.GetTheme(theme))
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d iterations\n", outFile, exp.Simulator().State().Iteration)
	return runErr
}

func parseSweepParams(specs []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, item := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(item), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func sweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseSweepParams(sweepParams)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no --param given")
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, trials, err := g.Search(ctx, base, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tITERS\t%s\tSTATUS\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for _, t := range trials {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", t.Params[name])
		}
		status := "ok"
		if t.Err != nil {
			status = t.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%.4e\t%s\n", t.Iterations, t.Value, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		return fmt.Errorf("every trial failed")
	}
	fmt.Printf("\nbest %s = %.4e at %v\n", sweepMetric, best.Value, best.Params)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	outcomes, err := automation.RunScenario(ctx, sc, base, st, os.Stdout)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tMATERIAL\tITERS\tKE\tRUN\tSTATUS")
	for _, o := range outcomes {
		status := "ok"
		if o.Err != nil {
			status = "diverged"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4e\t%s\t%s\n",
			o.Step.Name, o.Config.Material.Name, o.Result.Iterations,
			o.Result.Metrics["kinetic_energy"], o.RunID, status)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      base,
		NumTrials: trials,
		Seed:      base.Seed,
	}, os.Stdout)
	if err != nil {
		return err
	}

	energies := make([]float64, len(results))
	for i, r := range results {
		energies[i] = r.KineticEnergy
	}
	stable, unstable := automation.MonteCarloStats(results)
	s := analysis.Summarize(energies)

	fmt.Printf("stable: %d  diverged: %d\n", stable, unstable)
	fmt.Printf("final kinetic energy: mean %.4e  sd %.4e  min %.4e  max %.4e\n", s.Mean, s.StdDev, s.Min, s.Max)
	return nil
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCEL\tORDER\tITERS\tTIME\tPER STEP\tKE\tSTATUS")

	for _, accel := range registry.ListDynamics() {
		for _, order := range registry.ListIntegrators() {
			cfg := *base
			cfg.Acceleration = accel
			cfg.UpdateOrder = order

			exp, err := experiment.New(&cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, runErr := exp.Run(context.Background())
			elapsed := time.Since(start)

			status := "ok"
			if runErr != nil {
				status = "diverged"
			}
			perStep := time.Duration(0)
			if result.Iterations > 0 {
				perStep = elapsed / time.Duration(result.Iterations)
			}
			ke := metrics.KineticEnergy(exp.Simulator().State().Velocities, cfg.Material.Mass)
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%.4e\t%s\n",
				accel, order, result.Iterations, elapsed.Round(time.Millisecond), perStep, ke, status)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	return printPresets(os.Stdout)
}

func printPresets(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALPHA\tWELL DEPTH (J)\tMASS (kg)\tR_M (m)\tTAU MULT\tTAU (s)")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		m := cfg.Material
		fmt.Fprintf(w, "%s\t%g\t%.4e\t%.4e\t%.4e\t%g\t%.4e\n",
			name, m.Alpha, m.WellDepth, m.Mass, m.EquilibriumDistance, cfg.TauMultiplier, cfg.Tau())
	}
	return w.Flush()
}
