package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/vibsim/internal/analysis"
	"github.com/san-kum/vibsim/internal/config"
	"github.com/san-kum/vibsim/internal/experiment"
	"github.com/san-kum/vibsim/internal/export"
	"github.com/san-kum/vibsim/internal/metrics"
	"github.com/san-kum/vibsim/internal/optim"
	"github.com/san-kum/vibsim/internal/physics"
	"github.com/san-kum/vibsim/internal/sim"
	"github.com/san-kum/vibsim/internal/storage"
	"github.com/san-kum/vibsim/internal/viz"
)

var (
	dataDir string
	verbose bool
	// oscillator parameters
	amplitude float64
	omega     float64
	dt        float64
	duration  float64
	periods   float64
	// Config file
	configFile string
	// Preset name
	preset string
	// output
	plotFile  string
	savePlot  bool
	showPlot  bool
	storeRun  bool
	metricSet string
	levels    int
	outFile   string
	sweepDts  []float64
	tolerance float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "vibsim",
		Short:         "undamped vibration solver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vibsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve and plot against the exact solution",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().StringVar(&plotFile, "plot", config.DefaultPlotFile, "chart output (.png, .svg, .pdf)")
	runCmd.Flags().BoolVar(&savePlot, "save", true, "write the chart file")
	runCmd.Flags().BoolVar(&showPlot, "show", false, "draw the chart in the terminal")
	runCmd.Flags().BoolVar(&storeRun, "store", false, "persist the run under the data directory")
	runCmd.Flags().StringVar(&metricSet, "metrics", "default", "metric set")

	convergeCmd := &cobra.Command{
		Use:   "converge",
		Short: "measure the observed order by halving dt",
		Args:  cobra.NoArgs,
		RunE:  runConvergence,
	}
	addParamFlags(convergeCmd)
	convergeCmd.Flags().IntVar(&levels, "levels", 5, "number of refinement levels")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "find the coarsest dt meeting an error tolerance",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", []float64{0.2, 0.1, 0.05, 0.02, 0.01, 0.005}, "timesteps to evaluate")
	sweepCmd.Flags().Float64Var(&tolerance, "tol", 1e-2, "max error tolerance")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&outFile, "out", "", "also write the chart to this file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and phase analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive dt/w explorer",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addParamFlags(liveCmd)

	rootCmd.AddCommand(runCmd, convergeCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&amplitude, "I", config.DefaultI, "initial displacement")
	cmd.Flags().Float64Var(&omega, "w", config.DefaultW, "angular frequency")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 0, "simulated time (overrides --periods)")
	cmd.Flags().Float64Var(&periods, "periods", config.DefaultPeriods, "simulated time in periods of w")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// resolveConfig applies the preset, then the config file, then any flag set
// explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("I") {
		cfg.I = amplitude
	}
	if flags.Changed("w") {
		cfg.W = omega
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("periods") {
		cfg.Periods = periods
	}
	if flags.Changed("time") {
		cfg.Duration = duration
		cfg.Periods = 0
	}
	if flags.Lookup("plot") != nil {
		if flags.Changed("plot") {
			cfg.Plot.File = plotFile
		}
		if flags.Changed("save") {
			cfg.Plot.Save = savePlot
		}
		if flags.Changed("show") {
			cfg.Plot.Show = showPlot
		}
	}

	return cfg, nil
}

func setupExperiment(cmd *cobra.Command, metricSet string) (*experiment.Experiment, *zap.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup("central", metricSet); err != nil {
		return nil, nil, err
	}
	return exp, logger, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, logger, err := setupExperiment(cmd, metricSet)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg := exp.Config()
	p := cfg.Params()

	fmt.Printf("solving I=%g w=%g dt=%g T=%g\n", p.I, p.W, p.Dt, p.T)
	start := time.Now()

	result, err := exp.Run()
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.Trajectory.Steps())
	if result.Stable {
		fmt.Println("stable: yes")
	} else {
		fmt.Printf("stable: no (w*dt = %.4f >= 2)\n", p.Courant())
	}
	printMetrics(result.Metrics)

	if cfg.Plot.Save {
		chart := export.NewComparisonChart(result.Trajectory, p)
		if cfg.Plot.Samples > 0 {
			chart.Samples = cfg.Plot.Samples
		}
		if err := chart.Save(cfg.Plot.File); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Printf("chart: %s\n", cfg.Plot.File)
	}

	if cfg.Plot.Show {
		fmt.Println()
		fmt.Println(viz.Comparison(result.Trajectory, p, viz.DefaultWidth, viz.DefaultHeight))
	}

	if storeRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Name, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6e\n", name, m[name])
	}
}

func runConvergence(cmd *cobra.Command, args []string) error {
	exp, logger, err := setupExperiment(cmd, "none")
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	result, err := exp.Converge(context.Background(), levels)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("convergence over T = %g", exp.Config().Horizon())))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tMAX ERROR\tORDER")
	for _, lvl := range result {
		order := "-"
		if !math.IsNaN(lvl.Order) {
			order = fmt.Sprintf("%.3f", lvl.Order)
		}
		fmt.Fprintf(w, "%g\t%d\t%.6e\t%s\n", lvl.Dt, lvl.Steps, lvl.MaxError, order)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if mean := metrics.MeanOrder(result); !math.IsNaN(mean) {
		fmt.Printf("\nmean order: %s\n", viz.MetricValue.Render(fmt.Sprintf("%.3f", mean)))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	g, err := optim.NewGridSearch([]string{"dt"}, [][]float64{sweepDts})
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	newSim := func() *sim.Simulator {
		solver, _ := registry.GetSolver("central")
		return sim.New(solver, sim.WithLogger(logger), sim.WithMetrics(metrics.NewMaxError()))
	}

	lowest, points, searchErr := g.Search(context.Background(), cfg.Params(), newSim, "max_error")
	if points == nil {
		return searchErr
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tW*DT\tMAX ERROR")
	for _, pt := range points {
		if pt.Err != nil {
			fmt.Fprintf(w, "%g\t-\t%v\n", pt.Params.Dt, pt.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%.3f\t%.6e\n", pt.Params.Dt, pt.Params.Courant(), pt.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if searchErr != nil {
		return searchErr
	}
	fmt.Printf("\nsmallest error: %.6e at dt %g\n", lowest.Value, lowest.Params.Dt)

	best, ok := optim.CoarsestStep(points, tolerance)
	if !ok {
		fmt.Println(viz.StatusUnstable.Render(fmt.Sprintf("no dt meets tolerance %g", tolerance)))
		return nil
	}
	fmt.Printf("coarsest dt within %g: %s\n", tolerance, viz.MetricValue.Render(fmt.Sprintf("%g", best.Params.Dt)))
	return nil
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tI\tW\tDT\tT\tSTEPS\tMAX ERROR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%.4f\t%g\t%.3f\t%d\t%.3e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.I,
			run.Params.W,
			run.Params.Dt,
			run.Horizon,
			run.Steps,
			run.Metrics["max_error"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.Result(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("I=%g w=%g dt=%g steps=%d\n\n", meta.Params.I, meta.Params.W, meta.Params.Dt, meta.Steps)
	fmt.Println(viz.Comparison(result.Trajectory, result.Params, viz.DefaultWidth, viz.DefaultHeight))

	errs := make([]float64, result.Trajectory.Len())
	for i := range errs {
		errs[i] = math.Abs(result.Trajectory.U[i] - result.Exact[i])
	}
	fmt.Println()
	fmt.Println(viz.Series(export.Clip(errs), "|u - exact|", viz.DefaultWidth, viz.DefaultHeight/2))

	if outFile != "" {
		if err := export.NewComparisonChart(result.Trajectory, result.Params).Save(outFile); err != nil {
			return err
		}
		fmt.Printf("\nchart: %s\n", outFile)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.Result(args[0])
	if err != nil {
		return err
	}

	tr := result.Trajectory
	osc := physics.NewOscillator(meta.Params.I, meta.Params.W)

	fmt.Printf("analysis: %s\n\n", meta.ID)

	fmt.Printf("w (exact):      %.6f\n", meta.Params.W)
	fmt.Printf("w (discrete):   %.6f\n", osc.NumericalFrequency(meta.Params.Dt))
	if wm, err := analysis.DominantFrequency(tr.U, meta.Params.Dt); err == nil {
		fmt.Printf("w (spectrum):   %.6f\n", wm)
	} else {
		fmt.Printf("w (spectrum):   n/a (%v)\n", err)
	}

	fmt.Printf("period (exact): %.6f\n", osc.Period())
	if period := analysis.MeasuredPeriod(tr); !math.IsNaN(period) {
		fmt.Printf("period (zeros): %.6f\n", period)
	}
	fmt.Printf("phase error at T: %.6e rad\n", osc.PhaseError(meta.Params.Dt, tr.End()))

	portrait := analysis.NewPhasePortrait(tr)
	if len(portrait.Points) > 0 {
		fmt.Println()
		fmt.Println(viz.Title.Render("phase portrait (u, du/dt)"))
		fmt.Println(portrait.ToASCII(60, 20))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.Result(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSONStdout(meta.ID, result)
	}
	if err := storage.ExportJSON(outFile, meta.ID, result); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", result.Trajectory.Len(), outFile)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := st.Result(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, result)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tI\tW\tDT\tT\tW*DT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		p := cfg.Params()
		fmt.Fprintf(w, "%s\t%g\t%.4f\t%g\t%.3f\t%.3f\n", name, p.I, p.W, p.Dt, p.T, p.Courant())
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// No logger: output would corrupt the alternate screen.
	exp := experiment.New(cfg, zap.NewNop())
	if err := exp.Setup("central", "default"); err != nil {
		return err
	}

	return viz.RunExplorer(cfg.Params(), exp.GetSimulator())
}
