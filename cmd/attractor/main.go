package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/logging"
)

var (
	dataDir   string
	logLevel  string
	logFormat string
	theme     string

	configFile  string
	preset      string
	integrator  string
	iterations  int
	stepSize    float64
	outPath     string
	width       int
	height      int
	recordEvery int
	thumbnail   int
	preview     bool
	save        bool

	outDir      string
	batchOutDir string
	parallel    int

	lyapSteps     int
	lyapTransient int
	sweepParam    string
	sweepFrom     float64
	sweepTo       float64
	sweepSamples  int
	sweepAxis     int

	margin float64

	trials       int
	perturbation float64
	seed         int64

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "attractor",
		Short:         "strange attractor tracer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(os.Stderr, logging.Options{Level: logLevel, Format: logFormat})
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".attractor", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json, logfmt)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "terminal theme")

	runCmd := &cobra.Command{
		Use:   "run [attractor]",
		Short: "trace an attractor to an image",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	addTraceFlags(runCmd)
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (.png or .svg)")
	runCmd.Flags().IntVar(&width, "width", 0, "canvas width")
	runCmd.Flags().IntVar(&height, "height", 0, "canvas height")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 0, "keep every n-th state for plotting")
	runCmd.Flags().IntVar(&thumbnail, "thumbnail", 0, "also write a preview with this longer side")
	runCmd.Flags().BoolVar(&preview, "preview", false, "print a braille preview")
	runCmd.Flags().BoolVar(&save, "save", false, "store run metadata in the data directory")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "render every attractor concurrently",
		Args:  cobra.NoArgs,
		RunE:  runAll,
	}
	allCmd.Flags().StringVar(&outDir, "out-dir", "images", "output directory")
	allCmd.Flags().IntVar(&parallel, "parallel", 0, "maximum concurrent traces (0 = all)")
	allCmd.Flags().IntVar(&iterations, "iterations", 0, "override iterations for every attractor")

	watchCmd := &cobra.Command{
		Use:   "watch [attractor]",
		Short: "trace live in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	addTraceFlags(watchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [attractor]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded components of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [attractor]",
		Short: "estimate the largest Lyapunov exponent, or sweep a parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyze,
	}
	addTraceFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&lyapSteps, "steps", 20000, "measured iterations")
	analyzeCmd.Flags().IntVar(&lyapTransient, "transient", 1000, "discarded iterations")
	analyzeCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to sweep instead")
	analyzeCmd.Flags().Float64Var(&sweepFrom, "from", 0, "sweep start")
	analyzeCmd.Flags().Float64Var(&sweepTo, "to", 1, "sweep end")
	analyzeCmd.Flags().IntVar(&sweepSamples, "samples", 120, "sweep parameter values")
	analyzeCmd.Flags().IntVar(&sweepAxis, "component", 0, "state component recorded by the sweep")

	suggestCmd := &cobra.Command{
		Use:   "suggest [attractor]",
		Short: "trace without drawing and suggest a viewport",
		Args:  cobra.MaximumNArgs(1),
		RunE:  suggest,
	}
	addTraceFlags(suggestCmd)
	suggestCmd.Flags().Float64Var(&margin, "margin", 0.05, "padding as a fraction of each extent")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "render a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "output directory (overrides the scenario)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [attractor]",
		Short: "trace perturbed starts and report how far they end apart",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addTraceFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-6, "maximum offset per component")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().IntVar(&parallel, "parallel", 0, "maximum concurrent traces (0 = all)")

	rootCmd.AddCommand(runCmd, allCmd, watchCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, suggestCmd, batchCmd, monteCarloCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if logger == nil {
			logger = log.New(os.Stderr)
		}
		logger.Error("attractor failed", "err", err)
		os.Exit(1)
	}
}

func addTraceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "preset name")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk4, rk4-scalar, euler)")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "iterations")
	cmd.Flags().Float64Var(&stepSize, "step", 0, "step size")
}

// loadConfig resolves the config for an attractor: a config file if given,
// otherwise the preset, then any flags the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Attractor = args[0]
		}
	} else {
		name := config.DefaultAttractor
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name, preset)
		if cfg == nil {
			return nil, fmt.Errorf("no preset %q for %s (see `attractor presets`)", preset, name)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("step") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("out") {
		cfg.OutputPath = outPath
	}
	if flags.Changed("width") {
		cfg.Canvas.Width = width
	}
	if flags.Changed("height") {
		cfg.Canvas.Height = height
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	return cfg, nil
}
