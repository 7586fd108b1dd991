package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/storage"
	"github.com/san-kum/attractor/internal/tui"
	"github.com/san-kum/attractor/internal/viz"
)

const (
	previewWidth  = 80
	previewHeight = 30
)

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	exp, err := experiment.New(reg, cfg)
	if err != nil {
		return err
	}
	exp.SetThumbnail(thumbnail)

	logger.Info("tracing", "attractor", cfg.Attractor, "iterations", cfg.Iterations,
		"step", cfg.StepSize, "integrator", cfg.Integrator, "output", cfg.OutputPath)

	sc := exp.SimConfig()
	exp.AddObserver(sim.Progress(sc.Iterations, func(done, total int) {
		logger.Debug("progress", "done", done, "total", total)
	}))

	res, err := exp.Run(cmd.Context())
	if err != nil {
		if res != nil {
			logger.Warn("trace stopped early", "steps", res.Steps, "bounds", res.Bounds.String())
		}
		return err
	}
	logger.Info("traced", "attractor", res.System, "steps", res.Steps,
		"elapsed", res.Elapsed.Round(time.Millisecond), "bounds", res.Bounds.String())

	th := viz.GetTheme(theme)
	rows := []viz.Row{
		{Label: "Output", Value: cfg.OutputPath},
		{Label: "Steps", Value: fmt.Sprintf("%d", res.Steps)},
		{Label: "Elapsed", Value: res.Elapsed.Round(time.Millisecond).String()},
		{Label: "Bounds", Value: res.Bounds.String()},
		{Label: "Final", Value: fmt.Sprintf("%.4f", []float64(res.Final))},
	}
	m := exp.Metrics()
	rows = append(rows,
		viz.Row{Label: "Coverage", Value: fmt.Sprintf("%.1f%%", 100*m["coverage"])},
		viz.Row{Label: "Ink", Value: fmt.Sprintf("%.1f", m["path_length"])},
	)
	if m["coverage"] < 0.99 {
		logger.Warn("trace leaves the viewport", "coverage", m["coverage"], "hint", "attractor suggest")
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, res, exp.Recorder(), exp.Metrics())
		if err != nil {
			return err
		}
		rows = append(rows, viz.Row{Label: "Run", Value: runID})
		logger.Info("saved run", "id", runID, "dir", dataDir)
	}
	fmt.Println(viz.Summary(th, cfg.Attractor, rows))

	if preview {
		return printPreview(cmd, reg, cfg, th)
	}
	return nil
}

// printPreview retraces onto a braille canvas with the same viewport.
func printPreview(cmd *cobra.Command, reg *experiment.Registry, cfg *config.Config, th viz.Theme) error {
	pcfg := cfg.Clone()
	pcfg.RecordEvery = 0
	exp, err := experiment.New(reg, pcfg)
	if err != nil {
		return err
	}
	canvas := viz.NewCanvas(previewWidth, previewHeight)
	sc := exp.SimConfig()
	sc.Width, sc.Height = canvas.PixelSize()
	if _, err := exp.Tracer().Run(cmd.Context(), canvas, sc); err != nil {
		return err
	}
	fmt.Println(viz.GlassPanel.Render(th.Ink().Render(canvas.String())))
	return nil
}

func runAll(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	ens := sim.NewEnsemble(parallel)
	names := config.Attractors()
	cfgs := make([]*config.Config, 0, len(names))

	for _, name := range names {
		cfg := config.GetPreset(name, config.DefaultPreset)
		cfg.OutputPath = filepath.Join(outDir, filepath.Base(cfg.OutputPath))
		if cmd.Flags().Changed("iterations") {
			cfg.Iterations = iterations
		}
		exp, err := experiment.New(reg, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		job, release, err := exp.Job(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		defer release()
		ens.Add(job)
		cfgs = append(cfgs, cfg)
	}

	logger.Info("rendering", "attractors", len(names), "parallel", parallel, "out", outDir)
	start := time.Now()
	results, err := ens.Run(cmd.Context())
	if err != nil {
		return err
	}

	th := viz.GetTheme(theme)
	rows := make([]viz.Row, 0, len(results))
	for i, res := range results {
		logger.Info("traced", "attractor", res.System, "steps", res.Steps,
			"elapsed", res.Elapsed.Round(time.Millisecond), "output", cfgs[i].OutputPath)
		rows = append(rows, viz.Row{
			Label: res.System,
			Value: fmt.Sprintf("%-28s %s", cfgs[i].OutputPath, res.Elapsed.Round(time.Millisecond)),
		})
	}
	rows = append(rows, viz.Row{Label: "total", Value: time.Since(start).Round(time.Millisecond).String()})
	fmt.Println(viz.Summary(th, "all attractors", rows))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	m, err := tui.NewModel(exp.Tracer(), exp.SimConfig(), theme)
	if err != nil {
		return err
	}
	return tui.Run(m)
}

func suggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	res, err := exp.Trace(cmd.Context())
	if err != nil {
		return err
	}
	sc := exp.SimConfig()
	vp := viz.FitViewport(res.Bounds.Project(sc.Axes[0], sc.Axes[1]), margin)

	logger.Info("bounds", "attractor", res.System, "steps", res.Steps, "bounds", res.Bounds.String())
	out, err := yaml.Marshal(struct {
		Viewport viz.Viewport `yaml:"viewport"`
	}{vp})
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
