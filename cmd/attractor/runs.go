package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/attractor/internal/analysis"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/storage"
	"github.com/san-kum/attractor/internal/viz"
)

var componentNames = []string{"x", "y", "z"}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.Attractors()
	if len(args) > 0 {
		names = args
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ATTRACTOR\tPRESET\tITERATIONS\tSTEP\tCANVAS\tOUTPUT")
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			return fmt.Errorf("no presets for attractor: %s", name)
		}
		for _, p := range presets {
			cfg := config.GetPreset(name, p)
			fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%dx%d\t%s\n",
				name, p, cfg.Iterations, cfg.StepSize, cfg.Canvas.Width, cfg.Canvas.Height, cfg.OutputPath)
		}
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
	fmt.Fprintln(w, "ID\tATTRACTOR\tTIME\tSTEPS\tELAPSED\tSAMPLES\tOUTPUT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fms\t%d\t%s\n",
			run.ID,
			run.Attractor,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.ElapsedMS,
			run.Samples,
			run.OutputPath,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("attractor: %s\n", meta.Attractor)
	fmt.Printf("samples: %d (t=%.2f..%.2f)\n\n", len(states), times[0], times[len(times)-1])

	for j := range states[0] {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][j]
		}
		caption := fmt.Sprintf("x%d vs time", j)
		if j < len(componentNames) {
			caption = componentNames[j] + " vs time"
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}
	return nil
}

func analyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	sys, err := reg.GetModel(cfg.Attractor, cfg.Params)
	if err != nil {
		return err
	}
	var stepper dynamo.Stepper
	if sys.Mode() == dynamo.Integrate {
		if stepper, err = reg.GetIntegrator(cfg.Integrator, sys.Dim()); err != nil {
			return err
		}
	}
	x0 := dynamo.State(cfg.InitialState)
	if in, ok := sys.(dynamo.Initializer); ok && len(x0) == 0 {
		x0 = in.DefaultState()
	}
	th := viz.GetTheme(theme)

	if sweepParam != "" {
		opt := analysis.SweepOptions{
			Param: sweepParam, From: sweepFrom, To: sweepTo, Samples: sweepSamples,
			Component: sweepAxis, StepSize: cfg.StepSize,
			Transient: lyapTransient, Record: lyapSteps,
		}
		logger.Info("sweeping", "attractor", cfg.Attractor, "param", sweepParam, "from", sweepFrom, "to", sweepTo)
		data, err := analysis.Sweep(sys, stepper, x0, opt)
		if err != nil {
			return err
		}
		canvas := viz.NewCanvas(previewWidth, previewHeight/2)
		analysis.DrawSweep(data, canvas)
		title := fmt.Sprintf("%s: %s in [%g, %g]", strings.ToUpper(cfg.Attractor), sweepParam, sweepFrom, sweepTo)
		fmt.Println(th.Header().Render(title))
		fmt.Println(viz.GlassPanel.Render(th.Ink().Render(canvas.String())))
		return nil
	}

	opt := analysis.DefaultLyapunovOptions()
	opt.StepSize = cfg.StepSize
	opt.Steps = lyapSteps
	opt.Transient = lyapTransient
	lambda, err := analysis.LargestLyapunov(sys, stepper, x0, opt)
	if err != nil {
		return err
	}

	verdict := "regular"
	if lambda > 0.01 {
		verdict = "chaotic"
	}
	fmt.Println(viz.Summary(th, cfg.Attractor, []viz.Row{
		{Label: "Exponent", Value: fmt.Sprintf("%.4f", lambda)},
		{Label: "Verdict", Value: verdict},
		{Label: "Steps", Value: fmt.Sprintf("%d (+%d transient)", lyapSteps, lyapTransient)},
	}))
	return nil
}
