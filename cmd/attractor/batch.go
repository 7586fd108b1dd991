package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/attractor/internal/automation"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/viz"
)

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))

	start := time.Now()
	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), batchOutDir)
	if err != nil {
		return err
	}

	rows := make([]viz.Row, 0, len(results)+1)
	for i, r := range results {
		logger.Info("traced", "step", i+1, "attractor", r.Result.System, "steps", r.Result.Steps,
			"elapsed", r.Result.Elapsed.Round(time.Millisecond), "output", r.Config.OutputPath)
		rows = append(rows, viz.Row{
			Label: fmt.Sprintf("%d %s", i+1, r.Result.System),
			Value: fmt.Sprintf("%s (coverage %.0f%%)", r.Config.OutputPath, 100*r.Metrics["coverage"]),
		})
	}
	rows = append(rows, viz.Row{Label: "total", Value: time.Since(start).Round(time.Millisecond).String()})
	fmt.Println(viz.Summary(viz.GetTheme(theme), scenario.Name, rows))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	mc := &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Parallel:     parallel,
		Seed:         seed,
	}
	logger.Info("monte carlo", "attractor", cfg.Attractor, "trials", trials, "perturbation", perturbation)

	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry())
	if err != nil {
		return err
	}
	stable, unstable, spread := automation.MonteCarloStats(results)
	fmt.Println(viz.Summary(viz.GetTheme(theme), cfg.Attractor+" monte carlo", []viz.Row{
		{Label: "Trials", Value: fmt.Sprintf("%d", len(results))},
		{Label: "Bounded", Value: fmt.Sprintf("%d", stable)},
		{Label: "Escaped", Value: fmt.Sprintf("%d", unstable)},
		{Label: "Spread", Value: fmt.Sprintf("%.4g (from %.1g)", spread, perturbation)},
	}))
	return nil
}
