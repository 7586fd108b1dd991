// Package automation runs scripted batches of traces.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/sim"
)

// Scenario is a named batch of traces rendered concurrently.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	OutDir      string         `yaml:"out_dir"`
	Parallel    int            `yaml:"parallel"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset and overrides what it sets.
type ScenarioStep struct {
	Attractor    string             `yaml:"attractor"`
	Preset       string             `yaml:"preset"`
	Integrator   string             `yaml:"integrator"`
	Iterations   int                `yaml:"iterations"`
	StepSize     float64            `yaml:"step_size"`
	InitialState []float64          `yaml:"initial_state,flow"`
	Params       map[string]float64 `yaml:"params"`
	SaveAs       string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config resolves a step to a full run config.
func (s ScenarioStep) Config(outDir string) (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = config.DefaultPreset
	}
	cfg := config.GetPreset(s.Attractor, preset)
	if cfg == nil {
		return nil, fmt.Errorf("no preset %q for %q", preset, s.Attractor)
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Iterations > 0 {
		cfg.Iterations = s.Iterations
	}
	if s.StepSize > 0 {
		cfg.StepSize = s.StepSize
	}
	if len(s.InitialState) > 0 {
		cfg.InitialState = append([]float64(nil), s.InitialState...)
	}
	if len(s.Params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(s.Params))
		}
		for k, v := range s.Params {
			cfg.Params[k] = v
		}
	}
	out := filepath.Base(cfg.OutputPath)
	if s.SaveAs != "" {
		out = s.SaveAs
	}
	cfg.OutputPath = filepath.Join(outDir, out)
	return cfg, nil
}

// StepResult pairs a finished trace with the config that produced it.
type StepResult struct {
	Config  *config.Config
	Result  *sim.Result
	Metrics map[string]float64
}

// RunScenario renders every step through one Ensemble. outDir overrides the
// scenario's when non-empty.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, outDir string) ([]StepResult, error) {
	if outDir == "" {
		outDir = scenario.OutDir
	}
	if outDir == "" {
		outDir = "."
	}

	ens := sim.NewEnsemble(scenario.Parallel)
	exps := make([]*experiment.Experiment, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		cfg, err := step.Config(outDir)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(registry, cfg)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		job, release, err := exp.Job(fmt.Sprintf("%d-%s", i+1, step.Attractor))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		defer release()
		ens.Add(job)
		exps = append(exps, exp)
	}

	results, err := ens.Run(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StepResult, len(results))
	for i, res := range results {
		out[i] = StepResult{Config: exps[i].Config(), Result: res, Metrics: exps[i].Metrics()}
	}
	return out, nil
}

// MonteCarloConfig perturbs one run's initial state at random.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Parallel     int
	Seed         int64
	// Bound is the norm beyond which a trial counts as escaped.
	Bound float64
}

type MonteCarloResult struct {
	TrialID    int
	InitState  dynamo.State
	FinalState dynamo.State
	Bounds     dynamo.Box
	Stable     bool
}

// RunMonteCarlo traces NumTrials perturbed copies of Base without drawing.
// Nearby starts on a chaotic attractor end far apart but stay bounded.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	bound := cfg.Bound
	if bound <= 0 {
		bound = 1e6
	}

	base := cfg.Base.Clone()
	base.ValidateState = false
	ens := sim.NewEnsemble(cfg.Parallel)
	inits := make([]dynamo.State, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		tc := base.Clone()
		exp, err := experiment.New(registry, tc)
		if err != nil {
			return nil, err
		}
		sc := exp.SimConfig()
		init := sc.Initial.Clone()
		for i := range init {
			init[i] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		}
		sc.Initial = init
		inits[trial] = init
		ens.Add(sim.Job{Name: fmt.Sprintf("trial-%d", trial), Tracer: exp.Tracer(), Config: sc})
	}

	results, err := ens.Run(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for i, res := range results {
		out[i] = MonteCarloResult{
			TrialID:    i,
			InitState:  inits[i],
			FinalState: res.Final,
			Bounds:     res.Bounds,
			Stable:     res.Final.IsValid() && res.Final.Norm() <= bound,
		}
	}
	return out, nil
}

// MonteCarloStats counts bounded trials and reports the largest distance
// between any two final states.
func MonteCarloStats(results []MonteCarloResult) (stableCount, unstableCount int, maxSpread float64) {
	for i, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
			continue
		}
		for _, o := range results[i+1:] {
			if !o.Stable {
				continue
			}
			maxSpread = math.Max(maxSpread, floats.Distance(r.FinalState, o.FinalState, 2))
		}
	}
	return
}
