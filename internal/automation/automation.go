package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/experiment"
	"github.com/san-kum/morsesim/internal/metrics"
	"github.com/san-kum/morsesim/internal/optim"
	"github.com/san-kum/morsesim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields keep the base config value; Params
// takes the names accepted by optim.Setters.
type ScenarioStep struct {
	Name         string             `yaml:"name"`
	Material     string             `yaml:"material"`
	Steps        int                `yaml:"steps"`
	Seed         int64              `yaml:"seed"`
	Acceleration string             `yaml:"acceleration"`
	UpdateOrder  string             `yaml:"update_order"`
	Params       map[string]float64 `yaml:"params"`
	Save         bool               `yaml:"save"`
}

// Outcome is the result of one scenario step. RunID is empty unless the step
// was saved.
type Outcome struct {
	Step   ScenarioStep
	Config *config.Config
	Result *experiment.Result
	RunID  string
	Err    error
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepConfig layers step over base. A material name switches to that preset
// before the other fields apply.
func StepConfig(base *config.Config, step ScenarioStep) (*config.Config, error) {
	cfg := *base
	if step.Material != "" {
		preset := config.GetPreset(step.Material)
		if preset == nil {
			return nil, fmt.Errorf("unknown material: %s", step.Material)
		}
		cfg.Material = preset.Material
		cfg.TauMultiplier = preset.TauMultiplier
	}
	if step.Steps > 0 {
		cfg.Steps = step.Steps
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	if step.Acceleration != "" {
		cfg.Acceleration = step.Acceleration
	}
	if step.UpdateOrder != "" {
		cfg.UpdateOrder = step.UpdateOrder
	}
	for name := range step.Params {
		if _, ok := optim.Setters[name]; !ok {
			return nil, fmt.Errorf("unknown parameter: %s", name)
		}
	}
	return optim.Apply(&cfg, step.Params), nil
}

// RunScenario executes all steps in order. A step that fails to build stops
// the scenario; a diverged step is recorded and the scenario continues.
// Progress lines go to log, which may be nil.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, store *storage.Store, log io.Writer) ([]Outcome, error) {
	if log == nil {
		log = io.Discard
	}
	outcomes := make([]Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Fprintf(log, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), step.Name)

		cfg, err := StepConfig(base, step)
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return outcomes, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, runErr := exp.Run(ctx)
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			return outcomes, runErr
		}

		out := Outcome{Step: step, Config: cfg, Result: result, Err: runErr}
		if step.Save && store != nil {
			out.RunID, err = store.Save(cfg, exp.Simulator().Dt(), exp.Simulator().State().BoxSize, result)
			if err != nil {
				return outcomes, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

// MonteCarloConfig repeats Base with random lattice seeds.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
}

// MonteCarloResult holds the outcome of one seed
type MonteCarloResult struct {
	TrialID       int
	Seed          int64
	Iterations    int
	KineticEnergy float64
	Stable        bool // ran all steps without diverging
}

// RunMonteCarlo runs NumTrials lattices that differ only in their initial
// velocities.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, log io.Writer) ([]MonteCarloResult, error) {
	if log == nil {
		log = io.Discard
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		trialCfg := *cfg.Base
		trialCfg.Seed = rng.Int63()

		exp, err := experiment.New(&trialCfg)
		if err != nil {
			return results, err
		}

		result, runErr := exp.Run(ctx)
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			return results, runErr
		}

		st := exp.Simulator().State()
		results = append(results, MonteCarloResult{
			TrialID:       trial,
			Seed:          trialCfg.Seed,
			Iterations:    result.Iterations,
			KineticEnergy: metrics.KineticEnergy(st.Velocities, trialCfg.Material.Mass),
			Stable:        runErr == nil,
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(log, "Monte Carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
