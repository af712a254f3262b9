package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/storage"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Lattice.GridEdge = 2
	cfg.TrackedParticle = 3
	cfg.Steps = 200
	cfg.Seed = 11
	return cfg
}

const scenarioYAML = `name: materials
description: one short run per material
steps:
  - name: barium
    save: true
  - name: nickel-sequential
    material: nickel
    steps: 100
    update_order: sequential
    params:
      speed: 2.0e-18
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "materials", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.True(t, sc.Steps[0].Save)
	assert.Equal(t, "nickel", sc.Steps[1].Material)
	assert.Equal(t, 2.0e-18, sc.Steps[1].Params["speed"])
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: empty\n"), 0644))

	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestStepConfig(t *testing.T) {
	base := baseConfig()
	cfg, err := StepConfig(base, ScenarioStep{
		Material:    "ferrum",
		Steps:       50,
		UpdateOrder: "sequential",
		Params:      map[string]float64{"speed": 4e-18},
	})
	require.NoError(t, err)

	assert.Equal(t, "ferrum", cfg.Material.Name)
	assert.Equal(t, config.GetPreset("ferrum").TauMultiplier, cfg.TauMultiplier)
	assert.Equal(t, 50, cfg.Steps)
	assert.Equal(t, "sequential", cfg.UpdateOrder)
	assert.Equal(t, 4e-18, cfg.Lattice.InitialSpeedScale)
	assert.Equal(t, base.Lattice.GridEdge, cfg.Lattice.GridEdge)
	assert.Equal(t, "barium", base.Material.Name, "base must not change")

	_, err = StepConfig(base, ScenarioStep{Material: "unobtainium"})
	assert.Error(t, err)
	_, err = StepConfig(base, ScenarioStep{Params: map[string]float64{"mass": 1}})
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	store := storage.New(t.TempDir())
	require.NoError(t, store.Init())

	sc := &Scenario{Name: "two", Steps: []ScenarioStep{
		{Name: "saved", Save: true},
		{Name: "short", Steps: 100},
	}}

	outcomes, err := RunScenario(context.Background(), sc, baseConfig(), store, nil)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	require.NoError(t, outcomes[0].Err)
	require.NotEmpty(t, outcomes[0].RunID)
	assert.Equal(t, 200, outcomes[0].Result.Iterations)
	assert.Empty(t, outcomes[1].RunID)
	assert.Equal(t, 100, outcomes[1].Result.Iterations)

	meta, err := store.Load(outcomes[0].RunID)
	require.NoError(t, err)
	assert.Equal(t, 200, meta.Iterations)
}

func TestRunScenarioStopsOnBadStep(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Name: "ok", Steps: 10},
		{Name: "bad", Acceleration: "magnetic"},
	}}

	outcomes, err := RunScenario(context.Background(), sc, baseConfig(), nil, nil)
	assert.Error(t, err)
	assert.Len(t, outcomes, 1)
}

func TestRunMonteCarlo(t *testing.T) {
	base := baseConfig()
	base.Steps = 100

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: base, NumTrials: 3, Seed: 1}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	seeds := map[int64]bool{}
	for i, r := range results {
		assert.Equal(t, i, r.TrialID)
		assert.True(t, r.Stable)
		assert.Equal(t, 100, r.Iterations)
		assert.Greater(t, r.KineticEnergy, 0.0)
		seeds[r.Seed] = true
	}
	assert.Len(t, seeds, 3, "trials should use distinct seeds")

	stable, unstable := MonteCarloStats(results)
	assert.Equal(t, 3, stable)
	assert.Equal(t, 0, unstable)
}
