package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/dynamo"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Lattice.GridEdge = 3
	cfg.TrackedParticle = 13
	cfg.Steps = 200
	cfg.Seed = 7
	return cfg
}

func TestNewGridSearchValidates(t *testing.T) {
	if _, err := NewGridSearch([]string{"tau"}, nil); err == nil {
		t.Error("mismatched ranges should be rejected")
	}
	if _, err := NewGridSearch([]string{"mass"}, [][]float64{{1}}); err == nil {
		t.Error("unknown parameter should be rejected")
	}
}

func TestApplyCopies(t *testing.T) {
	base := baseConfig()
	cfg := Apply(base, map[string]float64{"tau": 0.02, "speed": 3e-18})

	if cfg.TauMultiplier != 0.02 || cfg.Lattice.InitialSpeedScale != 3e-18 {
		t.Errorf("parameters not applied: %+v", cfg)
	}
	if base.TauMultiplier != config.DefaultTauMultiplier {
		t.Error("Apply modified the base config")
	}
}

func TestSearch(t *testing.T) {
	g, err := NewGridSearch(
		[]string{"tau", "speed"},
		[][]float64{{0.01, 0.05, 0.5}, {1e-18, 2e-18}},
	)
	if err != nil {
		t.Fatal(err)
	}

	best, trials, err := g.Search(context.Background(), baseConfig(), "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 6 {
		t.Fatalf("got %d trials, want 6", len(trials))
	}

	for _, tr := range trials {
		if tr.Params["tau"] == 0.5 {
			if !errors.Is(tr.Err, dynamo.ErrConfiguration) {
				t.Errorf("tau 0.5 should fail validation, got %v", tr.Err)
			}
			if !math.IsInf(tr.Value, 1) {
				t.Error("failed trial should have +Inf value")
			}
		}
	}

	if best == nil {
		t.Fatal("expected a best trial")
	}
	if best.Err != nil {
		t.Errorf("best trial has error: %v", best.Err)
	}
	for _, tr := range trials {
		if tr.Err == nil && tr.Value < best.Value {
			t.Errorf("trial %v beats best %v", tr.Params, best.Params)
		}
	}
}

func TestSearchCanceled(t *testing.T) {
	g, err := NewGridSearch([]string{"tau"}, [][]float64{{0.01, 0.02}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := g.Search(ctx, baseConfig(), "kinetic_energy"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
