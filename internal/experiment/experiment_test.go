package experiment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/sim"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Lattice.GridEdge = 3
	cfg.TrackedParticle = 13
	cfg.Steps = 250
	cfg.Seed = 5
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	m := smallConfig().Morse()

	for _, name := range r.ListDynamics() {
		if _, err := r.GetDynamics(name, m); err != nil {
			t.Errorf("dynamics %s: %v", name, err)
		}
	}
	for _, name := range r.ListIntegrators() {
		if _, err := r.GetIntegrator(name); err != nil {
			t.Errorf("integrator %s: %v", name, err)
		}
	}
	if _, err := r.GetIntegrator(""); err != nil {
		t.Errorf("empty order should default to snapshot: %v", err)
	}
	if _, err := r.GetDynamics("first-derivative", m); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if _, err := r.GetIntegrator("random"); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if len(r.DefaultMetrics(m)) != 2 {
		t.Error("expected two default metrics")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.TrackedParticle = 27
	if _, err := New(cfg); !errors.Is(err, dynamo.ErrIndex) {
		t.Errorf("expected ErrIndex, got %v", err)
	}

	cfg = smallConfig()
	cfg.TauMultiplier = 0.2
	if _, err := New(cfg); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestRun(t *testing.T) {
	exp, err := New(smallConfig())
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if exp.Simulator().Phase() != sim.Idle {
		t.Error("new experiment should start idle")
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Iterations != 250 {
		t.Errorf("expected 250 iterations, got %d", result.Iterations)
	}
	if len(result.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(result.Reports))
	}
	if result.Reports[1].Iteration != 200 {
		t.Errorf("expected second report at 200, got %d", result.Reports[1].Iteration)
	}
	if _, ok := result.Metrics["kinetic_energy"]; !ok {
		t.Error("missing kinetic_energy metric")
	}
	if _, ok := result.Metrics["momentum_drift"]; !ok {
		t.Error("missing momentum_drift metric")
	}

	want := exp.Simulator().State().Normalized(result.Reports[1].Position)
	if got := exp.Simulator().TraceBuffer().Latest(); got != want {
		t.Errorf("trace latest %v, want %v", got, want)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	a.Run(context.Background())
	b.Run(context.Background())

	pa, pb := a.Simulator().Positions(), b.Simulator().Positions()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}
}

func TestSummary(t *testing.T) {
	exp, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	exp.Summary(&buf)

	for _, want := range []string{"TAU:", "C:", "Box size:", "Box volume:", "Initial net momentum:", "barium"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}
}
