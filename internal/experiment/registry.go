package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/integrators"
	"github.com/san-kum/morsesim/internal/metrics"
	"github.com/san-kum/morsesim/internal/physics"
	"github.com/san-kum/morsesim/internal/sim"
)

type Registry struct {
	dynamics    map[string]func(*physics.Morse) sim.Dynamics
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		dynamics:    make(map[string]func(*physics.Morse) sim.Dynamics),
		integrators: make(map[string]func() sim.Integrator),
	}

	r.dynamics[config.AccelSecondDerivative] = func(m *physics.Morse) sim.Dynamics { return physics.NewSecondDerivativeDynamics(m) }
	r.dynamics[config.AccelNewtonian] = func(m *physics.Morse) sim.Dynamics { return physics.NewNewtonianDynamics(m) }

	r.integrators[integrators.Snapshot.String()] = func() sim.Integrator { return integrators.NewVerlet(integrators.Snapshot) }
	r.integrators[integrators.Sequential.String()] = func() sim.Integrator { return integrators.NewVerlet(integrators.Sequential) }

	return r
}

func (r *Registry) GetDynamics(name string, m *physics.Morse) (sim.Dynamics, error) {
	fn, ok := r.dynamics[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown acceleration: %s", dynamo.ErrConfiguration, name)
	}
	return fn(m), nil
}

// GetIntegrator returns a Verlet integrator for the named update order.
func (r *Registry) GetIntegrator(order string) (sim.Integrator, error) {
	if order == "" {
		order = integrators.Snapshot.String()
	}
	fn, ok := r.integrators[order]
	if !ok {
		return nil, fmt.Errorf("%w: unknown update order: %s", dynamo.ErrConfiguration, order)
	}
	return fn(), nil
}

func (r *Registry) ListDynamics() []string    { return sortedKeys(r.dynamics) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(m *physics.Morse) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewEnergy(m.Mass),
		metrics.NewMomentumDrift(),
	}
}
