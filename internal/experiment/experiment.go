package experiment

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/metrics"
	"github.com/san-kum/morsesim/internal/physics"
	"github.com/san-kum/morsesim/internal/sim"
)

// Experiment is one configured lattice run: the simulator, its diagnostics
// sampler and the derived constants.
type Experiment struct {
	cfg        *config.Config
	model      *physics.Morse
	simulator  *sim.Simulator
	sampler    *metrics.Sampler
	randSource *rand.Rand
	reports    []metrics.Report
	initial    *sim.State
}

// Result is what a finished headless run hands to storage.
type Result struct {
	Iterations int                `json:"iterations"`
	Time       float64            `json:"time"`
	Reports    []metrics.Report   `json:"reports"`
	Metrics    map[string]float64 `json:"metrics"`
	Err        error              `json:"-"`
}

// New validates cfg and builds the lattice, integrator and sampler.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := NewRegistry()
	model := cfg.Morse()

	dyn, err := reg.GetDynamics(cfg.Acceleration, model)
	if err != nil {
		return nil, err
	}
	integrator, err := reg.GetIntegrator(cfg.UpdateOrder)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:        cfg,
		model:      model,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		reports:    make([]metrics.Report, 0),
	}

	st, err := sim.NewLattice(cfg.LatticeSpec(), e.randSource)
	if err != nil {
		return nil, err
	}
	e.initial = st.Clone()

	e.simulator, err = sim.New(dyn, integrator, st, cfg.Tau(), cfg.TrackedParticle)
	if err != nil {
		return nil, err
	}

	e.simulator.SetTraceInterval(cfg.SampleInterval)
	e.sampler = metrics.NewSampler(model, cfg.TrackedParticle, cfg.SampleInterval)
	for _, m := range reg.DefaultMetrics(model) {
		e.sampler.AddMetric(m)
	}
	e.sampler.OnReport(func(r metrics.Report) { e.reports = append(e.reports, r) })
	e.simulator.AddObserver(e.sampler)

	return e, nil
}

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) Model() *physics.Morse     { return e.model }
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
func (e *Experiment) Sampler() *metrics.Sampler { return e.sampler }
func (e *Experiment) Reports() []metrics.Report { return e.reports }
func (e *Experiment) InitialState() *sim.State  { return e.initial }

// Run steps the simulator cfg.Steps times. A divergence ends the run early;
// the partial result is returned together with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	err := e.simulator.Run(ctx, e.cfg.Steps)

	st := e.simulator.State()
	result := &Result{
		Iterations: st.Iteration,
		Time:       st.Time,
		Reports:    e.reports,
		Metrics:    make(map[string]float64),
		Err:        err,
	}
	for _, m := range e.sampler.Metrics() {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// Summary prints the derived constants of the run.
func (e *Experiment) Summary(w io.Writer) {
	st := e.simulator.State()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Material:\t%s\n", e.cfg.Material.Name)
	fmt.Fprintf(tw, "Particles:\t%d\n", st.Len())
	fmt.Fprintf(tw, "TAU:\t%.6e s\n", e.simulator.Dt())
	fmt.Fprintf(tw, "C:\t%.6e\n", e.model.Stiffness())
	fmt.Fprintf(tw, "Lattice spacing:\t%.6e m\n", e.cfg.Lattice.Spacing)
	fmt.Fprintf(tw, "Box size:\t%.6e m\n", st.BoxSize)
	fmt.Fprintf(tw, "Box volume:\t%.6e m^3\n", st.BoxVolume())
	fmt.Fprintf(tw, "Acceleration:\t%s\n", e.cfg.Acceleration)
	fmt.Fprintf(tw, "Update order:\t%s\n", e.cfg.UpdateOrder)
	fmt.Fprintf(tw, "Initial net momentum:\t%s\n", metrics.FormatVec(metrics.NetMomentum(e.initial.Velocities)))
	tw.Flush()
}
