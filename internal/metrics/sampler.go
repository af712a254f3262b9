package metrics

import (
	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/physics"
	"github.com/san-kum/morsesim/internal/sim"
)

// DefaultInterval is the number of iterations between samples.
const DefaultInterval = 100

// Report is one diagnostics sample.
type Report struct {
	Iteration     int         `json:"iteration"`
	Time          float64     `json:"time"`
	NetMomentum   dynamo.Vec3 `json:"net_momentum"`
	MeanStress    dynamo.Vec3 `json:"mean_stress"`
	KineticEnergy float64     `json:"kinetic_energy"`
	Temperature   float64     `json:"temperature_proxy"`

	Tracked      int         `json:"tracked"`
	Position     dynamo.Vec3 `json:"position"`
	Velocity     dynamo.Vec3 `json:"velocity"`
	Acceleration dynamo.Vec3 `json:"acceleration"`
	Stress       dynamo.Vec3 `json:"stress"`
}

// Measure computes a report for the current state.
func Measure(m *physics.Morse, st *sim.State, tracked int) Report {
	return Report{
		Iteration:     st.Iteration,
		Time:          st.Time,
		NetMomentum:   NetMomentum(st.Velocities),
		MeanStress:    MeanStress(m, st),
		KineticEnergy: KineticEnergy(st.Velocities, m.Mass),
		Temperature:   TemperatureProxy(st.Velocities),
		Tracked:       tracked,
		Position:      st.Positions[tracked],
		Velocity:      st.Velocities[tracked],
		Acceleration:  st.Accelerations[tracked],
		Stress:        Stress(m, st.Positions, tracked, st.BoxVolume()),
	}
}

// Sampler is a sim.Observer. Every interval iterations it measures the
// state, feeds its metrics and hands the report to every handler.
type Sampler struct {
	model    *physics.Morse
	tracked  int
	interval int
	metrics  []Metric
	handlers []func(Report)

	last    Report
	sampled bool
}

func NewSampler(m *physics.Morse, tracked, interval int) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		model:    m,
		tracked:  tracked,
		interval: interval,
		metrics:  make([]Metric, 0),
		handlers: make([]func(Report), 0),
	}
}

func (s *Sampler) AddMetric(m Metric)       { s.metrics = append(s.metrics, m) }
func (s *Sampler) OnReport(fn func(Report)) { s.handlers = append(s.handlers, fn) }
func (s *Sampler) Interval() int            { return s.interval }
func (s *Sampler) Metrics() []Metric        { return s.metrics }

// Last returns the most recent report, if any sample was taken yet.
func (s *Sampler) Last() (Report, bool) { return s.last, s.sampled }

func (s *Sampler) OnStep(st *sim.State) {
	if st.Iteration == 0 || st.Iteration%s.interval != 0 {
		return
	}

	r := Measure(s.model, st, s.tracked)
	for _, m := range s.metrics {
		m.Observe(st)
	}

	s.last = r
	s.sampled = true
	for _, fn := range s.handlers {
		fn(r)
	}
}
