package metrics

import (
	"math"

	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/sim"
)

// Metric accumulates a scalar over observed states.
type Metric interface {
	Name() string
	Observe(st *sim.State)
	Value() float64
	Reset()
}

// Energy is the mean kinetic energy across observations.
type Energy struct {
	name    string
	mass    float64
	total   float64
	samples int
}

func NewEnergy(mass float64) *Energy {
	return &Energy{name: "kinetic_energy", mass: mass}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(st *sim.State) {
	e.total += KineticEnergy(st.Velocities, e.mass)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// MomentumDrift tracks the largest ‖Σv − Σv₀‖ seen since the first
// observation. The paired initial kick keeps Σv₀ at zero for even N, so the
// drift measures how much boundary swaps and the update order break momentum
// conservation.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (d *MomentumDrift) Name() string { return d.name }

func (d *MomentumDrift) Observe(st *sim.State) {
	p := NetMomentum(st.Velocities)
	if d.samples == 0 {
		d.initial = p
	}
	d.samples++
	d.maxDrift = math.Max(d.maxDrift, p.Sub(d.initial).Norm())
}

func (d *MomentumDrift) Value() float64 { return d.maxDrift }

func (d *MomentumDrift) Reset() {
	d.initial = dynamo.Vec3{}
	d.maxDrift = 0
	d.samples = 0
}
