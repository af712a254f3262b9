package integrators

import (
	"fmt"

	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/sim"
)

// UpdateOrder selects which positions the pairwise sum sees during a step.
type UpdateOrder int

const (
	// Snapshot evaluates every acceleration against the positions at the
	// start of the step. This is the default and keeps the step reversible.
	Snapshot UpdateOrder = iota
	// Sequential updates in place, so particle i sees the new positions of
	// particles 0..i-1.
	Sequential
)

func (o UpdateOrder) String() string {
	if o == Sequential {
		return "sequential"
	}
	return "snapshot"
}

// ParseUpdateOrder maps a config value to an UpdateOrder.
func ParseUpdateOrder(name string) (UpdateOrder, error) {
	switch name {
	case "", "snapshot":
		return Snapshot, nil
	case "sequential":
		return Sequential, nil
	}
	return Snapshot, fmt.Errorf("%w: unknown update order %q", dynamo.ErrConfiguration, name)
}

// Verlet is the position (Störmer) form: x' = 2x − x_prev + a·dt².
// Mass is not divided out here; the dynamics carry it. The default Snapshot
// order differs from the original in-place relaxation loop, which Sequential
// reproduces.
type Verlet struct {
	Order   UpdateOrder
	scratch []dynamo.Vec3
}

func NewVerlet(order UpdateOrder) *Verlet {
	return &Verlet{Order: order}
}

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.scratch = make([]dynamo.Vec3, n)
	}
}

func (v *Verlet) Step(dyn sim.Dynamics, st *sim.State, dt float64) error {
	n := st.Len()
	dt2 := dt * dt

	src := st.Positions
	if v.Order == Snapshot {
		v.ensureScratch(n)
		copy(v.scratch, st.Positions)
		src = v.scratch
	}

	for i := 0; i < n; i++ {
		acc := dyn.Acceleration(src, src[i])
		st.Accelerations[i] = acc

		next := st.Positions[i].Scale(2).Sub(st.Previous[i]).Add(acc.Scale(dt2))
		st.Previous[i] = st.Positions[i]
		st.Positions[i] = next

		SwapBoundary(&st.Positions[i], &st.Previous[i], st.BoxSize)
		st.Velocities[i] = st.Positions[i].Sub(st.Previous[i])

		if !st.Positions[i].IsFinite() || !st.Velocities[i].IsFinite() {
			return &dynamo.SimulationError{Step: st.Iteration, Time: st.Time, Particle: i, Wrapped: dynamo.ErrDivergence}
		}
	}
	return nil
}
