package sim

import "github.com/san-kum/morsesim/internal/dynamo"

// Dynamics gives the acceleration of the particle at `at` within positions.
type Dynamics interface {
	Acceleration(positions []dynamo.Vec3, at dynamo.Vec3) dynamo.Vec3
}

// Integrator advances a state by one step of size dt. It must not touch the
// clock; the simulator does that after a successful step.
type Integrator interface {
	Step(dyn Dynamics, st *State, dt float64) error
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(st *State)
}

type Phase int

const (
	Idle Phase = iota
	Running
	Halted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Halted:
		return "halted"
	}
	return "unknown"
}
