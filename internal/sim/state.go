package sim

import (
	"github.com/san-kum/morsesim/internal/dynamo"
)

// State is the particle ensemble plus the simulation clock.
//
// Velocities are per-step displacements (Positions − Previous), not divided
// by the step size.
type State struct {
	Positions     []dynamo.Vec3
	Previous      []dynamo.Vec3
	Velocities    []dynamo.Vec3
	Accelerations []dynamo.Vec3
	Colors        []dynamo.Vec3

	BoxSize   float64
	Time      float64
	Iteration int
}

// NewState allocates an ensemble of n particles at the origin.
func NewState(n int, boxSize float64) *State {
	return &State{
		Positions:     make([]dynamo.Vec3, n),
		Previous:      make([]dynamo.Vec3, n),
		Velocities:    make([]dynamo.Vec3, n),
		Accelerations: make([]dynamo.Vec3, n),
		Colors:        make([]dynamo.Vec3, n),
		BoxSize:       boxSize,
	}
}

func (s *State) Len() int { return len(s.Positions) }

func (s *State) BoxVolume() float64 {
	return s.BoxSize * s.BoxSize * s.BoxSize
}

// DeriveVelocities recomputes every velocity from the position pair.
func (s *State) DeriveVelocities() {
	for i := range s.Positions {
		s.Velocities[i] = s.Positions[i].Sub(s.Previous[i])
	}
}

// Normalized maps a box position to view coordinates in [-0.5, 0.5]³.
func (s *State) Normalized(v dynamo.Vec3) dynamo.Vec3 {
	return v.Scale(1 / s.BoxSize).Sub(dynamo.Vec3{0.5, 0.5, 0.5})
}

// Validate returns the index of the first particle whose position or
// velocity is not finite, or -1.
func (s *State) Validate() int {
	for i := range s.Positions {
		if !s.Positions[i].IsFinite() || !s.Velocities[i].IsFinite() {
			return i
		}
	}
	return -1
}

func (s *State) Clone() *State {
	return &State{
		Positions:     dynamo.Clone(s.Positions),
		Previous:      dynamo.Clone(s.Previous),
		Velocities:    dynamo.Clone(s.Velocities),
		Accelerations: dynamo.Clone(s.Accelerations),
		Colors:        dynamo.Clone(s.Colors),
		BoxSize:       s.BoxSize,
		Time:          s.Time,
		Iteration:     s.Iteration,
	}
}
