package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/physics"
	"github.com/san-kum/morsesim/internal/sim"
)

// KineticEnergy returns 0.5·m·Σ‖v‖². Velocities are per-step displacements,
// so the result is in kg·m² per step², not joules.
func KineticEnergy(velocities []dynamo.Vec3, mass float64) float64 {
	flat := dynamo.Flatten(velocities)
	return 0.5 * mass * floats.Dot(flat, flat)
}

// NetMomentum is the momentum proxy Σ v.
func NetMomentum(velocities []dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Sum(velocities)
}

// Stress returns the stress estimate of particle i:
//
//	0.5/V · Σ_j [dU(x_j, x_i) − dU(x_i, x_i)] · Πx_i/‖x_i‖
//
// where dU is the first-derivative pair term. It is zero for a particle
// sitting at the origin.
func Stress(m *physics.Morse, positions []dynamo.Vec3, i int, volume float64) dynamo.Vec3 {
	at := positions[i]
	norm := at.Norm()
	if norm == 0 || volume == 0 {
		return dynamo.Vec3{}
	}

	self := m.FirstDerivative(at, at)
	var sum dynamo.Vec3
	for _, p := range positions {
		sum = sum.Add(m.FirstDerivative(p, at).Sub(self))
	}
	return sum.Scale(at.Prod() / norm * 0.5 / volume)
}

// MeanStress averages Stress over every particle.
func MeanStress(m *physics.Morse, st *sim.State) dynamo.Vec3 {
	n := st.Len()
	if n == 0 {
		return dynamo.Vec3{}
	}
	volume := st.BoxVolume()

	acc := make([]float64, 3)
	for i := 0; i < n; i++ {
		s := Stress(m, st.Positions, i, volume)
		floats.Add(acc, s[:])
	}
	floats.Scale(1/float64(n), acc)
	return dynamo.Vec3{acc[0], acc[1], acc[2]}
}

// TemperatureProxy takes t = mean(v²) per axis and returns ‖t‖/‖t‖², the
// "ALPHA(T)" figure of the relaxation logs. An ensemble at rest reports 0.
func TemperatureProxy(velocities []dynamo.Vec3) float64 {
	if len(velocities) == 0 {
		return 0
	}
	var t dynamo.Vec3
	for _, v := range velocities {
		t = t.Add(v.Mul(v))
	}
	t = t.Scale(1 / float64(len(velocities)))

	norm := floats.Norm(t[:], 2)
	if norm == 0 {
		return 0
	}
	return norm / (norm * norm)
}

// PhysicalVelocity converts a per-step displacement into m/s.
func PhysicalVelocity(v dynamo.Vec3, tau float64) dynamo.Vec3 {
	return v.Scale(1 / tau)
}
