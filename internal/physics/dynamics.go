package physics

import "github.com/san-kum/morsesim/internal/dynamo"

// SecondDerivativeDynamics uses the summed second derivative as the
// acceleration. This is not Newtonian mechanics (that would be −∇U/m); the
// mass enters only through tau.
type SecondDerivativeDynamics struct {
	Model *Morse
}

func NewSecondDerivativeDynamics(m *Morse) *SecondDerivativeDynamics {
	return &SecondDerivativeDynamics{Model: m}
}

func (d *SecondDerivativeDynamics) Acceleration(positions []dynamo.Vec3, at dynamo.Vec3) dynamo.Vec3 {
	return PairSum(d.Model.SecondDerivative, positions, at)
}

func (d *SecondDerivativeDynamics) Name() string { return "second-derivative" }

// NewtonianDynamics uses −∇U/m with the analytic Morse gradient.
type NewtonianDynamics struct {
	Model *Morse
}

func NewNewtonianDynamics(m *Morse) *NewtonianDynamics {
	return &NewtonianDynamics{Model: m}
}

func (d *NewtonianDynamics) Acceleration(positions []dynamo.Vec3, at dynamo.Vec3) dynamo.Vec3 {
	return PairSum(d.Model.Gradient, positions, at).Scale(1 / d.Model.Mass)
}

func (d *NewtonianDynamics) Name() string { return "newtonian" }
