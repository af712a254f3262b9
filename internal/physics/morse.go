package physics

import (
	"math"

	"github.com/san-kum/morsesim/internal/dynamo"
)

const (
	// ReferenceLength nondimensionalizes the Morse exponent (1 Å).
	ReferenceLength = 1e-10
	// Regularizer keeps the pair direction finite at zero separation.
	Regularizer = 1e-100
)

// PairFunc evaluates a vector-valued pair interaction between a and b.
type PairFunc func(a, b dynamo.Vec3) dynamo.Vec3

// Morse holds the four physical constants of a run.
type Morse struct {
	Alpha   float64 // well shape, dimensionless
	Epsilon float64 // well depth, J
	Mass    float64 // particle mass, kg
	Rm      float64 // equilibrium pair distance, m
}

func NewMorse(alpha, epsilon, mass, rm float64) *Morse {
	return &Morse{Alpha: alpha, Epsilon: epsilon, Mass: mass, Rm: rm}
}

// Stiffness returns C = 2·ε·α².
func (m *Morse) Stiffness() float64 {
	return 2 * m.Epsilon * m.Alpha * m.Alpha
}

// CharacteristicStep returns tau = 2π·√(m/C)·multiplier.
func (m *Morse) CharacteristicStep(multiplier float64) float64 {
	return 2 * math.Pi * math.Sqrt(m.Mass/m.Stiffness()) * multiplier
}

// Distance is the Euclidean norm of a - b.
func Distance(a, b dynamo.Vec3) float64 {
	return a.Sub(b).Norm()
}

// Distances is the batch form of Distance: one norm per row of batch.
func Distances(batch []dynamo.Vec3, b dynamo.Vec3) []float64 {
	out := make([]float64, len(batch))
	for i, a := range batch {
		out[i] = Distance(a, b)
	}
	return out
}

// ReducedSeparation returns s = α·(r − r_m)/ReferenceLength.
func (m *Morse) ReducedSeparation(a, b dynamo.Vec3) float64 {
	return m.reduced(Distance(a, b))
}

func (m *Morse) reduced(r float64) float64 {
	return m.Alpha * (r - m.Rm) / ReferenceLength
}

// Potential is the scalar Morse energy ε·(e^{−2s} − 2e^{−s}) at separation r.
func (m *Morse) Potential(r float64) float64 {
	s := m.reduced(r)
	return m.Epsilon * (math.Exp(-2*s) - 2*math.Exp(-s))
}

func direction(a, b dynamo.Vec3, r float64) dynamo.Vec3 {
	return a.Sub(b).Scale(1 / (r + Regularizer))
}

func (m *Morse) Energy(a, b dynamo.Vec3) dynamo.Vec3 {
	r := Distance(a, b)
	return direction(a, b, r).Scale(m.Potential(r))
}

// FirstDerivative scales the pair direction by ε·(−2e^{−2s} + 2α·e^{−s}).
//
// This is the derivative form the stress diagnostic is defined on. It only
// vanishes at r_m when α = 1; see Gradient for the analytic dU/dr.
func (m *Morse) FirstDerivative(a, b dynamo.Vec3) dynamo.Vec3 {
	r := Distance(a, b)
	s := m.reduced(r)
	k := m.Epsilon * (-2*math.Exp(-2*s) + 2*m.Alpha*math.Exp(-s))
	return direction(a, b, r).Scale(k)
}

// SecondDerivative scales the pair direction by ε·(4α²e^{−2s} − 2α²e^{−s}).
func (m *Morse) SecondDerivative(a, b dynamo.Vec3) dynamo.Vec3 {
	r := Distance(a, b)
	s := m.reduced(r)
	a2 := m.Alpha * m.Alpha
	k := m.Epsilon * (4*a2*math.Exp(-2*s) - 2*a2*math.Exp(-s))
	return direction(a, b, r).Scale(k)
}

// Gradient scales the pair direction by dU/dr = 2αε/L · (e^{−s} − e^{−2s}).
//
// The force on a from b is -Gradient(a, b), so Gradient(b, a)/mass summed over
// partners b is the Newtonian acceleration of a.
func (m *Morse) Gradient(a, b dynamo.Vec3) dynamo.Vec3 {
	r := Distance(a, b)
	s := m.reduced(r)
	k := 2 * m.Alpha * m.Epsilon / ReferenceLength * (math.Exp(-s) - math.Exp(-2*s))
	return direction(a, b, r).Scale(k)
}

// PairSum returns Σ_j f(positions[j], at) − f(at, at).
//
// The self pair is part of the sum (at is normally one of positions) and is
// cancelled afterwards rather than skipped.
func PairSum(f PairFunc, positions []dynamo.Vec3, at dynamo.Vec3) dynamo.Vec3 {
	var sum dynamo.Vec3
	for _, p := range positions {
		sum = sum.Add(f(p, at))
	}
	return sum.Sub(f(at, at))
}
