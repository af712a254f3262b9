package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/morsesim/internal/dynamo"
)

// barium constants
func barium() *Morse {
	return NewMorse(0.65698, 22.69e-21, 228.05e-27, 5.373e-10)
}

var _ = Describe("Morse", func() {
	var m *Morse

	BeforeEach(func() {
		m = barium()
	})

	Describe("derived constants", func() {
		It("computes C = 2·ε·α²", func() {
			Expect(m.Stiffness()).To(BeNumerically("~", 2*22.69e-21*0.65698*0.65698, 1e-30))
		})

		It("computes tau from mass, stiffness and the multiplier", func() {
			expected := 2 * math.Pi * math.Sqrt(m.Mass/m.Stiffness()) * 0.05
			Expect(m.CharacteristicStep(0.05)).To(BeNumerically("~", expected, expected*1e-12))
		})
	})

	Describe("Distance", func() {
		It("is the Euclidean norm of the displacement", func() {
			Expect(Distance(dynamo.Vec3{3, 4, 0}, dynamo.Vec3{})).To(BeNumerically("~", 5, 1e-12))
		})

		It("returns one norm per row in batch form", func() {
			d := Distances([]dynamo.Vec3{{1, 0, 0}, {0, 2, 0}, {0, 0, 0}}, dynamo.Vec3{})
			Expect(d).To(HaveLen(3))
			Expect(d[0]).To(BeNumerically("~", 1, 1e-12))
			Expect(d[1]).To(BeNumerically("~", 2, 1e-12))
			Expect(d[2]).To(BeZero())
		})
	})

	Describe("ReducedSeparation", func() {
		It("uses the 1 Å reference length, not r_m", func() {
			a := dynamo.Vec3{m.Rm + 1e-10, 0, 0}
			Expect(m.ReducedSeparation(a, dynamo.Vec3{})).To(BeNumerically("~", m.Alpha, 1e-9))
		})

		It("is zero at the equilibrium distance", func() {
			Expect(m.ReducedSeparation(dynamo.Vec3{m.Rm, 0, 0}, dynamo.Vec3{})).To(BeNumerically("~", 0, 1e-9))
		})
	})

	Describe("self pair", func() {
		x := dynamo.Vec3{1e-16, 2e-16, 3e-16}

		It("is finite for every derivative", func() {
			Expect(m.Energy(x, x).IsFinite()).To(BeTrue())
			Expect(m.FirstDerivative(x, x).IsFinite()).To(BeTrue())
			Expect(m.SecondDerivative(x, x).IsFinite()).To(BeTrue())
			Expect(m.Gradient(x, x).IsFinite()).To(BeTrue())
		})

		It("leaves a single-particle ensemble with exactly zero acceleration", func() {
			acc := PairSum(m.SecondDerivative, []dynamo.Vec3{x}, x)
			Expect(acc).To(Equal(dynamo.Vec3{}))
		})
	})

	Describe("pair symmetry", func() {
		a := dynamo.Vec3{1e-16, 0, 3e-16}
		b := dynamo.Vec3{4e-16, 2e-16, 0}

		It("antisymmetrizes the first derivative", func() {
			Expect(m.FirstDerivative(a, b)).To(Equal(m.FirstDerivative(b, a).Neg()))
		})

		It("antisymmetrizes the second derivative and the gradient", func() {
			Expect(m.SecondDerivative(a, b)).To(Equal(m.SecondDerivative(b, a).Neg()))
			Expect(m.Gradient(a, b)).To(Equal(m.Gradient(b, a).Neg()))
		})

		It("points along the displacement", func() {
			f := m.SecondDerivative(a, b)
			d := a.Sub(b)
			Expect(f.Cross(d).Norm()).To(BeNumerically("<", f.Norm()*d.Norm()*1e-12))
		})
	})

	Describe("equilibrium pair", func() {
		var (
			a, b dynamo.Vec3
			unit dynamo.Vec3
		)

		BeforeEach(func() {
			a = dynamo.Vec3{0, 0, 0}
			b = dynamo.Vec3{m.Rm, 0, 0}
			unit = a.Sub(b).Normalize()
		})

		It("has energy at its minimum -ε", func() {
			Expect(m.Potential(m.Rm)).To(BeNumerically("~", -m.Epsilon, m.Epsilon*1e-12))
			e := m.Energy(a, b)
			Expect(e.Dot(unit)).To(BeNumerically("~", -m.Epsilon, m.Epsilon*1e-12))
			Expect(m.Potential(m.Rm * 1.1)).To(BeNumerically(">", m.Potential(m.Rm)))
			Expect(m.Potential(m.Rm * 0.9)).To(BeNumerically(">", m.Potential(m.Rm)))
		})

		It("is force free under the first derivative when α = 1", func() {
			m.Alpha = 1
			Expect(m.FirstDerivative(a, b).Norm()).To(BeNumerically("~", 0, 1e-40))
		})

		It("is force free under the analytic gradient for any α", func() {
			Expect(m.Gradient(a, b).Norm()).To(BeNumerically("~", 0, 1e-30))
		})
	})

	Describe("PairSum", func() {
		It("sums every partner and cancels the self term", func() {
			ps := []dynamo.Vec3{{0, 0, 0}, {3e-10, 0, 0}, {0, 4e-10, 0}}
			got := PairSum(m.Gradient, ps, ps[0])
			want := m.Gradient(ps[1], ps[0]).Add(m.Gradient(ps[2], ps[0]))
			for k := 0; k < 3; k++ {
				Expect(got[k]).To(BeNumerically("~", want[k], math.Abs(want[k])*1e-12+1e-40))
			}
		})
	})
})
