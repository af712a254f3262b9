package physics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/morsesim/internal/dynamo"
)

var _ = Describe("Dynamics", func() {
	m := barium()

	It("matches PairSum of the second derivative", func() {
		ps := []dynamo.Vec3{{0, 0, 0}, {1e-16, 0, 0}, {0, 2e-16, 0}}
		d := NewSecondDerivativeDynamics(m)
		Expect(d.Acceleration(ps, ps[1])).To(Equal(PairSum(m.SecondDerivative, ps, ps[1])))
		Expect(d.Name()).To(Equal("second-derivative"))
	})

	It("pulls a stretched pair together under Newtonian dynamics", func() {
		ps := []dynamo.Vec3{{0, 0, 0}, {1.5 * m.Rm, 0, 0}}
		d := NewNewtonianDynamics(m)
		acc := d.Acceleration(ps, ps[0])
		Expect(acc[0]).To(BeNumerically(">", 0))
		Expect(acc[1]).To(BeZero())
	})

	It("pushes a compressed pair apart under Newtonian dynamics", func() {
		ps := []dynamo.Vec3{{0, 0, 0}, {0.5 * m.Rm, 0, 0}}
		acc := NewNewtonianDynamics(m).Acceleration(ps, ps[0])
		Expect(acc[0]).To(BeNumerically("<", 0))
	})

	It("conserves momentum pairwise under Newtonian dynamics", func() {
		ps := []dynamo.Vec3{{1e-10, 2e-10, 0}, {4e-10, 0, 3e-10}}
		d := NewNewtonianDynamics(m)
		sum := d.Acceleration(ps, ps[0]).Add(d.Acceleration(ps, ps[1]))
		Expect(sum.Norm()).To(BeNumerically("<", d.Acceleration(ps, ps[0]).Norm()*1e-12))
	})
})
