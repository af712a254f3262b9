package sim

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/morsesim/internal/dynamo"
)

// Lattice describes the initial cubic grid.
type Lattice struct {
	GridEdge   int
	Spacing    float64
	Padding    float64
	SpeedScale float64
}

func (l Lattice) Count() int { return l.GridEdge * l.GridEdge * l.GridEdge }

// BoxSize returns gridEdge·spacing + 2·padding.
func (l Lattice) BoxSize() float64 {
	return float64(l.GridEdge)*l.Spacing + 2*l.Padding
}

func (l Lattice) coordinate(index int) float64 {
	g := float64(l.GridEdge)
	return float64(index)*g/(g-1)*l.Spacing + l.Padding
}

// NewLattice places GridEdge³ particles, i outermost and k innermost, and
// applies the paired velocity perturbation drawn from rng.
func NewLattice(l Lattice, rng *rand.Rand) (*State, error) {
	if l.GridEdge < 2 {
		return nil, fmt.Errorf("%w: grid edge must be at least 2, got %d", dynamo.ErrConfiguration, l.GridEdge)
	}

	g := l.GridEdge
	st := NewState(l.Count(), l.BoxSize())

	n := 0
	for i := 0; i < g; i++ {
		for j := 0; j < g; j++ {
			for k := 0; k < g; k++ {
				st.Positions[n] = dynamo.Vec3{l.coordinate(i), l.coordinate(j), l.coordinate(k)}
				st.Colors[n] = dynamo.Vec3{
					1 - float64(i)/float64(g),
					float64(i+1) / float64(g),
					float64(j+1) / float64(g),
				}
				n++
			}
		}
	}

	copy(st.Previous, st.Positions)
	PairedKick(st.Previous, l.SpeedScale, rng)
	st.DeriveVelocities()
	return st, nil
}

// PairedKick adds one random displacement to prev[2p] and subtracts it from
// prev[2p+1], so each pair's net momentum is unchanged. Each component is
// uniform in [-scale, scale]. With an odd count the last entry is untouched.
func PairedKick(prev []dynamo.Vec3, scale float64, rng *rand.Rand) {
	for p := 0; p+1 < len(prev); p += 2 {
		var delta dynamo.Vec3
		for k := range delta {
			delta[k] = (1 - 2*rng.Float64()) * scale
		}
		prev[p] = prev[p].Add(delta)
		prev[p+1] = prev[p+1].Sub(delta)
	}
}
