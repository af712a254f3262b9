package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/morsesim/internal/dynamo"
)

func TestNewLatticePositions(t *testing.T) {
	l := Lattice{GridEdge: 3, Spacing: 2.0, Padding: 1.0}
	st, err := NewLattice(l, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("lattice failed: %v", err)
	}

	if st.Len() != 27 {
		t.Fatalf("expected 27 particles, got %d", st.Len())
	}
	if st.BoxSize != 8.0 {
		t.Errorf("expected box size 8, got %f", st.BoxSize)
	}

	// particle (i, j, k) = (1, 2, 0) sits at index 1*9 + 2*3 + 0
	p := st.Positions[15]
	step := 3.0 / 2.0 * 2.0
	want := dynamo.Vec3{1*step + 1, 2*step + 1, 1}
	for k := range p {
		if math.Abs(p[k]-want[k]) > 1e-12 {
			t.Errorf("position[15] = %v, want %v", p, want)
			break
		}
	}

	for i, p := range st.Positions {
		for k := range p {
			if p[k] < 0 || p[k] > st.BoxSize {
				t.Errorf("particle %d starts outside the box: %v", i, p)
			}
		}
	}
}

func TestNewLatticeColors(t *testing.T) {
	st, err := NewLattice(Lattice{GridEdge: 2, Spacing: 1, Padding: 1}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("lattice failed: %v", err)
	}

	// index 6 is (i, j, k) = (1, 1, 0)
	want := dynamo.Vec3{0.5, 1.0, 1.0}
	if st.Colors[6] != want {
		t.Errorf("color[6] = %v, want %v", st.Colors[6], want)
	}
	if st.Colors[0] != (dynamo.Vec3{1, 0.5, 0.5}) {
		t.Errorf("color[0] = %v", st.Colors[0])
	}
}

func TestNewLatticeRejectsSmallGrid(t *testing.T) {
	for _, g := range []int{-1, 0, 1} {
		_, err := NewLattice(Lattice{GridEdge: g, Spacing: 1}, rand.New(rand.NewSource(1)))
		if !errors.Is(err, dynamo.ErrConfiguration) {
			t.Errorf("grid edge %d: expected ErrConfiguration, got %v", g, err)
		}
	}
}

func TestPairedKickConservesPairSums(t *testing.T) {
	prev := []dynamo.Vec3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {1, 1, 1}, {2, 2, 2}}
	before := dynamo.Clone(prev)

	PairedKick(prev, 0.5, rand.New(rand.NewSource(7)))

	for p := 0; p+1 < len(prev); p += 2 {
		want := before[p].Add(before[p+1])
		got := prev[p].Add(prev[p+1])
		for k := range got {
			if math.Abs(got[k]-want[k]) > 1e-12 {
				t.Errorf("pair %d sum changed: %v -> %v", p/2, want, got)
			}
		}
		if prev[p] == before[p] {
			t.Errorf("pair %d was not perturbed", p/2)
		}
	}

	if prev[4] != before[4] {
		t.Errorf("unpaired particle moved: %v -> %v", before[4], prev[4])
	}
}

func TestPairedKickBounds(t *testing.T) {
	prev := make([]dynamo.Vec3, 200)
	PairedKick(prev, 0.25, rand.New(rand.NewSource(3)))
	for i, v := range prev {
		for k := range v {
			if math.Abs(v[k]) > 0.25 {
				t.Fatalf("component %d of particle %d out of range: %f", k, i, v[k])
			}
		}
	}
}

func TestNewLatticeOddCountLeavesLastAtRest(t *testing.T) {
	st, err := NewLattice(Lattice{GridEdge: 3, Spacing: 1, Padding: 1, SpeedScale: 0.1}, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("lattice failed: %v", err)
	}
	last := st.Len() - 1
	if st.Previous[last] != st.Positions[last] {
		t.Errorf("unpaired particle has previous %v != position %v", st.Previous[last], st.Positions[last])
	}
	if st.Velocities[last] != (dynamo.Vec3{}) {
		t.Errorf("unpaired particle velocity = %v", st.Velocities[last])
	}
}

func TestNewLatticeAtRest(t *testing.T) {
	st, err := NewLattice(Lattice{GridEdge: 2, Spacing: 1e-16, Padding: 1e-16}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("lattice failed: %v", err)
	}
	if st.Len() != 8 {
		t.Fatalf("expected 8 particles, got %d", st.Len())
	}
	for i, v := range st.Velocities {
		if v != (dynamo.Vec3{}) {
			t.Errorf("velocity[%d] = %v, want zero", i, v)
		}
	}
	if sum := dynamo.Sum(st.Velocities); sum != (dynamo.Vec3{}) {
		t.Errorf("net velocity = %v", sum)
	}
}

func TestNewLatticeVelocitiesCancel(t *testing.T) {
	st, err := NewLattice(Lattice{GridEdge: 2, Spacing: 1e-16, Padding: 1e-16, SpeedScale: 1e-18}, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("lattice failed: %v", err)
	}
	sum := dynamo.Sum(st.Velocities)
	if sum.Norm() > 1e-30 {
		t.Errorf("initial net velocity should cancel, got %v", sum)
	}
}
