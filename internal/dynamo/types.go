package dynamo

import "math"

// Vec3 is a point or displacement in box coordinates.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v[0], -v[1], -v[2]} }
func (v Vec3) Dot(o Vec3) float64   { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }
func (v Vec3) Norm() float64        { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v[1]*o[2] - v[2]*o[1], v[2]*o[0] - v[0]*o[2], v[0]*o[1] - v[1]*o[0]}
}

// Prod is the product of the three components.
func (v Vec3) Prod() float64 { return v[0] * v[1] * v[2] }

// Mul multiplies componentwise.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]} }

func (v Vec3) Normalize() Vec3 {
	if n := v.Norm(); n != 0 {
		return v.Scale(1 / n)
	}
	return Vec3{}
}

func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Sum adds up a slice of vectors.
func Sum(vs []Vec3) Vec3 {
	var s Vec3
	for _, v := range vs {
		s = s.Add(v)
	}
	return s
}

// Clone copies a slice of vectors.
func Clone(vs []Vec3) []Vec3 {
	c := make([]Vec3, len(vs))
	copy(c, vs)
	return c
}

// Flatten lays vectors out as x0, y0, z0, x1, ... for bulk reductions.
func Flatten(vs []Vec3) []float64 {
	out := make([]float64, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
