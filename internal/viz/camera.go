package viz

import (
	"math"

	"github.com/san-kum/morsesim/internal/dynamo"
)

const (
	// ViewExtent is the orthographic half-width of the view volume.
	ViewExtent = 0.85
	// OrbitStep is the angle one arrow key press moves the camera by.
	OrbitStep = math.Pi / 24
	// ThetaMargin keeps the camera off the poles, where the look-at basis
	// degenerates.
	ThetaMargin = 0.2
)

var worldUp = dynamo.Vec3{0, 0, 1}

// Camera orbits the origin on a sphere of radius R. Phi is the azimuth in
// the xy plane and Theta the polar angle from +z.
type Camera struct {
	R, Phi, Theta float64
	lookAt        [3]dynamo.Vec3
}

func NewCamera() *Camera {
	c := &Camera{R: 1}
	c.Preset(4)
	return c
}

// Position is the camera location in view coordinates.
func (c *Camera) Position() dynamo.Vec3 {
	return dynamo.Vec3{
		c.R * math.Sin(c.Theta) * math.Cos(c.Phi),
		c.R * math.Sin(c.Theta) * math.Sin(c.Phi),
		c.R * math.Cos(c.Theta),
	}
}

func (c *Camera) update() {
	dir := c.Position().Normalize()
	right := dir.Cross(worldUp).Normalize()
	up := dir.Cross(right).Normalize()
	c.lookAt = [3]dynamo.Vec3{right, up, dir}
}

// LookAt returns the rotation rows (right, up, direction). The camera
// translation is not part of it: the orthographic view only needs the
// orientation.
func (c *Camera) LookAt() [3]dynamo.Vec3 { return c.lookAt }

// Transform rotates a view-space point into camera space.
func (c *Camera) Transform(p dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Vec3{c.lookAt[0].Dot(p), c.lookAt[1].Dot(p), c.lookAt[2].Dot(p)}
}

// OrbitDown and OrbitUp only move while Theta is inside the margin, so one
// press may end slightly past it.
func (c *Camera) OrbitDown() {
	if c.Theta <= math.Pi-ThetaMargin {
		c.Theta += OrbitStep
	}
	c.update()
}

func (c *Camera) OrbitUp() {
	if c.Theta >= ThetaMargin {
		c.Theta -= OrbitStep
	}
	c.update()
}

func (c *Camera) OrbitLeft() {
	c.Phi -= OrbitStep
	c.update()
}

func (c *Camera) OrbitRight() {
	c.Phi += OrbitStep
	c.update()
}

// Preset jumps to one of the four stock views. Unknown numbers are ignored.
func (c *Camera) Preset(n int) {
	switch n {
	case 1:
		c.Phi, c.Theta = math.Pi/4, 2.186276
	case 2:
		c.Phi, c.Theta = math.Pi/4, math.Pi/2
	case 3:
		c.Phi, c.Theta = 0, math.Pi/2
	case 4:
		c.Phi, c.Theta = math.Pi/6, math.Pi/3
	default:
		return
	}
	c.update()
}

// Project maps a camera-space point onto a w×h dot grid. Both screen axes
// are mirrored, matching an ortho volume of (ViewExtent, −ViewExtent) on x
// and y. The returned depth grows toward the camera.
func Project(p dynamo.Vec3, w, h int) (int, int, float64, bool) {
	side := w
	if h < side {
		side = h
	}
	ox, oy := (w-side)/2, (h-side)/2

	ndcX := -p[0] / ViewExtent
	ndcY := -p[1] / ViewExtent
	x := ox + int(math.Round((ndcX+1)/2*float64(side-1)))
	y := oy + int(math.Round((1-ndcY)/2*float64(side-1)))

	visible := ndcX >= -1 && ndcX <= 1 && ndcY >= -1 && ndcY <= 1
	return x, y, p[2], visible
}
