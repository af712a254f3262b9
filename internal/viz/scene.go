package viz

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/sim"
)

var (
	cubeVertices = [8]dynamo.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5},
		{-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	cubeEdges = [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
	}
	axisLength = ViewExtent / 10
	axisOffset = ViewExtent / 1.2
	axisColors = [3]lipgloss.Color{"#ff0000", "#00ff00", "#0000ff"}
)

// Frame is what the scene needs from the engine, all in view coordinates.
type Frame struct {
	Positions []dynamo.Vec3
	Colors    []dynamo.Vec3
	Trace     []dynamo.Vec3
	ShowTrace bool
}

// FrameOf snapshots s with positions mapped into the unit cube.
func FrameOf(s *sim.Simulator) Frame {
	st := s.State()
	positions := s.Positions()
	for i, p := range positions {
		positions[i] = st.Normalized(p)
	}
	return Frame{
		Positions: positions,
		Colors:    s.Colors(),
		Trace:     s.Trace(),
		ShowTrace: s.ShowTrace(),
	}
}

// RGB converts a [0,1]³ color to a hex lipgloss color.
func RGB(c dynamo.Vec3) lipgloss.Color {
	b := func(v float64) int {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return int(v*255 + 0.5)
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", b(c[0]), b(c[1]), b(c[2])))
}

type point struct {
	x, y  int
	depth float64
	color lipgloss.Color
}

// DrawScene clears c and draws the trace, the box, the axis indicator and
// the particles, in that order. Particles are sorted far to near so the
// nearest wins a shared cell.
func DrawScene(c *Canvas, cam *Camera, f Frame, theme Theme) {
	c.Clear()
	w, h := c.PixelSize()

	line := func(a, b dynamo.Vec3, color lipgloss.Color) {
		x0, y0, _, _ := Project(a, w, h)
		x1, y1, _, _ := Project(b, w, h)
		c.DrawLine(x0, y0, x1, y1, color)
	}

	if f.ShowTrace {
		for i := 1; i < len(f.Trace); i++ {
			line(cam.Transform(f.Trace[i-1]), cam.Transform(f.Trace[i]), theme.Trace)
		}
	}

	for _, e := range cubeEdges {
		line(cam.Transform(cubeVertices[e[0]]), cam.Transform(cubeVertices[e[1]]), theme.Bounds)
	}

	shift := dynamo.Vec3{-axisOffset, axisOffset, 0}
	origin := cam.Transform(dynamo.Vec3{}).Add(shift)
	for k := 0; k < 3; k++ {
		var tip dynamo.Vec3
		tip[k] = axisLength
		line(origin, cam.Transform(tip).Add(shift), axisColors[k])
	}

	points := make([]point, 0, len(f.Positions))
	for i, p := range f.Positions {
		x, y, depth, ok := Project(cam.Transform(p), w, h)
		if !ok {
			continue
		}
		color := theme.Value
		if i < len(f.Colors) {
			color = RGB(f.Colors[i])
		}
		points = append(points, point{x, y, depth, color})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].depth < points[j].depth })
	for _, p := range points {
		c.Set(p.x, p.y, p.color)
	}
}
