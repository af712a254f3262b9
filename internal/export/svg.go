package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/morsesim/internal/metrics"
	"github.com/san-kum/morsesim/internal/sim"
	"github.com/san-kum/morsesim/internal/viz"
)

// Plane selects the two coordinates a trajectory is projected onto.
type Plane [2]int

var (
	PlaneXY = Plane{0, 1}
	PlaneXZ = Plane{0, 2}
	PlaneYZ = Plane{1, 2}
)

var Planes = map[string]Plane{
	"xy": PlaneXY,
	"xz": PlaneXZ,
	"yz": PlaneYZ,
}

type Point struct{ X, Y float64 }

// TrackedPath projects the tracked particle position of every report.
func TrackedPath(reports []metrics.Report, plane Plane) []Point {
	points := make([]Point, len(reports))
	for i, r := range reports {
		points[i] = Point{r.Position[plane[0]], r.Position[plane[1]]}
	}
	return points
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in the
// color of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64, background string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	pw, ph := canvas.PixelSize()
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			color := string(canvas.Colors[y/4][x/2])
			if color == "" {
				color = "#ffffff"
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, color)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SceneToSVG renders the current lattice through cam at the given canvas size
// in cells.
func SceneToSVG(s *sim.Simulator, cam *viz.Camera, cols, rows int, theme viz.Theme) string {
	canvas := viz.NewCanvas(cols, rows)
	viz.DrawScene(canvas, cam, viz.FrameOf(s), theme)
	return CanvasToSVG(canvas, 4, "#0a0a0a")
}

// TrajectoryToSVG draws points as a single polyline scaled to fit with 10%
// padding. Fewer than two points yield an empty string.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
