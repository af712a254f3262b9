package integrators

import "github.com/san-kum/morsesim/internal/dynamo"

// SwapBoundary exchanges the position and previous-position values on every
// axis whose position left [0, box]. Nothing is clamped: the swap reverses the
// next derived displacement on that axis only. A coordinate exactly on the
// boundary stays. It returns the number of swapped axes.
func SwapBoundary(pos, prev *dynamo.Vec3, box float64) int {
	swapped := 0
	for k := 0; k < 3; k++ {
		if pos[k] > box || pos[k] < 0 {
			pos[k], prev[k] = prev[k], pos[k]
			swapped++
		}
	}
	return swapped
}
