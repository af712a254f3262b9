// Package viz is the terminal shell around the engine: a Bubble Tea model
// that steps the simulator once per frame and draws the ensemble on a
// colored braille [Canvas] through an orbiting orthographic [Camera].
//
// # Key Bindings
//
//	Enter     - Start the simulation
//	P         - Pause
//	Q         - Quit
//	T         - Toggle the tracked particle's trace
//	Arrows    - Orbit the camera
//	F1..F4    - Stock views
//	C         - Cycle color themes
//	?         - Show help overlay
//
// The engine state is only read here; Step is the single writer.
package viz
