// Package dynamo provides the primitives shared by the simulation packages.
//
// The package defines:
//
//   - [Vec3]: a 3-component vector in box coordinates (meters)
//   - [SimulationError]: a step failure carrying the step, time and particle
//   - sentinel errors for the configuration and divergence taxonomy
//
// # Thread Safety
//
// Nothing here is synchronized. A simulation has a single writer (the
// integrator); readers only look at the state between steps.
package dynamo
