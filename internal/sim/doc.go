// Package sim owns the particle ensemble and the stepping loop.
//
// A [State] holds positions, previous positions, derived velocities and the
// simulation clock. [NewLattice] builds the initial cubic lattice with paired,
// momentum-conserving perturbations. A [Simulator] advances the state once per
// tick while running, pushes the tracked particle onto its [Trace] every
// [TraceInterval] iterations and notifies observers after each step.
//
// The state has a single writer: the integrator, called from
// [Simulator.Step]. Observers and renderers read it between steps.
package sim
