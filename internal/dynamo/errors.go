package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates a run parameter outside its valid range.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrIndex indicates a particle index outside [0, N).
	ErrIndex = errors.New("dynamo: particle index out of range")

	// ErrDivergence indicates a position or velocity became NaN or Inf.
	ErrDivergence = errors.New("dynamo: numerical divergence (NaN or Inf detected)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step     int
	Time     float64
	Particle int
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g s) particle %d: %v", e.Step, e.Time, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
