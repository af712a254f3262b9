package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/morsesim/internal/dynamo"
)

// Simulator drives one ensemble. It starts Idle; Start and Pause toggle
// between Idle and Running, and a divergent step moves it to Halted for good.
type Simulator struct {
	dyn        Dynamics
	integrator Integrator
	state      *State
	trace      *Trace
	dt         float64
	tracked    int
	every      int
	observers  []Observer

	running       bool
	showTrace     bool
	exitRequested bool
	err           error
}

// New builds a simulator over st with step dt. tracked selects the particle
// whose normalized position is pushed onto the trace every TraceInterval
// iterations.
func New(dyn Dynamics, integrator Integrator, st *State, dt float64, tracked int) (*Simulator, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %g", dynamo.ErrConfiguration, dt)
	}
	if tracked < 0 || tracked >= st.Len() {
		return nil, fmt.Errorf("%w: tracked particle %d not in [0, %d)", dynamo.ErrIndex, tracked, st.Len())
	}
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		state:      st,
		trace:      NewTrace(TraceCapacity, st.Normalized(st.Positions[tracked])),
		dt:         dt,
		tracked:    tracked,
		every:      TraceInterval,
		observers:  make([]Observer, 0),
		showTrace:  true,
	}, nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetTraceInterval changes how often the trace records. Non-positive values
// restore TraceInterval.
func (s *Simulator) SetTraceInterval(n int) {
	if n <= 0 {
		n = TraceInterval
	}
	s.every = n
}

func (s *Simulator) TraceInterval() int { return s.every }

// Step advances the ensemble once if running. It is a no-op while idle or
// after exit was requested, and keeps returning the divergence error once
// the state has gone non-finite.
func (s *Simulator) Step() error {
	if s.err != nil {
		return s.err
	}
	if s.exitRequested || !s.running {
		return nil
	}

	if err := s.integrator.Step(s.dyn, s.state, s.dt); err != nil {
		s.halt(err)
		return s.err
	}
	if i := s.state.Validate(); i >= 0 {
		s.halt(&dynamo.SimulationError{Step: s.state.Iteration, Time: s.state.Time, Particle: i, Wrapped: dynamo.ErrDivergence})
		return s.err
	}

	s.state.Time += s.dt
	s.state.Iteration++
	if s.state.Iteration%s.every == 0 {
		s.trace.Push(s.state.Normalized(s.state.Positions[s.tracked]))
	}

	for _, obs := range s.observers {
		obs.OnStep(s.state)
	}
	return nil
}

func (s *Simulator) halt(err error) {
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		err = &dynamo.SimulationError{Step: s.state.Iteration, Time: s.state.Time, Particle: -1, Wrapped: err}
	}
	s.err = err
	s.running = false
}

// Run starts the simulator and takes up to steps steps, stopping early on
// cancellation, exit request or divergence.
func (s *Simulator) Run(ctx context.Context, steps int) error {
	s.Start()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if s.exitRequested {
			return nil
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) Start() {
	if s.err == nil {
		s.running = true
	}
}

func (s *Simulator) Pause()              { s.running = false }
func (s *Simulator) Running() bool       { return s.running }
func (s *Simulator) ToggleTrace()        { s.showTrace = !s.showTrace }
func (s *Simulator) ShowTrace() bool     { return s.showTrace }
func (s *Simulator) RequestExit()        { s.exitRequested = true }
func (s *Simulator) ExitRequested() bool { return s.exitRequested }
func (s *Simulator) Err() error          { return s.err }
func (s *Simulator) Dt() float64         { return s.dt }
func (s *Simulator) Tracked() int        { return s.tracked }

func (s *Simulator) Phase() Phase {
	switch {
	case s.err != nil:
		return Halted
	case s.running:
		return Running
	}
	return Idle
}

// State returns the owned ensemble. Callers other than the integrator must
// treat it as read-only.
func (s *Simulator) State() *State { return s.state }

func (s *Simulator) TraceBuffer() *Trace { return s.trace }

func (s *Simulator) Positions() []dynamo.Vec3 { return dynamo.Clone(s.state.Positions) }
func (s *Simulator) Colors() []dynamo.Vec3    { return dynamo.Clone(s.state.Colors) }
func (s *Simulator) Trace() []dynamo.Vec3     { return s.trace.Samples() }
