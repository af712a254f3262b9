package sim

import "github.com/san-kum/morsesim/internal/dynamo"

// TraceCapacity is the number of samples kept for the tracked particle.
const TraceCapacity = 100

// TraceInterval is the default number of iterations between trace samples.
const TraceInterval = 100

// Trace is a fixed-size history, oldest sample first.
type Trace struct {
	samples []dynamo.Vec3
}

// NewTrace returns a trace of the given capacity with every slot set to fill.
func NewTrace(capacity int, fill dynamo.Vec3) *Trace {
	t := &Trace{samples: make([]dynamo.Vec3, capacity)}
	for i := range t.samples {
		t.samples[i] = fill
	}
	return t
}

// Push drops the oldest sample and appends v.
func (t *Trace) Push(v dynamo.Vec3) {
	if len(t.samples) == 0 {
		return
	}
	copy(t.samples, t.samples[1:])
	t.samples[len(t.samples)-1] = v
}

func (t *Trace) Len() int { return len(t.samples) }

func (t *Trace) Latest() dynamo.Vec3 {
	if len(t.samples) == 0 {
		return dynamo.Vec3{}
	}
	return t.samples[len(t.samples)-1]
}

// Samples returns a copy, oldest first.
func (t *Trace) Samples() []dynamo.Vec3 {
	return dynamo.Clone(t.samples)
}
