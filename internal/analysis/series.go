package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/morsesim/internal/metrics"
)

// Field picks one scalar out of a report.
type Field func(metrics.Report) float64

var (
	KineticEnergy Field = func(r metrics.Report) float64 { return r.KineticEnergy }
	Temperature   Field = func(r metrics.Report) float64 { return r.Temperature }
	StressX       Field = func(r metrics.Report) float64 { return r.MeanStress[0] }
	TrackedX      Field = func(r metrics.Report) float64 { return r.Position[0] }
	TrackedSpeed  Field = func(r metrics.Report) float64 { return r.Velocity.Norm() }
)

// Fields maps the names accepted on the command line.
var Fields = map[string]Field{
	"kinetic_energy": KineticEnergy,
	"temperature":    Temperature,
	"stress_x":       StressX,
	"tracked_x":      TrackedX,
	"tracked_speed":  TrackedSpeed,
}

func Column(reports []metrics.Report, f Field) []float64 {
	out := make([]float64, len(reports))
	for i, r := range reports {
		out[i] = f(r)
	}
	return out
}

// Detrend subtracts the least-squares line through (i, data[i]).
func Detrend(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) < 2 {
		return out
	}
	x := make([]float64, len(data))
	floats.Span(x, 0, float64(len(data)-1))
	alpha, beta := stat.LinearRegression(x, data, nil, false)

	for i, v := range data {
		out[i] = v - (alpha + beta*x[i])
	}
	return out
}

type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{N: len(data), Min: floats.Min(data), Max: floats.Max(data)}
	if len(data) == 1 {
		s.Mean = data[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	return s
}
