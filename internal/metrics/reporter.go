package metrics

import (
	"fmt"
	"io"

	"github.com/san-kum/morsesim/internal/dynamo"
)

// Reporter prints reports as plain text blocks.
type Reporter struct {
	w io.Writer
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func FormatVec(v dynamo.Vec3) string {
	return fmt.Sprintf("[%.6e %.6e %.6e]", v[0], v[1], v[2])
}

func (r *Reporter) Write(rep Report) {
	fmt.Fprintf(r.w, "Iteration:         %d\n", rep.Iteration)
	fmt.Fprintf(r.w, "Simulation time:   %.4f s\n", rep.Time)
	fmt.Fprintf(r.w, "Net momentum:      %s\n", FormatVec(rep.NetMomentum))
	fmt.Fprintf(r.w, "Mean stress:       %s\n", FormatVec(rep.MeanStress))
	fmt.Fprintf(r.w, "Kinetic energy:    %.6e\n", rep.KineticEnergy)
	fmt.Fprintf(r.w, "Temperature proxy: %.6e\n", rep.Temperature)
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "R #%d %s\n", rep.Tracked, FormatVec(rep.Position))
	fmt.Fprintf(r.w, "V #%d %s\n", rep.Tracked, FormatVec(rep.Velocity))
	fmt.Fprintf(r.w, "A #%d %s\n", rep.Tracked, FormatVec(rep.Acceleration))
	fmt.Fprintf(r.w, "T #%d %s\n", rep.Tracked, FormatVec(rep.Stress))
	fmt.Fprintln(r.w)
}
