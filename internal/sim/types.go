package sim

import "github.com/san-kum/vibsim/internal/dynamo"

// Result is one completed run. Exact holds I*cos(w*t) on the solver grid.
type Result struct {
	Solver     string
	Params     dynamo.Params
	Trajectory *dynamo.Trajectory
	Exact      []float64
	Metrics    map[string]float64
	Stable     bool
}

// Horizon returns the end time actually simulated.
func (r *Result) Horizon() float64 {
	return r.Trajectory.End()
}

// Samples pairs each solver output with the exact value.
func (r *Result) Samples() []dynamo.Sample {
	tr := r.Trajectory
	out := make([]dynamo.Sample, tr.Len())
	for i := range out {
		out[i] = dynamo.Sample{N: i, T: tr.T[i], U: tr.U[i], Exact: r.Exact[i]}
	}
	return out
}
