package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/vibsim/internal/dynamo"
)

// MaxError tracks the largest |u - exact| over a run.
type MaxError struct {
	name string
	max  float64
}

func NewMaxError() *MaxError {
	return &MaxError{name: "max_error"}
}

func (m *MaxError) Name() string { return m.name }

func (m *MaxError) Reset(p dynamo.Params) { m.max = 0 }

func (m *MaxError) Observe(s dynamo.Sample) {
	m.max = math.Max(m.max, math.Abs(s.U-s.Exact))
}

func (m *MaxError) Value() float64 { return m.max }

// RMSError is the root mean square of u - exact.
type RMSError struct {
	name    string
	sumSq   float64
	samples int
}

func NewRMSError() *RMSError {
	return &RMSError{name: "rms_error"}
}

func (r *RMSError) Name() string { return r.name }

func (r *RMSError) Reset(p dynamo.Params) {
	r.sumSq = 0
	r.samples = 0
}

func (r *RMSError) Observe(s dynamo.Sample) {
	d := s.U - s.Exact
	r.sumSq += d * d
	r.samples++
}

func (r *RMSError) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

// ErrorNorm returns the L-norm of u - exact; use math.Inf(1) for the max norm.
// Both slices must have the same length.
func ErrorNorm(u, exact []float64, L float64) float64 {
	return floats.Distance(u, exact, L)
}
