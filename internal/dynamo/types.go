package dynamo

import (
	"math"
)

// MaxSteps bounds N so a tiny dt cannot request an unbounded allocation.
const MaxSteps = 1 << 26

// Params describes one run: u(0) = I, u'(0) = 0, angular frequency W,
// fixed step Dt over the horizon (0, T].
type Params struct {
	I  float64 `json:"i" yaml:"i"`
	W  float64 `json:"w" yaml:"w"`
	Dt float64 `json:"dt" yaml:"dt"`
	T  float64 `json:"t" yaml:"t"`
}

// Validate reports the first parameter the solver cannot discretize.
func (p Params) Validate() error {
	if !(p.Dt > 0) || math.IsInf(p.Dt, 0) {
		return &ParameterError{Name: "dt", Value: p.Dt, Reason: "must be positive and finite"}
	}
	if !(p.T > 0) || math.IsInf(p.T, 0) {
		return &ParameterError{Name: "T", Value: p.T, Reason: "must be positive and finite"}
	}
	if math.IsNaN(p.I) || math.IsInf(p.I, 0) {
		return &ParameterError{Name: "I", Value: p.I, Reason: "must be finite"}
	}
	if math.IsNaN(p.W) || math.IsInf(p.W, 0) {
		return &ParameterError{Name: "w", Value: p.W, Reason: "must be finite"}
	}
	if r := math.RoundToEven(p.T / p.Dt); r > MaxSteps {
		return &ParameterError{Name: "T/dt", Value: r, Reason: "exceeds step limit"}
	}
	return nil
}

// Steps returns N = round(T/dt), rounding halves to even.
// The simulated horizon is N*dt, which differs from T when T/dt is not integral.
func (p Params) Steps() int {
	return int(math.RoundToEven(p.T / p.Dt))
}

// Horizon returns the end time actually reached, N*dt.
func (p Params) Horizon() float64 {
	return float64(p.Steps()) * p.Dt
}

// Courant returns w*dt, the dimensionless step. The scheme is stable for |w*dt| < 2.
func (p Params) Courant() float64 {
	return math.Abs(p.W) * p.Dt
}

// Trajectory holds displacement samples U[i] at times T[i] = i*dt.
type Trajectory struct {
	U []float64
	T []float64
}

// Len returns the number of samples, N+1.
func (tr *Trajectory) Len() int {
	return len(tr.U)
}

// Steps returns N.
func (tr *Trajectory) Steps() int {
	return len(tr.U) - 1
}

// End returns the final sample time, or 0 for an empty trajectory.
func (tr *Trajectory) End() float64 {
	if len(tr.T) == 0 {
		return 0
	}
	return tr.T[len(tr.T)-1]
}

// Dt returns the grid spacing, or 0 for a single-sample trajectory.
func (tr *Trajectory) Dt() float64 {
	if len(tr.T) < 2 {
		return 0
	}
	return tr.T[1] - tr.T[0]
}

// Check verifies the pairing invariant.
func (tr *Trajectory) Check() error {
	if len(tr.U) == 0 {
		return ErrEmptyTrajectory
	}
	if len(tr.U) != len(tr.T) {
		return ErrLengthMismatch
	}
	return nil
}

func (tr *Trajectory) Clone() *Trajectory {
	c := &Trajectory{
		U: make([]float64, len(tr.U)),
		T: make([]float64, len(tr.T)),
	}
	copy(c.U, tr.U)
	copy(c.T, tr.T)
	return c
}

// Sample is one solver output point with the exact solution at the same time.
type Sample struct {
	N     int
	T     float64
	U     float64
	Exact float64
}

// Metric accumulates a scalar over the samples of one run.
type Metric interface {
	Name() string
	Reset(p Params)
	Observe(s Sample)
	Value() float64
}

// Solver produces a complete trajectory for a parameter set.
type Solver interface {
	Name() string
	Solve(p Params) (*Trajectory, error)
}
