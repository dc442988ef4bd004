package physics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Oscillator is the undamped harmonic oscillator u'' + w²u = 0 released from
// rest at displacement I.
type Oscillator struct {
	I float64
	W float64
}

func NewOscillator(i, w float64) *Oscillator {
	return &Oscillator{I: i, W: w}
}

// Displacement returns the closed-form solution I*cos(w*t).
func (o *Oscillator) Displacement(t float64) float64 {
	return o.I * math.Cos(o.W*t)
}

// Velocity returns -I*w*sin(w*t).
func (o *Oscillator) Velocity(t float64) float64 {
	return -o.I * o.W * math.Sin(o.W*t)
}

// Exact samples the closed-form solution on ts.
func (o *Oscillator) Exact(ts []float64) []float64 {
	u := make([]float64, len(ts))
	for i, t := range ts {
		u[i] = o.Displacement(t)
	}
	return u
}

// Energy returns the conserved quantity 0.5*(v² + w²u²) per unit mass.
func (o *Oscillator) Energy(u, v float64) float64 {
	return 0.5 * (v*v + o.W*o.W*u*u)
}

// Period returns 2π/|w|, or +Inf for w = 0.
func (o *Oscillator) Period() float64 {
	if o.W == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / math.Abs(o.W)
}

// StabilityLimit returns the largest dt for which the central scheme stays
// bounded, 2/|w|.
func (o *Oscillator) StabilityLimit() float64 {
	if o.W == 0 {
		return math.Inf(1)
	}
	return 2 / math.Abs(o.W)
}

// NumericalFrequency returns the angular frequency the central scheme
// actually oscillates at, (2/dt)*asin(w*dt/2). It is NaN past the
// stability limit.
func (o *Oscillator) NumericalFrequency(dt float64) float64 {
	x := math.Abs(o.W) * dt / 2
	if x > 1 {
		return math.NaN()
	}
	return 2 / dt * math.Asin(x)
}

// PhaseError returns the accumulated phase lag (w̃ - w)*t at time t.
func (o *Oscillator) PhaseError(dt, t float64) float64 {
	return (o.NumericalFrequency(dt) - math.Abs(o.W)) * t
}

// Exact samples I*cos(w*t) on ts.
func Exact(ts []float64, i, w float64) []float64 {
	return NewOscillator(i, w).Exact(ts)
}

// ExactAt is the scalar form of Exact.
func ExactAt(t, i, w float64) float64 {
	return i * math.Cos(w*t)
}

// FineGrid returns n points spaced evenly over [start, end], both included.
func FineGrid(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	ts := make([]float64, n)
	floats.Span(ts, start, end)
	return ts
}
