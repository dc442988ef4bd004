package metrics

import (
	"math"

	"github.com/san-kum/vibsim/internal/dynamo"
)

// DiscreteEnergy returns the invariant of the central scheme between two
// consecutive samples, 0.5*(((u1-u0)/dt)² + w²*u1*u0). It is constant along
// any trajectory the recurrence produces, stable or not.
func DiscreteEnergy(u0, u1, dt, w float64) float64 {
	v := (u1 - u0) / dt
	return 0.5 * (v*v + w*w*u1*u0)
}

// EnergyDrift reports the largest relative change of the discrete energy
// over a run. Anything above round-off means the samples did not come from
// the recurrence.
type EnergyDrift struct {
	name     string
	dt, w    float64
	prev     float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Reset(p dynamo.Params) {
	e.dt, e.w = p.Dt, p.W
	e.prev = 0
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

func (e *EnergyDrift) Observe(s dynamo.Sample) {
	e.samples++
	if e.samples == 1 {
		e.prev = s.U
		return
	}

	energy := DiscreteEnergy(e.prev, s.U, e.dt, e.w)
	e.prev = s.U

	if e.samples == 2 {
		e.initial = energy
		return
	}

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}
