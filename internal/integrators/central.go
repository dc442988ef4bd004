package integrators

import "github.com/san-kum/vibsim/internal/dynamo"

// CentralDifference solves u'' + w²u = 0 with the three-point central
// difference u[n+1] = 2u[n] - u[n-1] - dt²w²u[n].
//
// The scheme is second order in dt and stable only while w*dt < 2. Beyond
// that the samples grow without bound; this is reported by the caller, not
// corrected here.
type CentralDifference struct{}

func NewCentralDifference() *CentralDifference {
	return &CentralDifference{}
}

func (c *CentralDifference) Name() string { return "central" }

func (c *CentralDifference) Solve(p dynamo.Params) (*dynamo.Trajectory, error) {
	return Solve(p)
}

// Solve computes the full trajectory for p. u[1] comes from eliminating the
// ghost sample u[-1] with u'(0) = 0.
func Solve(p dynamo.Params) (*dynamo.Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	dt, w := p.Dt, p.W
	n := p.Steps()

	u := make([]float64, n+1)
	t := make([]float64, n+1)
	for i := range t {
		t[i] = float64(i) * dt
	}

	u[0] = p.I
	if n == 0 {
		return &dynamo.Trajectory{U: u, T: t}, nil
	}

	u[1] = u[0] - 0.5*u[0]*dt*dt*w*w

	k := dt * dt * w * w
	for i := 1; i < n; i++ {
		u[i+1] = Advance(u[i-1], u[i], k)
	}

	return &dynamo.Trajectory{U: u, T: t}, nil
}

// Advance returns the next sample given the previous two and k = dt²w².
func Advance(prev, cur, k float64) float64 {
	return -prev + 2*cur - k*cur
}
