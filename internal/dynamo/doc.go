// Package dynamo provides the core value types for the undamped oscillator
// u'' + w²u = 0.
//
// The package defines the data that flows between the solver, the exact
// reference and the collaborators that consume a run:
//
//   - [Params]: initial displacement, angular frequency, step and horizon
//   - [Trajectory]: displacement samples paired with their time grid
//   - [ParameterError]: validation failure, matching [ErrInvalidParameter]
//
// # Example
//
//	p := dynamo.Params{I: 1, W: 2 * math.Pi, Dt: 0.05, T: 5}
//	traj, err := integrators.Solve(p)
//	if errors.Is(err, dynamo.ErrInvalidParameter) {
//	    // dt or T not strictly positive
//	}
//
// # Thread Safety
//
// Params and Trajectory are plain values. A Trajectory is never mutated after
// the solver returns it, so it may be shared between goroutines freely.
package dynamo
