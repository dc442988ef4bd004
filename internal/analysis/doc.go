// Package analysis characterises a computed trajectory without reference to
// the exact solution.
//
//   - [DominantFrequency]: angular frequency of the spectral peak
//   - [ZeroCrossings] and [MeasuredPeriod]: period from interpolated crossings
//   - [NewPhasePortrait]: (u, u') pairs using central-difference velocity
//
// Comparing [DominantFrequency] with physics.Oscillator.NumericalFrequency
// exposes the phase lag of the central scheme:
//
//	wNum, _ := analysis.DominantFrequency(traj.U, traj.Dt())
//	lag := osc.W - wNum
package analysis
