// Package physics holds the closed-form reference for the undamped
// oscillator and the dispersion properties of its central-difference
// discretization.
//
//   - [Oscillator.Displacement]: exact I*cos(w*t)
//   - [Oscillator.NumericalFrequency]: frequency the discrete scheme realises
//   - [Oscillator.StabilityLimit]: largest stable step, 2/|w|
package physics
