// Package viz renders runs in the terminal.
//
//   - [Comparison]: asciigraph overlay of numerical and exact displacement
//   - [Explorer]: Bubble Tea program that re-solves as dt and w change
//
// # Key Bindings
//
//	←/→   - Halve/double dt
//	↓/↑   - Decrease/increase w by 10%
//	R     - Reset to the starting parameters
//	Q     - Quit
package viz
