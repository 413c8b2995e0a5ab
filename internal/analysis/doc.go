// Package analysis summarizes recorded letter trajectories.
//
//   - [DominantFrequency]: strongest swing frequency of a series, via FFT
//   - [SettleTime]: when a series stops moving by more than a tolerance
//   - [Crossings]: how often a series passes through a level
//   - [TrajectoryToASCII]: a letter's path in the x/y plane
//
// Hinge letters swing, so the angle column of a hinge run has a clear peak:
//
//	freq, ok := analysis.DominantFrequency(angles, dt)
//	if ok {
//	    fmt.Printf("period %.2fs\n", 1/freq)
//	}
package analysis
