package analysis

import "math"

// SettleTime returns the first time after which every later sample stays
// within tol of the final value. ok is false when times and series differ in
// length or are empty.
func SettleTime(times, series []float64, tol float64) (t float64, ok bool) {
	if len(times) == 0 || len(times) != len(series) {
		return 0, false
	}
	final := series[len(series)-1]
	idx := len(series) - 1
	for idx > 0 && math.Abs(series[idx-1]-final) <= tol {
		idx--
	}
	return times[idx], true
}

// Crossings counts how often series passes through level, in either
// direction.
func Crossings(series []float64, level float64) int {
	count := 0
	for i := 1; i < len(series); i++ {
		a, b := series[i-1]-level, series[i]-level
		if (a < 0 && b >= 0) || (a >= 0 && b < 0) {
			count++
		}
	}
	return count
}

// Range returns the smallest and largest value in series.
func Range(series []float64) (lo, hi float64) {
	if len(series) == 0 {
		return 0, 0
	}
	lo, hi = series[0], series[0]
	for _, v := range series[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
