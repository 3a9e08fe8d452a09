// Package mathx provides small numeric helpers shared by the signal
// path packages.
package mathx

// Clamp limits x to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Round rounds a float to the nearest "unit" (0.1 for tenth, 0.01 for
// hundredth, and so on).  Ties round away from zero only for positive
// x; use it for display, not for code generation.
func Round(x, unit float64) float64 {
	return float64(int64(x/unit+0.5)) * unit
}
