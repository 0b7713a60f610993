// Package backoff centralizes retry wait calculation so the executor and
// the retry policy share one formula.
package backoff

import "time"

// Pow computes base^exponent for non-negative integer exponents without
// pulling in math.Pow on the hot path.
func Pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}

// Exponential returns factor * 2^attempt, the wait before retrying the
// given zero-based attempt. The attempt is clamped to avoid overflow.
func Exponential(attempt int, factor time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}
	d := time.Duration(float64(factor) * Pow(2.0, attempt))
	if d < 0 {
		// Overflowed; pin to the clamp boundary.
		d = time.Duration(float64(factor) * Pow(2.0, 30))
	}
	return d
}
