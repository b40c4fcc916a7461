package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// MoveTowards steps current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// JumpVelocity returns the launch speed needed to reach height under gravity.
// gravity is expected to be negative.
func JumpVelocity(height, gravity float64) float64 {
	if height <= 0 || gravity >= 0 {
		return 0
	}
	return math.Sqrt(height * -2 * gravity)
}
