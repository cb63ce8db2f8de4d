// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "cmp"

// Clamp limits v to [lo, hi].
func Clamp[T cmp.Ordered](lo, v, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampAbs limits v to [-limit, limit].
func ClampAbs[T float32 | float64](v, limit T) T {
	return Clamp(-limit, v, limit)
}
