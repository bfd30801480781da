// Package mathutil provides common mathematical utility functions.
package mathutil

import "cmp"

// Clamp restricts a value to be within a specified range.
// Returns low if val < low, high if val > high, otherwise returns val.
func Clamp[T cmp.Ordered](val, low, high T) T {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}

// Wrap maps n onto [0, size) using floored modulo, so negative values wrap
// from the end. A non-positive size yields 0.
func Wrap[T ~int | ~int32 | ~int64](n, size T) T {
	if size <= 0 {
		return 0
	}
	return ((n % size) + size) % size
}
