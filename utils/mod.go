package utils

import "golang.org/x/exp/constraints"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Chebyshev returns the 8-directional grid distance between (x1, y1) and (x2, y2).
func Chebyshev[T constraints.Signed](x1, y1, x2, y2 T) T {
	return max(Abs(x1-x2), Abs(y1-y2))
}
