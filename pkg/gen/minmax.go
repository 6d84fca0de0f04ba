package gen

func Min[T Ordered](a, b T) T {
	return min(a, b)
}

func Max[T Ordered](a, b T) T {
	return max(a, b)
}

// Clamp v to [lo, hi]
func Clamp[T Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	return min(v, hi)
}
