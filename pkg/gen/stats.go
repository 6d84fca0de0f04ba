package gen

// Mode returns the most frequent element of src.
// Ties are broken by first appearance in src, so the result is deterministic.
func Mode[T comparable](src []T) (mode T, count int) {
	counts := make(map[T]int)
	for _, v := range src {
		counts[v]++
	}
	for _, v := range src {
		if counts[v] > count {
			mode = v
			count = counts[v]
		}
	}
	return
}

// Histogram returns the number of occurrences of each element
func Histogram[T comparable](src []T) map[T]int {
	counts := make(map[T]int)
	for _, v := range src {
		counts[v]++
	}
	return counts
}
