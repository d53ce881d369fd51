package util

import "sort"

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clons size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// DistinctBytes returns the distinct bytes of s in ascending order.
func DistinctBytes(s string) []byte {
	seen := [256]bool{}
	distinct := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if !seen[s[i]] {
			seen[s[i]] = true
			distinct = append(distinct, s[i])
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	return distinct
}
