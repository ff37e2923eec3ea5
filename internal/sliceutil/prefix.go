// Package sliceutil holds generic helpers for slices
// that the standard library does not provide.
package sliceutil

// CommonPrefixLen reports the number of leading elements
// that a and b have in common.
func CommonPrefixLen[T comparable](a, b []T) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// RemoveCommonPrefix removes the shared prefix from the two provided slices,
// returning what remains for each slice as the result.
// A slice that is exhausted is returned as nil.
func RemoveCommonPrefix[T comparable](a, b []T) (newA, newB []T) {
	n := CommonPrefixLen(a, b)
	return tail(a, n), tail(b, n)
}

func tail[T any](s []T, n int) []T {
	if n >= len(s) {
		return nil
	}
	return s[n:]
}
