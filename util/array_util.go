package util

import (
	"math/rand"
)

// ShuffleSliceCopy returns a copy of src in random order, src itself is not modified.
func ShuffleSliceCopy[T any](src []T) []T {
	dst := make([]T, len(src))
	copy(dst, src)
	rand.Shuffle(len(dst), func(i, j int) { dst[i], dst[j] = dst[j], dst[i] })
	return dst
}

/*
TransformSlice processes input slice s by calling the mapper callback for each
element and returning the slice of values returned by the callback.
*/
func TransformSlice[S ~[]E, E any, V any](s S, mapper func(E) V) []V {
	r := make([]V, len(s))
	for i, v := range s {
		r[i] = mapper(v)
	}
	return r
}

// Last returns the last element of s, ok is false when s is empty.
func Last[S ~[]E, E any](s S) (last E, ok bool) {
	if len(s) == 0 {
		return last, false
	}
	return s[len(s)-1], true
}
