package cmp

import "maps"

// SliceContentEq checks two slices have the same comparable elements in the
// same order.
func SliceContentEq[T comparable](a, b []T) bool {
	return SliceContentEqWith(a, b, func(x, y T) bool { return x == y })
}

// SliceContentEqWith checks two slices have equivalent elements in the same
// order, where equivalency is given with pred.
func SliceContentEqWith[T any, U any](a []T, b []U, pred func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !pred(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SliceEqualUnordered checks two slices have the same elements, ignoring
// order. Elements are matched with their Equal method, each at most once.
func SliceEqualUnordered[T interface{ Equal(T) bool }](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}

	rest := append([]T(nil), b...)

A:
	for _, x := range a {
		for i, y := range rest {
			if x.Equal(y) {
				rest = append(rest[:i], rest[i+1:]...)
				continue A
			}
		}
		return false
	}

	return len(rest) == 0
}

// MapEq checks two maps have the same comparable entries.
func MapEq[K comparable, V comparable](a, b map[K]V) bool {
	return MapEqWith(a, b, func(x, y V) bool { return x == y })
}

// MapEqWith checks two maps have equivalent entries keywise,
// where equivalency of values is given with pred.
func MapEqWith[K comparable, V any, W any](a map[K]V, b map[K]W, pred func(V, W) bool) bool {
	if len(a) != len(b) {
		return false
	}

	for k, va := range a {
		vb, ok := b[k]
		if !ok || !pred(va, vb) {
			return false
		}
	}
	return true
}

// MapLeqWith checks every entry of a is also in b (b may have more),
// where equivalency of values is given with pred.
func MapLeqWith[K comparable, V any, W any](a map[K]V, b map[K]W, pred func(V, W) bool) bool {
	if len(b) < len(a) {
		return false
	}

	rest := maps.Clone(b)
	for k, va := range a {
		vb, ok := rest[k]
		if !ok || !pred(va, vb) {
			return false
		}
		delete(rest, k)
	}
	return true
}
