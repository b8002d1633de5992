package slices

import "sort"

// Map maps each element in sli with mapper, keeping order.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// MapUntilError maps each element in sli with mapper.
//
// If mapper causes error, it stops there and returns (nil, error).
func MapUntilError[T any, R any](sli []T, mapper func(v T) (R, error)) ([]R, error) {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		r, err := mapper(v)
		if err != nil {
			return nil, err
		}
		ret[nth] = r
	}
	return ret, nil
}

// KeysOf flattens a map to the slice of its keys. Order is not specified.
func KeysOf[K comparable, T any](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for k := range m {
		sli = append(sli, k)
	}
	return sli
}

// ValuesOf flattens a map to the slice of its values. Order is not specified.
func ValuesOf[K comparable, T any](m map[K]T) []T {
	sli := make([]T, 0, len(m))
	for _, v := range m {
		sli = append(sli, v)
	}
	return sli
}

// Sorted returns a sorted copy of sli, ordered with less.
func Sorted[T any](sli []T, less func(a, b T) bool) []T {
	ret := append([]T(nil), sli...)
	sort.Slice(ret, func(i, j int) bool { return less(ret[i], ret[j]) })
	return ret
}
