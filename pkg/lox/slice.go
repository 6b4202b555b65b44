// Package lox holds the collection helpers samber/lo does not provide.
package lox

import (
	"cmp"
	"slices"
)

// MapErr is lo.Map for an iteratee that can fail; the first error aborts.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	result := make([]R, len(collection))

	for i, item := range collection {
		r, err := iteratee(item)
		if err != nil {
			return nil, err
		}

		result[i] = r
	}

	return result, nil
}

// Map is lo.Map without the index argument, so plain functions and method
// values can be passed as the iteratee.
func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}

// SortBy sorts collection in place by an ordered key, ascending. Equal keys
// keep their relative order.
func SortBy[T any, K cmp.Ordered](collection []T, key func(item T) K) {
	slices.SortStableFunc(collection, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
}
