// Package grouping partitions slices by a key.
package grouping

// Index groups items by key(item). Members keep their input order, and a
// key only appears once an item produces it, so no entry is empty.
func Index[K comparable, T any](items []T, key func(T) K) map[K][]T {
	m := make(map[K][]T)
	for _, it := range items {
		k := key(it)
		m[k] = append(m[k], it)
	}
	return m
}
