package utils

// Create a map from array with kf providing keys, values are array elements
func ArrayToMap[T any, K comparable](ts []T, kf func(T) K) map[K]T {
	result := make(map[K]T)
	for _, t := range ts {
		result[kf(t)] = t
	}
	return result
}

// Group array elements by the key provided by kf, preserving order within groups
func GroupBy[T any, K comparable](ts []T, kf func(T) K) map[K][]T {
	result := make(map[K][]T)
	for _, t := range ts {
		k := kf(t)
		result[k] = append(result[k], t)
	}
	return result
}

func Keys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
