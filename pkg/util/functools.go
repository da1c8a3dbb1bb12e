package util

type number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

func Map[T, V any](ts []T, fn func(T) V) []V {
	result := make([]V, len(ts))
	for i, t := range ts {
		result[i] = fn(t)
	}
	return result
}

// SumBy adds up fn over every element.
func SumBy[T any, N number](ts []T, fn func(T) N) N {
	var total N
	for _, t := range ts {
		total += fn(t)
	}
	return total
}
