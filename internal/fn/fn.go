package fn

// T is short for ternary
func T[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}

// Or returns a unless it is the zero value, in which case b.
func Or[T comparable](a, b T) T {
	var zero T
	if a != zero {
		return a
	}
	return b
}
