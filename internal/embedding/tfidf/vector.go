package tfidf

// Vector is a sparse vector with strictly increasing Indices.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool { return len(v.Indices) == 0 }

// Dot returns the inner product of a and b. Terms are summed in index
// order so the result does not depend on anything but the inputs.
func Dot(a, b Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
