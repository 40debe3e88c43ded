package internal

import (
	"fmt"
	"math"
)

// Metric selects the distance function used for nearest-neighbor
// comparison.
type Metric string

const (
	MetricEuclidean Metric = "euclidean"
	MetricCosine    Metric = "cosine"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricEuclidean, MetricCosine:
		return Metric(s), nil
	case "":
		return MetricEuclidean, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

func (m Metric) Distance(a, b []float32) float32 {
	if m == MetricCosine {
		return CosineDistance(a, b)
	}
	return EuclideanDistance(a, b)
}

// Neighbor is one of the k stored examples nearest to a query.
type Neighbor struct {
	Label    string  `json:"label"`
	Distance float32 `json:"distance"`
}

// Prediction is the result of classifying a query vector: the winning
// label plus the vote share of every known label (zero for labels
// outside the k nearest neighbors).
type Prediction struct {
	Label       string             `json:"label"`
	Confidences map[string]float32 `json:"confidences"`
	Neighbors   []Neighbor         `json:"neighbors,omitempty"`
}

// EuclideanDistance returns the L2 distance between two vectors.
func EuclideanDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return math.MaxFloat32
	}

	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return float32(math.Sqrt(float64(sum)))
}

// CosineDistance returns 1 minus the cosine similarity of two vectors.
// Zero-magnitude inputs count as maximally distant.
func CosineDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return 1.0
	}

	magA := Magnitude(a)
	magB := Magnitude(b)
	if magA == 0 || magB == 0 {
		return 1.0
	}

	return 1.0 - DotProduct(a, b)/(magA*magB)
}

// DotProduct returns the dot product of two vectors of equal length.
func DotProduct(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Magnitude returns the L2 norm of a vector.
func Magnitude(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return float32(math.Sqrt(float64(sum)))
}

// Normalize scales a vector to unit length. Zero vectors are returned
// unchanged.
func Normalize(v []float32) []float32 {
	mag := Magnitude(v)
	if mag == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i := range v {
		out[i] = v[i] / mag
	}
	return out
}
