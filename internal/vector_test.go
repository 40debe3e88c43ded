package internal

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	got := EuclideanDistance([]float32{0, 0}, []float32{3, 4})
	if got != 5 {
		t.Errorf("expected 5, got %f", got)
	}

	if d := EuclideanDistance([]float32{1, 2}, []float32{1, 2}); d != 0 {
		t.Errorf("expected 0 for identical vectors, got %f", d)
	}
}

func TestCosineDistance(t *testing.T) {
	if d := CosineDistance([]float32{1, 0}, []float32{2, 0}); math.Abs(float64(d)) > 1e-6 {
		t.Errorf("parallel vectors should have distance 0, got %f", d)
	}

	if d := CosineDistance([]float32{1, 0}, []float32{0, 1}); math.Abs(float64(d)-1) > 1e-6 {
		t.Errorf("orthogonal vectors should have distance 1, got %f", d)
	}

	if d := CosineDistance([]float32{0, 0}, []float32{1, 0}); d != 1.0 {
		t.Errorf("zero vector should be maximally distant, got %f", d)
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if mag := Magnitude(v); math.Abs(float64(mag)-1) > 1e-6 {
		t.Errorf("expected unit magnitude, got %f", mag)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Error("zero vector should normalize to itself")
	}
}

func TestParseMetric(t *testing.T) {
	if m, err := ParseMetric(""); err != nil || m != MetricEuclidean {
		t.Errorf("empty metric should default to euclidean, got %q, %v", m, err)
	}
	if m, err := ParseMetric("cosine"); err != nil || m != MetricCosine {
		t.Errorf("expected cosine, got %q, %v", m, err)
	}
	if _, err := ParseMetric("manhattan"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
