package internal

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrEmptyStore        = errors.New("no examples in store")
	ErrInvalidK          = errors.New("k must be at least 1")
	ErrInvalidLabel      = errors.New("invalid label")
	ErrEmptyVector       = errors.New("empty vector")
)

type example struct {
	label  string
	vector []float32
}

// LabelStore is an in-memory collection of labeled embedding vectors
// with exact k-nearest-neighbor classification. All vectors share the
// dimension of the first vector added; Clear resets it.
type LabelStore struct {
	mu        sync.RWMutex
	metric    Metric
	dimension int
	examples  []example
	counts    map[string]int
}

func NewLabelStore(metric Metric) *LabelStore {
	return &LabelStore{
		metric: metric,
		counts: make(map[string]int),
	}
}

// AddExample copies vec into the store under label. The first add
// establishes the store dimension; later adds must match it. A failed
// add leaves the store unchanged.
func (s *LabelStore) AddExample(vec []float32, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.add(vec, label)
}

// AddExamples adds a batch of vectors under one label. Every vector is
// validated before any is added, so a bad batch changes nothing.
func (s *LabelStore) AddExamples(vecs [][]float32, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label == "" {
		return ErrInvalidLabel
	}

	want := s.dimension
	for _, vec := range vecs {
		if len(vec) == 0 {
			return ErrEmptyVector
		}
		if want == 0 {
			want = len(vec)
		}
		if len(vec) != want {
			return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, want, len(vec))
		}
	}

	for _, vec := range vecs {
		if err := s.add(vec, label); err != nil {
			return err
		}
	}
	return nil
}

func (s *LabelStore) add(vec []float32, label string) error {
	if label == "" {
		return ErrInvalidLabel
	}
	if len(vec) == 0 {
		return ErrEmptyVector
	}
	if s.dimension != 0 && len(vec) != s.dimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(vec))
	}

	if s.dimension == 0 {
		s.dimension = len(vec)
	}

	// The store owns its vectors; callers may reuse their buffers.
	owned := make([]float32, len(vec))
	copy(owned, vec)

	s.examples = append(s.examples, example{label: label, vector: owned})
	s.counts[label]++
	return nil
}

// ClassExampleCount returns the number of stored examples per label,
// for labels with at least one example.
func (s *LabelStore) ClassExampleCount() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.counts))
	for label, n := range s.counts {
		counts[label] = n
	}
	return counts
}

// Len returns the total number of stored examples.
func (s *LabelStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.examples)
}

// Dimension returns the established vector dimension, or 0 if the
// store is empty and no dimension has been established yet.
func (s *LabelStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dimension
}

// Metric returns the distance metric the store was created with.
func (s *LabelStore) Metric() Metric {
	return s.metric
}

// Predict classifies vec by majority vote among its k nearest stored
// examples. k is clamped to the number of stored examples. Equal
// distances resolve to the earlier-added example; a vote tie resolves
// to the tied label with the nearest neighbor.
func (s *LabelStore) Predict(vec []float32, k int) (*Prediction, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.examples) == 0 {
		return nil, ErrEmptyStore
	}
	if len(vec) != s.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, s.dimension, len(vec))
	}

	if k > len(s.examples) {
		k = len(s.examples)
	}

	type candidate struct {
		idx  int
		dist float32
	}

	candidates := make([]candidate, len(s.examples))
	for i, ex := range s.examples {
		candidates[i] = candidate{idx: i, dist: s.metric.Distance(vec, ex.vector)}
	}

	// Stable sort keeps insertion order among equal distances.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	candidates = candidates[:k]

	votes := make(map[string]int)
	rank := make(map[string]int)
	for i, c := range candidates {
		label := s.examples[c.idx].label
		votes[label]++
		if _, seen := rank[label]; !seen {
			rank[label] = i
		}
	}

	best := ""
	for label, n := range votes {
		switch {
		case best == "":
			best = label
		case n > votes[best]:
			best = label
		case n == votes[best] && rank[label] < rank[best]:
			best = label
		}
	}

	confidences := make(map[string]float32, len(s.counts))
	for label := range s.counts {
		confidences[label] = 0
	}
	for label, n := range votes {
		confidences[label] = float32(n) / float32(k)
	}

	neighbors := make([]Neighbor, k)
	for i, c := range candidates {
		neighbors[i] = Neighbor{
			Label:    s.examples[c.idx].label,
			Distance: c.dist,
		}
	}

	return &Prediction{
		Label:       best,
		Confidences: confidences,
		Neighbors:   neighbors,
	}, nil
}

// Clear removes all examples and resets the established dimension, so
// the next AddExample may set a new one. Idempotent.
func (s *LabelStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.examples = nil
	s.counts = make(map[string]int)
	s.dimension = 0
}
