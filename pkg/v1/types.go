package v1

import "github.com/4thel00z/teachable/internal"

// Prediction is a classification result: the winning label plus the
// vote share of every known label.
type Prediction struct {
	Label       string
	Confidences map[string]float32
}

func fromInternal(pred *internal.Prediction) *Prediction {
	return &Prediction{
		Label:       pred.Label,
		Confidences: pred.Confidences,
	}
}
