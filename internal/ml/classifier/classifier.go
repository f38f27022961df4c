// Package classifier implements the linear probabilistic classifiers exported
// by the offline training pipeline.
package classifier

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

// softmax converts joint log likelihoods into probabilities, shifted by the
// maximum for numerical stability.
func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func checkDim(vec domain.FeatureVector, features int) error {
	if vec.Dim != features {
		return fmt.Errorf("feature vector has dimension %d, classifier expects %d", vec.Dim, features)
	}
	return nil
}

func checkMatrix(name string, rows [][]float64, nRows int) (int, error) {
	if len(rows) != nRows {
		return 0, fmt.Errorf("%s has %d rows, want %d", name, len(rows), nRows)
	}
	width := len(rows[0])
	if width == 0 {
		return 0, fmt.Errorf("%s rows are empty", name)
	}
	for i, r := range rows {
		if len(r) != width {
			return 0, fmt.Errorf("%s row %d has %d columns, want %d", name, i, len(r), width)
		}
	}
	return width, nil
}
