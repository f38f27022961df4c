package classifier

import (
	"fmt"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

// NaiveBayes is a multinomial naive Bayes model over term features.
type NaiveBayes struct {
	classes        []domain.ClassID
	classLogPrior  []float64
	featureLogProb [][]float64
	features       int
}

var _ domain.Classifier = (*NaiveBayes)(nil)

// NewNaiveBayes validates the fitted parameters: one prior and one
// log-probability row per class, all rows the same width.
func NewNaiveBayes(classes []domain.ClassID, classLogPrior []float64, featureLogProb [][]float64) (*NaiveBayes, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}
	if len(classLogPrior) != len(classes) {
		return nil, fmt.Errorf("class_log_prior has %d entries for %d classes", len(classLogPrior), len(classes))
	}
	width, err := checkMatrix("feature_log_prob", featureLogProb, len(classes))
	if err != nil {
		return nil, err
	}
	return &NaiveBayes{
		classes:        classes,
		classLogPrior:  classLogPrior,
		featureLogProb: featureLogProb,
		features:       width,
	}, nil
}

// Classes returns the class ids in probability order.
func (nb *NaiveBayes) Classes() []domain.ClassID { return nb.classes }

// Features returns the expected feature vector dimension.
func (nb *NaiveBayes) Features() int { return nb.features }

// Predict scores every class as prior + x·log P(feature|class). An all-zero
// vector falls back to the class priors.
func (nb *NaiveBayes) Predict(vec domain.FeatureVector) (domain.Prediction, error) {
	if err := checkDim(vec, nb.features); err != nil {
		return domain.Prediction{}, err
	}

	jll := make([]float64, len(nb.classes))
	for c := range nb.classes {
		jll[c] = nb.classLogPrior[c] + vec.Dot(nb.featureLogProb[c])
	}

	proba := softmax(jll)
	return domain.Prediction{Class: nb.classes[argmax(jll)], Probabilities: proba}, nil
}
