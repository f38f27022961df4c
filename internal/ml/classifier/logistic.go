package classifier

import (
	"fmt"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

// Logistic is a fitted logistic regression. Binary models carry a single
// coefficient row scoring the second class; multiclass models carry one row per class.
type Logistic struct {
	classes   []domain.ClassID
	coef      [][]float64
	intercept []float64
	features  int
}

var _ domain.Classifier = (*Logistic)(nil)

// NewLogistic validates coefficient and intercept shapes against the class list.
func NewLogistic(classes []domain.ClassID, coef [][]float64, intercept []float64) (*Logistic, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}
	rows := len(classes)
	if rows == 2 {
		rows = 1
	}
	width, err := checkMatrix("coef", coef, rows)
	if err != nil {
		return nil, err
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("intercept has %d entries, want %d", len(intercept), rows)
	}
	return &Logistic{classes: classes, coef: coef, intercept: intercept, features: width}, nil
}

// Classes returns the class ids in probability order.
func (l *Logistic) Classes() []domain.ClassID { return l.classes }

// Features returns the expected feature vector dimension.
func (l *Logistic) Features() int { return l.features }

// Predict returns the class with the highest probability.
func (l *Logistic) Predict(vec domain.FeatureVector) (domain.Prediction, error) {
	if err := checkDim(vec, l.features); err != nil {
		return domain.Prediction{}, err
	}

	var proba []float64
	if len(l.coef) == 1 {
		p := sigmoid(vec.Dot(l.coef[0]) + l.intercept[0])
		proba = []float64{1 - p, p}
	} else {
		scores := make([]float64, len(l.coef))
		for c := range l.coef {
			scores[c] = vec.Dot(l.coef[c]) + l.intercept[c]
		}
		proba = softmax(scores)
	}

	return domain.Prediction{Class: l.classes[argmax(proba)], Probabilities: proba}, nil
}
