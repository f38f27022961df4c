package artifact

import (
	"encoding/json"

	"github.com/kailas-cloud/sentimentd/internal/domain"
)

// vectorizerDTO is the JSON export of a fitted vectorizer.
type vectorizerDTO struct {
	Kind          string          `json:"kind"`
	Vocabulary    map[string]int  `json:"vocabulary"`
	IDF           []float64       `json:"idf"`
	Binary        bool            `json:"binary"`
	Lowercase     *bool           `json:"lowercase"`
	TokenPattern  string          `json:"token_pattern"`
	NgramRange    []int           `json:"ngram_range"`
	Norm          json.RawMessage `json:"norm"`
	SublinearTF   bool            `json:"sublinear_tf"`
	NFeatures     int             `json:"n_features"`
	AlternateSign *bool           `json:"alternate_sign"`
}

// classifierDTO is the JSON export of a fitted classifier.
type classifierDTO struct {
	Kind           string           `json:"kind"`
	Classes        []domain.ClassID `json:"classes"`
	ClassLogPrior  []float64        `json:"class_log_prior"`
	FeatureLogProb [][]float64      `json:"feature_log_prob"`
	Coef           [][]float64      `json:"coef"`
	Intercept      []float64        `json:"intercept"`
}
