// Package artifact loads the serialized vectorizer and classifier produced by
// the offline training pipeline.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	"github.com/kailas-cloud/sentimentd/internal/ml/classifier"
	"github.com/kailas-cloud/sentimentd/internal/ml/vectorizer"
)

// Artifact kinds used in ArtifactError.
const (
	KindVectorizer = "vectorizer"
	KindClassifier = "classifier"
)

type vectorizerDecoder func(dto *vectorizerDTO) (domain.Vectorizer, error)

type classifierDecoder func(dto *classifierDTO) (domain.Classifier, error)

// Decoders keyed by the "kind" field. scikit-learn class names are accepted as aliases.
var (
	vectorizerDecoders = map[string]vectorizerDecoder{
		"count":             decodeCount,
		"countvectorizer":   decodeCount,
		"tfidf":             decodeTFIDF,
		"tfidfvectorizer":   decodeTFIDF,
		"hashing":           decodeHashing,
		"hashingvectorizer": decodeHashing,
	}
	classifierDecoders = map[string]classifierDecoder{
		"multinomial_nb":      decodeNaiveBayes,
		"multinomialnb":       decodeNaiveBayes,
		"logistic_regression": decodeLogistic,
		"logisticregression":  decodeLogistic,
	}
)

// Bundle is a loaded vectorizer/classifier pair.
type Bundle struct {
	Vectorizer     domain.Vectorizer
	Classifier     domain.Classifier
	VectorizerKind string
	ClassifierKind string
}

// Load reads both artifacts and checks that they fit together and that the
// positive class is one the classifier can predict. Every failure is an
// *domain.ArtifactError.
func Load(vectorizerPath, classifierPath string, positive domain.ClassID) (*Bundle, error) {
	vec, vecKind, err := LoadVectorizer(vectorizerPath)
	if err != nil {
		return nil, err
	}
	clf, clfKind, err := LoadClassifier(classifierPath)
	if err != nil {
		return nil, err
	}
	if err := CheckCompatible(vec, clf, positive); err != nil {
		return nil, err
	}
	return &Bundle{
		Vectorizer:     vec,
		Classifier:     clf,
		VectorizerKind: vecKind,
		ClassifierKind: clfKind,
	}, nil
}

// LoadVectorizer reads a vectorizer artifact and returns it with its kind.
func LoadVectorizer(path string) (domain.Vectorizer, string, error) {
	var dto vectorizerDTO
	if err := readJSON(path, &dto); err != nil {
		return nil, "", domain.NewArtifactError(KindVectorizer, path, err)
	}

	kind := normalizeKind(dto.Kind)
	decode, ok := vectorizerDecoders[kind]
	if !ok {
		return nil, "", domain.NewArtifactError(KindVectorizer, path,
			fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidArtifact, dto.Kind))
	}

	vec, err := decode(&dto)
	if err != nil {
		return nil, "", domain.NewArtifactError(KindVectorizer, path,
			fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err))
	}
	return vec, kind, nil
}

// LoadClassifier reads a classifier artifact and returns it with its kind.
func LoadClassifier(path string) (domain.Classifier, string, error) {
	var dto classifierDTO
	if err := readJSON(path, &dto); err != nil {
		return nil, "", domain.NewArtifactError(KindClassifier, path, err)
	}

	kind := normalizeKind(dto.Kind)
	decode, ok := classifierDecoders[kind]
	if !ok {
		return nil, "", domain.NewArtifactError(KindClassifier, path,
			fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidArtifact, dto.Kind))
	}

	clf, err := decode(&dto)
	if err != nil {
		return nil, "", domain.NewArtifactError(KindClassifier, path,
			fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err))
	}
	return clf, kind, nil
}

// CheckCompatible verifies the classifier consumes vectors of the vectorizer's
// dimension and knows the positive class.
func CheckCompatible(vec domain.Vectorizer, clf domain.Classifier, positive domain.ClassID) error {
	if vec.Dimension() > 0 && vec.Dimension() != clf.Features() {
		return domain.NewArtifactError(KindClassifier, "", fmt.Errorf(
			"%w: classifier expects %d features, vectorizer produces %d",
			domain.ErrInvalidArtifact, clf.Features(), vec.Dimension()))
	}
	for _, c := range clf.Classes() {
		if c == positive {
			return nil
		}
	}
	return domain.NewArtifactError(KindClassifier, "", fmt.Errorf(
		"%w: positive class %q not in classifier classes %v",
		domain.ErrInvalidArtifact, positive, clf.Classes()))
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: parse: %v", domain.ErrInvalidArtifact, err)
	}
	return nil
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

func analyzerFrom(dto *vectorizerDTO) (*vectorizer.Analyzer, error) {
	lowercase := true
	if dto.Lowercase != nil {
		lowercase = *dto.Lowercase
	}
	var minN, maxN int
	switch len(dto.NgramRange) {
	case 0:
	case 2:
		minN, maxN = dto.NgramRange[0], dto.NgramRange[1]
	default:
		return nil, fmt.Errorf("ngram_range must have 2 elements, got %d", len(dto.NgramRange))
	}
	return vectorizer.NewAnalyzer(dto.TokenPattern, lowercase, minN, maxN)
}

// normFrom reads the "norm" field: absent means def, null means none.
func normFrom(raw json.RawMessage, def vectorizer.Norm) (vectorizer.Norm, error) {
	if len(raw) == 0 {
		return def, nil
	}
	if string(raw) == "null" {
		return vectorizer.NormNone, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("norm: %w", err)
	}
	return vectorizer.ParseNorm(s)
}

func decodeCount(dto *vectorizerDTO) (domain.Vectorizer, error) {
	return decodeVocabulary(dto, false)
}

func decodeTFIDF(dto *vectorizerDTO) (domain.Vectorizer, error) {
	if len(dto.IDF) == 0 {
		return nil, fmt.Errorf("tfidf vectorizer requires idf weights")
	}
	return decodeVocabulary(dto, true)
}

func decodeVocabulary(dto *vectorizerDTO, tfidf bool) (domain.Vectorizer, error) {
	analyzer, err := analyzerFrom(dto)
	if err != nil {
		return nil, err
	}

	defNorm := vectorizer.NormNone
	if tfidf {
		defNorm = vectorizer.NormL2
	}
	norm, err := normFrom(dto.Norm, defNorm)
	if err != nil {
		return nil, err
	}

	cfg := vectorizer.CountConfig{
		Vocabulary: dto.Vocabulary,
		Binary:     dto.Binary,
		Norm:       norm,
	}
	if tfidf {
		cfg.IDF = dto.IDF
		cfg.SublinearTF = dto.SublinearTF
	}
	return vectorizer.NewCount(analyzer, cfg)
}

func decodeHashing(dto *vectorizerDTO) (domain.Vectorizer, error) {
	analyzer, err := analyzerFrom(dto)
	if err != nil {
		return nil, err
	}
	norm, err := normFrom(dto.Norm, vectorizer.NormL2)
	if err != nil {
		return nil, err
	}
	alternateSign := true
	if dto.AlternateSign != nil {
		alternateSign = *dto.AlternateSign
	}
	return vectorizer.NewHashing(analyzer, vectorizer.HashingConfig{
		Features:      dto.NFeatures,
		Binary:        dto.Binary,
		AlternateSign: alternateSign,
		Norm:          norm,
	})
}

func decodeNaiveBayes(dto *classifierDTO) (domain.Classifier, error) {
	return classifier.NewNaiveBayes(dto.Classes, dto.ClassLogPrior, dto.FeatureLogProb)
}

func decodeLogistic(dto *classifierDTO) (domain.Classifier, error) {
	return classifier.NewLogistic(dto.Classes, dto.Coef, dto.Intercept)
}
