// Package vectorizer implements the bag-of-words feature extractors exported
// by the offline training pipeline.
package vectorizer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// DefaultTokenPattern selects tokens of two or more word characters.
const DefaultTokenPattern = `\b\w\w+\b`

// Norm is the row normalization applied after weighting.
type Norm string

const (
	// NormL2 scales the row to unit Euclidean length.
	NormL2 Norm = "l2"
	// NormL1 scales the row so absolute values sum to one.
	NormL1 Norm = "l1"
	// NormNone leaves the row untouched.
	NormNone Norm = "none"
)

// ParseNorm maps an artifact value to a Norm. Empty and "null" mean none.
func ParseNorm(s string) (Norm, error) {
	switch strings.ToLower(s) {
	case "l2":
		return NormL2, nil
	case "l1":
		return NormL1, nil
	case "", "none", "null":
		return NormNone, nil
	default:
		return "", fmt.Errorf("unknown norm %q", s)
	}
}

// Analyzer splits text into the n-gram terms a vocabulary is keyed by.
type Analyzer struct {
	pattern   *regexp.Regexp
	lowercase bool
	minN      int
	maxN      int
}

// NewAnalyzer compiles a token pattern. Python-style (?u) prefixes are accepted
// and dropped. An empty pattern uses DefaultTokenPattern; a zero n-gram range means unigrams.
func NewAnalyzer(pattern string, lowercase bool, minN, maxN int) (*Analyzer, error) {
	pattern = strings.TrimPrefix(pattern, "(?u)")
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}

	if minN <= 0 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	return &Analyzer{pattern: re, lowercase: lowercase, minN: minN, maxN: maxN}, nil
}

// Terms returns the tokens and word n-grams of s in document order.
func (a *Analyzer) Terms(s string) []string {
	if a.lowercase {
		s = strings.ToLower(s)
	}
	tokens := a.pattern.FindAllString(s, -1)
	if a.minN == 1 && a.maxN == 1 {
		return tokens
	}

	var terms []string
	if a.minN == 1 {
		terms = append(terms, tokens...)
	}
	start := a.minN
	if start == 1 {
		start = 2
	}
	for n := start; n <= a.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func normalize(entries map[int]float64, norm Norm) {
	var total float64
	switch norm {
	case NormL2:
		for _, v := range entries {
			total += v * v
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, v := range entries {
			total += math.Abs(v)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i, v := range entries {
		entries[i] = v / total
	}
}
