package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput signals blank or whitespace-only text submitted for analysis.
	ErrEmptyInput = errors.New("empty input")
	// ErrArtifact signals a model artifact that is missing or unreadable.
	ErrArtifact = errors.New("model artifact unavailable")
	// ErrInvalidArtifact signals an artifact that was read but has an unusable shape.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrVectorizer signals a failure inside a remote vectorizer.
	ErrVectorizer = errors.New("vectorizer error")
	// ErrSessionNotFound signals an unknown or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyFeedback signals blank feedback text.
	ErrEmptyFeedback = errors.New("empty feedback")
)

// ArtifactError is the startup failure raised when the vectorizer or classifier
// artifact cannot be loaded. It is fatal: nothing can be predicted without both.
type ArtifactError struct {
	Kind string // "vectorizer" or "classifier"
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s: %v", ErrArtifact.Error(), e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrArtifact.Error(), e.Kind, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() []error { return []error{ErrArtifact, e.Err} }

// NewArtifactError creates an artifact load error.
func NewArtifactError(kind, path string, err error) error {
	return &ArtifactError{Kind: kind, Path: path, Err: err}
}
