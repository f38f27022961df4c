package sentimentd

import "github.com/kailas-cloud/sentimentd/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyInput      = domain.ErrEmptyInput
	ErrArtifact        = domain.ErrArtifact
	ErrInvalidArtifact = domain.ErrInvalidArtifact
	ErrVectorizer      = domain.ErrVectorizer
)

// ArtifactError reports which artifact failed to load.
type ArtifactError = domain.ArtifactError
