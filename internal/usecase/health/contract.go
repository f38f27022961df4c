package health

import "context"

// Pinger checks cache store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// VectorizerChecker checks a remote vectorizer.
type VectorizerChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelInfo reports whether the model artifacts are loaded.
type ModelInfo interface {
	Features() int
}
