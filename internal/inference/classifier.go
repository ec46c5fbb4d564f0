// Package inference loads the churn classifier and scores customer profiles with it.
package inference

import (
	"context"
	"errors"
	"fmt"

	"CustomerChurnPrediction/internal/features"
)

var (
	// ErrFeatureMismatch is returned when a row's columns differ from the ones
	// the model was trained on.
	ErrFeatureMismatch = errors.New("row columns do not match model features")

	// ErrProbabilityUnavailable means the classifier produced a label but no
	// class probabilities.
	ErrProbabilityUnavailable = errors.New("class probabilities unavailable")

	ErrInvalidProbability = errors.New("class probability outside [0, 1]")
	ErrInvalidLabel       = errors.New("classifier returned a label other than 0 or 1")
)

// Classifier predicts the churn class (0 retained, 1 churned) for a single row.
type Classifier interface {
	Predict(ctx context.Context, row features.AlignedRecord) (int, error)
}

// ProbabilityEstimator is implemented by classifiers that report [p0, p1].
type ProbabilityEstimator interface {
	PredictProba(ctx context.Context, row features.AlignedRecord) ([]float64, error)
}

// Scorer returns label and probabilities from a single call. Remote
// classifiers implement it to avoid a second round trip.
type Scorer interface {
	Score(ctx context.Context, row features.AlignedRecord) (int, []float64, error)
}

// FeatureDeclarer is implemented by classifiers that know their training columns.
type FeatureDeclarer interface {
	FeatureNames() []string
}

// ArtifactLoadError reports a model or schema artifact that could not be
// loaded at startup.
type ArtifactLoadError struct {
	Artifact string // "model" or "schema"
	Path     string
	Err      error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("cannot load %s artifact %q: %v", e.Artifact, e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

func checkColumns(want []string, row features.AlignedRecord) error {
	if !features.Schema(want).Equal(row.Columns()) {
		return fmt.Errorf("%w: model expects %v, got %v", ErrFeatureMismatch, want, row.Columns())
	}
	return nil
}

func checkProbabilities(p []float64) error {
	if len(p) != 2 {
		return fmt.Errorf("%w: expected 2 class probabilities, got %d", ErrInvalidProbability, len(p))
	}
	for _, v := range p {
		// NaN fails both comparisons
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
		}
	}
	return nil
}
