package inference

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CustomerChurnPrediction/internal/features"
	"CustomerChurnPrediction/internal/models"
)

// Options locate the artifacts the service is built from.
type Options struct {
	ModelPath string
	// ModelURL, when set, selects a remote model server instead of ModelPath.
	ModelURL     string
	ModelTimeout time.Duration
	SchemaPath   string
	// RequireSchema makes a missing schema artifact fatal. Without it the
	// service runs unaligned and sends rows in canonical column order.
	RequireSchema bool
}

// Service scores customer profiles. It is immutable after construction and
// safe for concurrent use.
type Service struct {
	classifier Classifier
	schema     features.Schema
	// declared holds the classifier's own column list, if it has one. In
	// unaligned mode rows are cut down to it.
	declared   []string
	logger     *zap.Logger
	now        func() time.Time
}

// Load reads the model and schema artifacts once and builds a Service.
// Every error it returns is fatal for the process.
func Load(ctx context.Context, opts Options, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var classifier Classifier
	if opts.ModelURL != "" {
		classifier = NewRemoteClassifier(opts.ModelURL, opts.ModelTimeout)
		logger.Info("using remote model server", zap.String("url", opts.ModelURL))
	} else {
		model, err := LoadModel(opts.ModelPath)
		if err != nil {
			return nil, &ArtifactLoadError{Artifact: "model", Path: opts.ModelPath, Err: err}
		}
		logger.Info("model artifact loaded",
			zap.String("path", opts.ModelPath),
			zap.String("kind", model.Kind()),
			zap.Int("features", len(model.FeatureNames())),
			zap.Float64("threshold", model.Threshold()),
		)
		classifier = model
	}

	schema, err := loadSchemaArtifact(opts, logger)
	if err != nil {
		return nil, err
	}
	return NewService(classifier, schema, logger)
}

func loadSchemaArtifact(opts Options, logger *zap.Logger) (features.Schema, error) {
	missing := opts.SchemaPath == ""
	if !missing {
		if _, err := os.Stat(opts.SchemaPath); errors.Is(err, fs.ErrNotExist) {
			missing = true
		}
	}
	if missing {
		if opts.RequireSchema {
			return nil, &ArtifactLoadError{
				Artifact: "schema",
				Path:     opts.SchemaPath,
				Err:      &features.SchemaMismatchError{Reason: "schema artifact is required but was not found"},
			}
		}
		logger.Warn("no feature schema artifact, rows will not be aligned", zap.String("path", opts.SchemaPath))
		return nil, nil
	}

	schema, err := LoadSchema(opts.SchemaPath)
	if err != nil {
		return nil, &ArtifactLoadError{Artifact: "schema", Path: opts.SchemaPath, Err: err}
	}
	logger.Info("feature schema loaded", zap.String("path", opts.SchemaPath), zap.Strings("columns", schema))
	return schema, nil
}

// NewService wires a classifier and an optional schema. A nil schema means
// unaligned mode. A schema that disagrees with the columns the classifier
// declares is rejected, since every request would fail.
func NewService(classifier Classifier, schema features.Schema, logger *zap.Logger) (*Service, error) {
	if classifier == nil {
		return nil, errors.New("inference: nil classifier")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if schema != nil {
		if err := schema.Validate(); err != nil {
			return nil, err
		}
		if fd, ok := classifier.(FeatureDeclarer); ok && !schema.Equal(fd.FeatureNames()) {
			return nil, &features.SchemaMismatchError{
				Reason: fmt.Sprintf("schema %v does not match model features %v", []string(schema), fd.FeatureNames()),
			}
		}
		cov := features.Coverage(schema)
		if len(cov.Defaulted) > 0 {
			logger.Info("schema columns not collected by the form default to 0", zap.Strings("columns", cov.Defaulted))
		}
		if len(cov.Dropped) > 0 {
			logger.Info("form fields outside the schema are dropped", zap.Strings("columns", cov.Dropped))
		}
		schema = append(features.Schema(nil), schema...)
	}
	var declared []string
	if fd, ok := classifier.(FeatureDeclarer); ok {
		declared = fd.FeatureNames()
	}
	return &Service{
		classifier: classifier,
		schema:     schema,
		declared:   declared,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Aligned reports whether rows are aligned to a schema before scoring.
func (s *Service) Aligned() bool { return s.schema != nil }

// Schema returns a copy of the active schema, or nil in unaligned mode.
func (s *Service) Schema() features.Schema {
	if s.schema == nil {
		return nil
	}
	return append(features.Schema(nil), s.schema...)
}

// Row builds the feature row the classifier will see for p.
func (s *Service) Row(p models.CustomerProfile) (features.AlignedRecord, error) {
	if s.schema != nil {
		return features.Build(p, s.schema)
	}
	row, err := features.BuildUnaligned(p)
	if err != nil || s.declared == nil {
		return row, err
	}
	return row.Keep(s.declared), nil
}

// Predict scores one profile. Validation errors (InvalidCategoryError,
// OutOfRangeError) are returned unwrapped so callers can reject the request.
func (s *Service) Predict(ctx context.Context, p models.CustomerProfile) (models.Prediction, error) {
	row, err := s.Row(p)
	if err != nil {
		return models.Prediction{}, err
	}

	label, probs, err := s.classify(ctx, row)
	if err != nil {
		return models.Prediction{}, err
	}
	if label != 0 && label != 1 {
		return models.Prediction{}, fmt.Errorf("%w: %d", ErrInvalidLabel, label)
	}

	probability := models.NeutralProbability
	if probs != nil {
		if err := checkProbabilities(probs); err != nil {
			return models.Prediction{}, err
		}
		probability = probs[1]
	}

	pred := models.Prediction{
		ID:          uuid.NewString(),
		Label:       models.ChurnLabel(label),
		Probability: probability,
		Aligned:     s.schema != nil,
		Columns:     row.Columns(),
		CreatedAt:   s.now(),
	}
	s.logger.Debug("profile scored",
		zap.String("prediction_id", pred.ID),
		zap.Stringer("label", pred.Label),
		zap.Float64("probability", pred.Probability),
	)
	return pred, nil
}

// classify returns the label and, when available, [p0, p1]. A nil
// probability slice means the classifier cannot estimate probabilities.
func (s *Service) classify(ctx context.Context, row features.AlignedRecord) (int, []float64, error) {
	if sc, ok := s.classifier.(Scorer); ok {
		label, probs, err := sc.Score(ctx, row)
		if errors.Is(err, ErrProbabilityUnavailable) {
			return label, nil, nil
		}
		return label, probs, err
	}

	label, err := s.classifier.Predict(ctx, row)
	if err != nil {
		return 0, nil, err
	}
	pe, ok := s.classifier.(ProbabilityEstimator)
	if !ok {
		return label, nil, nil
	}
	probs, err := pe.PredictProba(ctx, row)
	if errors.Is(err, ErrProbabilityUnavailable) {
		return label, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	return label, probs, nil
}
