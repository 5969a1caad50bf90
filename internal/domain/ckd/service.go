package ckd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
)

// ErrModelUnavailable is returned by every prediction when no classifier
// could be loaded at startup.
var ErrModelUnavailable = fmt.Errorf("prediction unavailable: %w", classifier.ErrArtifactUnavailable)

// Scorer is the loaded binary classifier.
type Scorer interface {
	Score(ctx context.Context, f classifier.Frame) (float64, error)
	Info() classifier.Info
}

// Recorder receives prediction outcomes for metrics.
type Recorder interface {
	ObservePrediction(outcome string, elapsed time.Duration)
	ObserveProbability(p float64)
}

// Prediction outcomes reported to the Recorder.
const (
	OutcomeLikely      = "likely"
	OutcomeUnlikely    = "unlikely"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
)

type nopRecorder struct{}

func (nopRecorder) ObservePrediction(string, time.Duration) {}
func (nopRecorder) ObserveProbability(float64)              {}

// Service scores clinical records. It holds the classifier loaded once at
// startup, or the reason loading failed.
type Service struct {
	scorer  Scorer
	loadErr error
	logger  zerolog.Logger
	metrics Recorder
	now     func() time.Time
}

// NewService wraps scorer. A non-nil loadErr marks the service unavailable and
// scorer is ignored.
func NewService(scorer Scorer, loadErr error, logger zerolog.Logger, metrics Recorder) *Service {
	if loadErr != nil {
		scorer = nil
	} else if scorer == nil {
		loadErr = ErrModelUnavailable
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Service{
		scorer:  scorer,
		loadErr: loadErr,
		logger:  logger.With().Str("component", "ckd").Logger(),
		metrics: metrics,
		now:     time.Now,
	}
}

// Available reports whether a classifier is loaded.
func (s *Service) Available() bool { return s.scorer != nil }

// LoadError returns why the classifier is unavailable, or nil.
func (s *Service) LoadError() error { return s.loadErr }

// ModelInfo describes the loaded classifier.
func (s *Service) ModelInfo() (classifier.Info, error) {
	if s.scorer == nil {
		return classifier.Info{}, ErrModelUnavailable
	}
	return s.scorer.Info(), nil
}

// Predict scores a record collected through the form.
func (s *Service) Predict(ctx context.Context, r Record) (*Prediction, error) {
	return s.PredictFrame(ctx, r.Frame())
}

// PredictFrame scores a labeled frame. Malformed frames yield an error
// wrapping classifier.ErrScoring.
func (s *Service) PredictFrame(ctx context.Context, f classifier.Frame) (*Prediction, error) {
	if s.scorer == nil {
		s.metrics.ObservePrediction(OutcomeUnavailable, 0)
		return nil, ErrModelUnavailable
	}

	start := s.now()
	p, err := s.scorer.Score(ctx, f)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.ObservePrediction(OutcomeError, elapsed)
		s.logger.Warn().Err(err).Msg("prediction failed")
		if errors.Is(err, classifier.ErrScoring) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", classifier.ErrScoring, err)
	}

	info := s.scorer.Info()
	pred := &Prediction{
		ID:           uuid.New(),
		Probability:  p,
		Label:        LabelFor(p),
		Threshold:    Threshold,
		Model:        info.Name,
		ModelVersion: info.Version,
		ScoredAt:     s.now().UTC(),
	}

	outcome := OutcomeUnlikely
	if pred.Label == LabelLikely {
		outcome = OutcomeLikely
	}
	s.metrics.ObservePrediction(outcome, elapsed)
	s.metrics.ObserveProbability(p)
	s.logger.Info().
		Str("prediction_id", pred.ID.String()).
		Float64("probability", p).
		Str("label", string(pred.Label)).
		Str("model", info.Name).
		Dur("latency", elapsed).
		Msg("prediction")
	return pred, nil
}

// PredictValues scores a field name to value map from the JSON API or the
// CLI. A complete map goes through Record so columns reach the scorer in
// training order; an incomplete one is passed on as a frame so the scorer
// reports the missing columns. Input errors wrap ErrInvalidInput.
func (s *Service) PredictValues(ctx context.Context, values map[string]interface{}) (*Prediction, error) {
	if values == nil {
		return nil, fmt.Errorf("%w: expected a JSON object of field values", ErrInvalidInput)
	}
	frame, err := FrameFromValues(values)
	if err != nil {
		return nil, err
	}
	if r, err := RecordFromFrame(frame); err == nil {
		return s.Predict(ctx, r)
	}
	return s.PredictFrame(ctx, frame)
}

// SchemaMismatch lists differences between the form's fields and the
// classifier's declared features, in that order: fields the classifier does
// not know, then features the form does not collect.
func (s *Service) SchemaMismatch() (unknown, uncollected []string) {
	if s.scorer == nil {
		return nil, nil
	}
	features := s.scorer.Info().Features
	declared := make(map[string]bool, len(features))
	for _, f := range features {
		declared[f] = true
	}
	for _, name := range FieldNames() {
		if !declared[name] {
			unknown = append(unknown, name)
		}
		delete(declared, name)
	}
	for _, f := range features {
		if declared[f] {
			uncollected = append(uncollected, f)
		}
	}
	return unknown, uncollected
}
