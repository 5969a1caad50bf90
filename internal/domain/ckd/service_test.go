package ckd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier/classifiertest"
)

// ── Mocks ──

type mockScorer struct {
	p        float64
	err      error
	calls    int
	features []string
	last     classifier.Frame
}

func (m *mockScorer) Score(_ context.Context, f classifier.Frame) (float64, error) {
	m.calls++
	m.last = f
	if m.err != nil {
		return 0, m.err
	}
	return m.p, nil
}

func (m *mockScorer) Info() classifier.Info {
	features := m.features
	if features == nil {
		features = FieldNames()
	}
	return classifier.Info{Name: "mock", Version: "1", Kind: classifier.KindRandomForest, Features: features}
}

type mockRecorder struct {
	outcomes      []string
	probabilities []float64
}

func (m *mockRecorder) ObservePrediction(outcome string, _ time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockRecorder) ObserveProbability(p float64) {
	m.probabilities = append(m.probabilities, p)
}

func newTestService(scorer Scorer) (*Service, *mockRecorder) {
	rec := &mockRecorder{}
	return NewService(scorer, nil, zerolog.Nop(), rec), rec
}

// ── Service ──

func TestService_LogsWithoutClinicalValues(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(&mockScorer{p: 0.42}, nil, zerolog.New(&buf), nil)

	if _, err := svc.Predict(context.Background(), DefaultRecord()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "prediction" || entry["probability"] != 0.42 {
		t.Errorf("unexpected log entry %v", entry)
	}
	for _, name := range FieldNames() {
		if _, ok := entry[name]; ok {
			t.Errorf("log entry carries clinical field %q", name)
		}
	}
}

func TestService_Predict_Likely(t *testing.T) {
	svc, rec := newTestService(&mockScorer{p: 0.83})
	pred, err := svc.Predict(context.Background(), DefaultRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Label != LabelLikely {
		t.Errorf("expected %q, got %q", LabelLikely, pred.Label)
	}
	if pred.Model != "mock" || pred.ModelVersion != "1" {
		t.Errorf("unexpected model %s/%s", pred.Model, pred.ModelVersion)
	}
	if pred.Threshold != 0.5 {
		t.Errorf("expected threshold 0.5, got %v", pred.Threshold)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != OutcomeLikely {
		t.Errorf("unexpected outcomes %v", rec.outcomes)
	}
	if len(rec.probabilities) != 1 || rec.probabilities[0] != 0.83 {
		t.Errorf("unexpected probabilities %v", rec.probabilities)
	}
}

func TestService_Predict_Unlikely(t *testing.T) {
	svc, rec := newTestService(&mockScorer{p: 0.12})
	pred, err := svc.Predict(context.Background(), DefaultRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Label != LabelUnlikely {
		t.Errorf("expected %q, got %q", LabelUnlikely, pred.Label)
	}
	if rec.outcomes[0] != OutcomeUnlikely {
		t.Errorf("unexpected outcome %s", rec.outcomes[0])
	}
}

func TestService_Unavailable_NoScoringCall(t *testing.T) {
	scorer := &mockScorer{p: 0.9}
	rec := &mockRecorder{}
	svc := NewService(scorer, fmt.Errorf("%w: missing", classifier.ErrArtifactUnavailable), zerolog.Nop(), rec)

	if svc.Available() {
		t.Fatal("expected service to be unavailable")
	}
	_, err := svc.Predict(context.Background(), DefaultRecord())
	if !errors.Is(err, classifier.ErrArtifactUnavailable) {
		t.Errorf("expected ErrArtifactUnavailable, got %v", err)
	}
	if scorer.calls != 0 {
		t.Errorf("expected no scoring call, got %d", scorer.calls)
	}
	if rec.outcomes[0] != OutcomeUnavailable {
		t.Errorf("unexpected outcome %s", rec.outcomes[0])
	}
	if _, err := svc.ModelInfo(); err == nil {
		t.Error("expected ModelInfo error")
	}
	if svc.LoadError() == nil {
		t.Error("expected LoadError to be kept")
	}
}

func TestService_NilScorer(t *testing.T) {
	svc := NewService(nil, nil, zerolog.Nop(), nil)
	if svc.Available() {
		t.Error("expected nil scorer to be unavailable")
	}
	if !errors.Is(svc.LoadError(), classifier.ErrArtifactUnavailable) {
		t.Errorf("unexpected load error %v", svc.LoadError())
	}
}

func TestService_ScoringFailure(t *testing.T) {
	svc, rec := newTestService(&mockScorer{err: &classifier.ScoringError{Column: "age", Reason: "column missing"}})
	_, err := svc.Predict(context.Background(), DefaultRecord())
	if !errors.Is(err, classifier.ErrScoring) {
		t.Errorf("expected ErrScoring, got %v", err)
	}
	if rec.outcomes[0] != OutcomeError {
		t.Errorf("unexpected outcome %s", rec.outcomes[0])
	}
}

func TestService_UnexpectedFailureIsScoringError(t *testing.T) {
	svc, _ := newTestService(&mockScorer{err: errors.New("boom")})
	_, err := svc.Predict(context.Background(), DefaultRecord())
	if !errors.Is(err, classifier.ErrScoring) {
		t.Errorf("expected ErrScoring, got %v", err)
	}
}

func TestService_PredictValues_CompleteMapScoredInSchemaOrder(t *testing.T) {
	scorer := &mockScorer{p: 0.7}
	svc, _ := newTestService(scorer)

	values := make(map[string]interface{})
	for name, v := range DefaultRecord().Values() {
		values[name] = v
	}
	pred, err := svc.PredictValues(context.Background(), values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Label != LabelLikely {
		t.Errorf("expected %q, got %q", LabelLikely, pred.Label)
	}
	if got, want := scorer.last.Names(), FieldNames(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("columns out of schema order:\n got %v\nwant %v", got, want)
	}
}

func TestService_PredictValues_PartialMapReachesScorer(t *testing.T) {
	scorer := &mockScorer{err: &classifier.ScoringError{Column: "anemia", Reason: "column missing"}}
	svc, _ := newTestService(scorer)

	_, err := svc.PredictValues(context.Background(), map[string]interface{}{"age": 60.0})
	if !errors.Is(err, classifier.ErrScoring) {
		t.Fatalf("expected scoring error, got %v", err)
	}
	if scorer.calls != 1 || len(scorer.last) != 1 {
		t.Errorf("expected one call with the partial frame, got %d calls and %v", scorer.calls, scorer.last)
	}
}

func TestService_PredictValues_InputErrors(t *testing.T) {
	scorer := &mockScorer{p: 0.7}
	svc, _ := newTestService(scorer)

	for name, values := range map[string]map[string]interface{}{
		"nil":          nil,
		"unknown":      {"weight": 80.0},
		"out_of_range": {"age": 300.0},
	} {
		if _, err := svc.PredictValues(context.Background(), values); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
	if scorer.calls != 0 {
		t.Errorf("input errors must not reach the scorer, got %d calls", scorer.calls)
	}
}

func TestService_SchemaMismatch(t *testing.T) {
	features := append(FieldNames()[1:], "weight")
	svc, _ := newTestService(&mockScorer{features: features})
	unknown, uncollected := svc.SchemaMismatch()
	if len(unknown) != 1 || unknown[0] != "age" {
		t.Errorf("unexpected unknown %v", unknown)
	}
	if len(uncollected) != 1 || uncollected[0] != "weight" {
		t.Errorf("unexpected uncollected %v", uncollected)
	}
}

// ── Against the reference forest ──

func TestService_ForestDefaults(t *testing.T) {
	svc, _ := newTestService(classifiertest.Forest(t))
	pred, err := svc.Predict(context.Background(), DefaultRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Probability < 0 || pred.Probability > 1 {
		t.Fatalf("probability out of range: %v", pred.Probability)
	}
	if diff := pred.Probability - classifiertest.DefaultProbability; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected %v, got %v", classifiertest.DefaultProbability, pred.Probability)
	}
	if pred.Label != LabelLikely {
		t.Errorf("expected %q, got %q", LabelLikely, pred.Label)
	}
	if unknown, uncollected := svc.SchemaMismatch(); len(unknown)+len(uncollected) != 0 {
		t.Errorf("unexpected mismatch %v %v", unknown, uncollected)
	}
}

func TestService_ForestDeterministic(t *testing.T) {
	svc, _ := newTestService(classifiertest.Forest(t))
	r := DefaultRecord()
	r.Hemoglobin = 9.5
	r.Hypertension = "no"
	first, err := svc.Predict(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := svc.Predict(context.Background(), r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Probability != first.Probability {
			t.Fatalf("non-deterministic: %v vs %v", again.Probability, first.Probability)
		}
	}
}

func TestService_ForestMissingField(t *testing.T) {
	svc, _ := newTestService(classifiertest.Forest(t))
	_, err := svc.PredictFrame(context.Background(), DefaultRecord().Frame().Without("sodium"))
	var se *classifier.ScoringError
	if !errors.As(err, &se) {
		t.Fatalf("expected ScoringError, got %v", err)
	}
	if se.Column != "sodium" {
		t.Errorf("expected sodium, got %s", se.Column)
	}
}
