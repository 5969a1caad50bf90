package classifier

import (
	"context"
	"math"
)

// estimator maps an encoded feature vector to the positive-class probability.
type estimator interface {
	positiveProba(x []float64) float64
	size() int
}

// Model is a compiled, immutable classifier. It is safe for concurrent use.
type Model struct {
	name       string
	version    string
	kind       string
	classes    []string
	positive   int
	features   []string
	index      map[string]int
	categories map[string]map[string]float64
	metrics    map[string]float64
	est        estimator
}

// Info summarizes a loaded model for display.
type Info struct {
	Name       string             `json:"name"`
	Version    string             `json:"version"`
	Kind       string             `json:"kind"`
	Classes    []string           `json:"classes"`
	Positive   string             `json:"positive_class"`
	Features   []string           `json:"features"`
	Estimators int                `json:"estimators"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Compile checks an artifact's structure and builds a Model from it.
func Compile(a *Artifact) (*Model, error) {
	if len(a.Classes) != 2 {
		return nil, unavailable("binary classifier expected, got %d classes", len(a.Classes))
	}
	positive := 1
	if a.PositiveClass != nil {
		positive = *a.PositiveClass
	}
	if positive < 0 || positive >= len(a.Classes) {
		return nil, unavailable("positive_class %d out of range", positive)
	}

	m := &Model{
		name:       a.Name,
		version:    a.Version,
		kind:       a.Kind,
		classes:    append([]string(nil), a.Classes...),
		positive:   positive,
		features:   append([]string(nil), a.Features...),
		index:      make(map[string]int, len(a.Features)),
		categories: make(map[string]map[string]float64, len(a.Categories)),
		metrics:    a.Metrics,
	}
	for i, f := range a.Features {
		if _, dup := m.index[f]; dup {
			return nil, unavailable("duplicate feature %q", f)
		}
		m.index[f] = i
	}
	for f, labels := range a.Categories {
		if _, ok := m.index[f]; !ok {
			return nil, unavailable("categories declared for unknown feature %q", f)
		}
		codes := make(map[string]float64, len(labels))
		for i, l := range labels {
			codes[l] = float64(i)
		}
		m.categories[f] = codes
	}

	var err error
	switch a.Kind {
	case KindRandomForest:
		m.est, err = compileForest(a.Trees, len(a.Features), len(a.Classes), positive)
	case KindLogisticRegression:
		m.est, err = compileLogistic(a.Coefficients, a.Intercept, len(a.Features), positive)
	default:
		err = unavailable("unsupported kind %q", a.Kind)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Features returns the feature names in training order.
func (m *Model) Features() []string {
	return append([]string(nil), m.features...)
}

// Info describes the model.
func (m *Model) Info() Info {
	return Info{
		Name:       m.name,
		Version:    m.version,
		Kind:       m.kind,
		Classes:    append([]string(nil), m.classes...),
		Positive:   m.classes[m.positive],
		Features:   m.Features(),
		Estimators: m.est.size(),
		Metrics:    m.metrics,
	}
}

// Score returns the probability of the positive class for one frame. The
// frame must carry exactly the model's features; anything else is a
// *ScoringError.
func (m *Model) Score(ctx context.Context, f Frame) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	x, err := m.encode(f)
	if err != nil {
		return 0, err
	}
	p := m.est.positiveProba(x)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, scoringErr("", "classifier produced a non-finite probability")
	}
	return math.Min(1, math.Max(0, p)), nil
}
