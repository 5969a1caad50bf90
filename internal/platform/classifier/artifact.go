package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Kinds of estimator an artifact can carry.
const (
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

// Artifact is the on-disk JSON export of a trained binary classifier.
type Artifact struct {
	Format        string              `json:"format"`
	Kind          string              `json:"kind"`
	Name          string              `json:"name,omitempty"`
	Version       string              `json:"version,omitempty"`
	Classes       []string            `json:"classes"`
	PositiveClass *int                `json:"positive_class,omitempty"`
	Features      []string            `json:"features"`
	Categories    map[string][]string `json:"categories,omitempty"`
	Trees         []TreeSpec          `json:"trees,omitempty"`
	Coefficients  []float64           `json:"coefficients,omitempty"`
	Intercept     float64             `json:"intercept,omitempty"`
	Metrics       map[string]float64  `json:"metrics,omitempty"`
}

// TreeSpec is one decision tree as a flat node array; node 0 is the root.
type TreeSpec struct {
	Nodes []NodeSpec `json:"nodes"`
}

// NodeSpec is either a split (Feature, Threshold, Left, Right) or a leaf
// (Value holds per-class weights).
type NodeSpec struct {
	Feature   *int      `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *int      `json:"left,omitempty"`
	Right     *int      `json:"right,omitempty"`
	Value     []float64 `json:"value,omitempty"`
}

func (n NodeSpec) isLeaf() bool { return n.Left == nil && n.Right == nil }

// Load reads and compiles the artifact at path. Every failure wraps
// ErrArtifactUnavailable.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: model file not found: %s: %w", ErrArtifactUnavailable, path, fs.ErrNotExist)
		}
		return nil, unavailable("read model file %s: %v", path, err)
	}
	return Parse(raw)
}

// Parse validates and compiles an artifact from raw JSON.
func Parse(raw []byte) (*Model, error) {
	if err := validateDocument(raw); err != nil {
		return nil, unavailable("%v", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, unavailable("decode artifact: %v", err)
	}
	return Compile(&a)
}
