package dashboard

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Chart is one pre-rendered model performance image.
type Chart struct {
	Key     string `yaml:"key"`
	Caption string `yaml:"caption"`
	Path    string `yaml:"path"`
}

// Panel is a chart as shown on the Visualizations page.
type Panel struct {
	Chart
	URL       string
	Available bool
}

// Placeholder is shown instead of the image when the file is missing.
func (p Panel) Placeholder() string {
	return p.Caption + " image not found."
}

type manifest struct {
	Charts []Chart `yaml:"charts"`
}

var chartKey = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// DefaultCharts are the four images produced alongside the classifier.
func DefaultCharts(imagesDir string) []Chart {
	return []Chart{
		{Key: "confusion_matrix", Caption: "Confusion Matrix", Path: filepath.Join(imagesDir, "confusion_matrix_rf.png")},
		{Key: "roc_curve", Caption: "ROC Curve", Path: filepath.Join(imagesDir, "roc_curve_rf.png")},
		{Key: "feature_importance", Caption: "Feature Importance", Path: filepath.Join(imagesDir, "feature_importance_rf.png")},
		{Key: "probability_distribution", Caption: "Probability Distribution", Path: filepath.Join(imagesDir, "probability_distribution_rf.png")},
	}
}

// Gallery is the ordered, immutable set of charts the dashboard displays.
type Gallery struct {
	charts []Chart
	byKey  map[string]int
}

// NewGallery checks that every chart has a unique key, a caption and a path.
func NewGallery(charts []Chart) (*Gallery, error) {
	if len(charts) == 0 {
		return nil, fmt.Errorf("chart list is empty")
	}
	g := &Gallery{
		charts: make([]Chart, len(charts)),
		byKey:  make(map[string]int, len(charts)),
	}
	for i, ch := range charts {
		if !chartKey.MatchString(ch.Key) {
			return nil, fmt.Errorf("chart %d: invalid key %q", i, ch.Key)
		}
		if _, dup := g.byKey[ch.Key]; dup {
			return nil, fmt.Errorf("chart %d: duplicate key %q", i, ch.Key)
		}
		if ch.Caption == "" {
			return nil, fmt.Errorf("chart %q: caption is required", ch.Key)
		}
		if ch.Path == "" {
			return nil, fmt.Errorf("chart %q: path is required", ch.Key)
		}
		g.charts[i] = ch
		g.byKey[ch.Key] = i
	}
	return g, nil
}

// LoadGallery reads the chart manifest at manifestPath. Without a manifest the
// default charts under imagesDir are used. Relative paths in a manifest are
// resolved against the manifest's directory.
func LoadGallery(manifestPath, imagesDir string) (*Gallery, error) {
	if manifestPath == "" {
		return NewGallery(DefaultCharts(imagesDir))
	}

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read chart manifest: %w", err)
	}

	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse chart manifest %s: %w", manifestPath, err)
	}

	base := filepath.Dir(manifestPath)
	for i := range m.Charts {
		if p := m.Charts[i].Path; p != "" && !filepath.IsAbs(p) {
			m.Charts[i].Path = filepath.Join(base, p)
		}
	}

	g, err := NewGallery(m.Charts)
	if err != nil {
		return nil, fmt.Errorf("chart manifest %s: %w", manifestPath, err)
	}
	return g, nil
}

// Charts returns the charts in display order.
func (g *Gallery) Charts() []Chart {
	out := make([]Chart, len(g.charts))
	copy(out, g.charts)
	return out
}

// Lookup returns the chart with the given key.
func (g *Gallery) Lookup(key string) (Chart, bool) {
	i, ok := g.byKey[key]
	if !ok {
		return Chart{}, false
	}
	return g.charts[i], true
}

// Panels reports each chart with whether its file currently exists. Files are
// checked on every call so images dropped in after startup show up.
func (g *Gallery) Panels() []Panel {
	out := make([]Panel, len(g.charts))
	for i, ch := range g.charts {
		out[i] = Panel{
			Chart:     ch,
			URL:       "/charts/" + ch.Key,
			Available: fileExists(ch.Path),
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
