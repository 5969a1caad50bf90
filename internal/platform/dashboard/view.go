package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownView is returned by ParseView for names that are not a view.
var ErrUnknownView = errors.New("unknown view")

// View is one of the dashboard pages.
type View int

const (
	ViewHome View = iota
	ViewPrediction
	ViewVisualizations
	ViewAbout
)

var views = []struct {
	name  string
	title string
}{
	ViewHome:           {"home", "Home"},
	ViewPrediction:     {"prediction", "Prediction"},
	ViewVisualizations: {"visualizations", "Visualizations"},
	ViewAbout:          {"about", "About Me"},
}

// Views returns every view in navigation order.
func Views() []View {
	return []View{ViewHome, ViewPrediction, ViewVisualizations, ViewAbout}
}

func (v View) valid() bool { return v >= ViewHome && v <= ViewAbout }

// String is the view's name as used in URLs and template names.
func (v View) String() string {
	if !v.valid() {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return views[v].name
}

// Title is the navigation label.
func (v View) Title() string {
	if !v.valid() {
		return ""
	}
	return views[v].title
}

// Path is the URL the view is served at.
func (v View) Path() string { return "/" + v.String() }

// ParseView resolves a view name. The empty name is Home.
func ParseView(name string) (View, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ViewHome, nil
	}
	for _, v := range Views() {
		if views[v].name == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, name)
}
