package ckd

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
)

// ErrInvalidInput is wrapped by every FieldError.
var ErrInvalidInput = errors.New("invalid input")

// FieldError reports a value that falls outside its field's declared domain.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Reason }

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// Parse converts raw input text into a frame value, enforcing the field's
// range or option list.
func (f Field) Parse(raw string) (classifier.Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return classifier.Value{}, &FieldError{Field: f.Name, Reason: "is required"}
	}

	if f.Kind == KindCategory {
		for _, o := range f.Options {
			if raw == o {
				return classifier.Category(raw), nil
			}
		}
		return classifier.Value{}, &FieldError{Field: f.Name, Reason: fmt.Sprintf("must be one of %s", strings.Join(f.Options, ", "))}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return classifier.Value{}, &FieldError{Field: f.Name, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return f.check(v)
}

func (f Field) check(v float64) (classifier.Value, error) {
	switch f.Kind {
	case KindChoice:
		for _, o := range f.Options {
			ov, _ := strconv.ParseFloat(o, 64)
			if math.Abs(ov-v) < 1e-9 {
				return classifier.Number(ov), nil
			}
		}
		return classifier.Value{}, &FieldError{Field: f.Name, Reason: fmt.Sprintf("must be one of %s", strings.Join(f.Options, ", "))}
	case KindInteger:
		if v != math.Trunc(v) {
			return classifier.Value{}, &FieldError{Field: f.Name, Reason: "must be a whole number"}
		}
	}
	if v < f.Min || v > f.Max {
		return classifier.Value{}, &FieldError{Field: f.Name, Reason: fmt.Sprintf("must be between %s and %s", formatBound(f.Min), formatBound(f.Max))}
	}
	return classifier.Number(v), nil
}

func formatBound(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ParseForm assembles a Record from a submitted form. Every field is required.
func ParseForm(values url.Values) (Record, error) {
	var r Record
	for _, f := range schema {
		v, err := f.Parse(values.Get(f.Name))
		if err != nil {
			return Record{}, err
		}
		r.set(f.Name, v)
	}
	return r, nil
}

// FrameFromValues builds a frame from decoded JSON. Values are checked against
// their field's domain and unknown names are rejected, but absent fields are
// left out so that scoring reports them.
func FrameFromValues(values map[string]interface{}) (classifier.Frame, error) {
	for name := range values {
		if _, ok := fieldIndex[name]; !ok {
			return nil, &FieldError{Field: name, Reason: "unknown field"}
		}
	}

	frame := make(classifier.Frame, 0, len(values))
	for _, f := range schema {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		v, err := f.parseAny(raw)
		if err != nil {
			return nil, err
		}
		frame = append(frame, classifier.Column{Name: f.Name, Value: v})
	}
	return frame, nil
}

func (f Field) parseAny(raw interface{}) (classifier.Value, error) {
	switch v := raw.(type) {
	case string:
		return f.Parse(v)
	case float64:
		if f.Kind == KindCategory {
			break
		}
		return f.check(v)
	case json.Number:
		if f.Kind == KindCategory {
			break
		}
		return f.Parse(v.String())
	case int:
		if f.Kind == KindCategory {
			break
		}
		return f.check(float64(v))
	case nil:
		return classifier.Value{}, &FieldError{Field: f.Name, Reason: "is required"}
	}
	return classifier.Value{}, &FieldError{Field: f.Name, Reason: fmt.Sprintf("unexpected value %v", raw)}
}

// RecordFromFrame turns a complete, domain-checked frame back into a Record.
func RecordFromFrame(frame classifier.Frame) (Record, error) {
	var r Record
	seen := make(map[string]bool, len(frame))
	for _, col := range frame {
		if _, ok := fieldIndex[col.Name]; !ok {
			return Record{}, &FieldError{Field: col.Name, Reason: "unknown field"}
		}
		r.set(col.Name, col.Value)
		seen[col.Name] = true
	}
	for _, f := range schema {
		if !seen[f.Name] {
			return Record{}, &FieldError{Field: f.Name, Reason: "is required"}
		}
	}
	return r, nil
}
