package ckd

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"
)

func defaultForm() url.Values {
	v := url.Values{}
	for name, value := range DefaultRecord().Values() {
		v.Set(name, value)
	}
	return v
}

func TestParseForm_Defaults(t *testing.T) {
	r, err := ParseForm(defaultForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != DefaultRecord() {
		t.Errorf("round trip mismatch: %+v", r)
	}
}

func TestParseForm_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"missing", "age", ""},
		{"age above range", "age", "121"},
		{"negative pressure", "blood_pressure", "-1"},
		{"fractional integer", "packed_cell_volume", "40.5"},
		{"not a number", "sodium", "abc"},
		{"unlisted gravity", "specific_gravity", "1.030"},
		{"unlisted albumin", "albumin", "6"},
		{"unknown category", "gender", "other"},
		{"creatinine above range", "serum_creatinine", "50.01"},
		{"infinite", "potassium", "Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := defaultForm()
			form.Set(tt.field, tt.value)
			_, err := ParseForm(form)
			if err == nil {
				t.Fatal("expected error")
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %T", err)
			}
			if fe.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, fe.Field)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("expected ErrInvalidInput")
			}
		})
	}
}

func TestParseForm_Bounds(t *testing.T) {
	form := defaultForm()
	form.Set("age", "0")
	form.Set("white_blood_cell_count", "50000")
	form.Set("specific_gravity", "1.025")
	form.Set("hemoglobin", "30")
	r, err := ParseForm(form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Age != 0 || r.WhiteBloodCellCount != 50000 || r.SpecificGravity != 1.025 || r.Hemoglobin != 30 {
		t.Errorf("bounds not accepted: %+v", r)
	}
}

func TestFrameFromValues(t *testing.T) {
	var body map[string]interface{}
	raw := `{"age": 61, "specific_gravity": "1.015", "hypertension": "no", "serum_creatinine": 2.4}`
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatal(err)
	}
	frame, err := FrameFromValues(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frame) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(frame))
	}
	want := []string{"age", "specific_gravity", "serum_creatinine", "hypertension"}
	for i, name := range frame.Names() {
		if name != want[i] {
			t.Errorf("column %d = %s, want %s", i, name, want[i])
		}
	}
	if v, _ := frame[1].Value.Float(); v != 1.015 {
		t.Errorf("expected 1.015, got %v", v)
	}
}

func TestFrameFromValues_Errors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"unknown field", map[string]interface{}{"weight": 70.0}},
		{"number for category", map[string]interface{}{"anemia": 1.0}},
		{"out of range", map[string]interface{}{"age": 500.0}},
		{"null", map[string]interface{}{"age": nil}},
		{"bool", map[string]interface{}{"age": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FrameFromValues(tt.body); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRecordFromFrame(t *testing.T) {
	r, err := RecordFromFrame(DefaultRecord().Frame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != DefaultRecord() {
		t.Errorf("round trip mismatch: %+v", r)
	}

	_, err = RecordFromFrame(DefaultRecord().Frame().Without("anemia"))
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "anemia" {
		t.Errorf("expected missing anemia, got %v", err)
	}
}
