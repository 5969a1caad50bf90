package ckd

import (
	"testing"
)

func TestSchema_Order(t *testing.T) {
	names := FieldNames()
	if len(names) != 25 {
		t.Fatalf("expected 25 fields, got %d", len(names))
	}
	if names[0] != "age" || names[len(names)-1] != "gender" {
		t.Errorf("unexpected ends: %s ... %s", names[0], names[len(names)-1])
	}
	frame := DefaultRecord().Frame()
	for i, col := range frame {
		if col.Name != names[i] {
			t.Errorf("frame column %d = %s, want %s", i, col.Name, names[i])
		}
	}
}

func TestSchema_IsCopy(t *testing.T) {
	s := Schema()
	s[0].Name = "mutated"
	if FieldNames()[0] != "age" {
		t.Error("Schema() must not expose internal state")
	}
}

func TestDefaultRecord(t *testing.T) {
	r := DefaultRecord()
	if r.Age != 50 {
		t.Errorf("expected age 50, got %d", r.Age)
	}
	if r.BloodPressure != 80 {
		t.Errorf("expected blood_pressure 80, got %d", r.BloodPressure)
	}
	if r.SpecificGravity != 1.010 {
		t.Errorf("expected specific_gravity 1.010, got %v", r.SpecificGravity)
	}
	if r.SerumCreatinine != 1.2 {
		t.Errorf("expected serum_creatinine 1.2, got %v", r.SerumCreatinine)
	}
	if r.WhiteBloodCellCount != 8000 {
		t.Errorf("expected white_blood_cell_count 8000, got %d", r.WhiteBloodCellCount)
	}
	if r.Gender != "male" {
		t.Errorf("expected gender male, got %s", r.Gender)
	}
	if r.PusCellClumps != "present" {
		t.Errorf("expected pus_cell_clumps present, got %s", r.PusCellClumps)
	}
}

func TestRecord_Values(t *testing.T) {
	v := DefaultRecord().Values()
	if v["specific_gravity"] != "1.01" {
		t.Errorf("expected 1.01, got %s", v["specific_gravity"])
	}
	if v["hypertension"] != "yes" {
		t.Errorf("expected yes, got %s", v["hypertension"])
	}
	if len(v) != 25 {
		t.Errorf("expected 25 values, got %d", len(v))
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		p    float64
		want Label
	}{
		{0, LabelUnlikely},
		{0.4999, LabelUnlikely},
		{0.5, LabelLikely},
		{1, LabelLikely},
	}
	for _, tt := range tests {
		if got := LabelFor(tt.p); got != tt.want {
			t.Errorf("LabelFor(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestLabel_Message(t *testing.T) {
	if LabelLikely.Message() != "The patient may have CKD. Please consult a doctor." {
		t.Errorf("unexpected likely message: %s", LabelLikely.Message())
	}
	if LabelUnlikely.Message() != "The patient is unlikely to have CKD." {
		t.Errorf("unexpected unlikely message: %s", LabelUnlikely.Message())
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("hemoglobin")
	if !ok {
		t.Fatal("expected hemoglobin field")
	}
	if f.Kind != KindFloat || f.Max != 30 || f.Step != 0.1 {
		t.Errorf("unexpected hemoglobin field: %+v", f)
	}
	if _, ok := Lookup("weight"); ok {
		t.Error("expected weight to be unknown")
	}
}

func TestClinicalParameterCount(t *testing.T) {
	if got := ClinicalParameterCount(); got != 24 {
		t.Errorf("expected 24 clinical parameters, got %d", got)
	}
	if f, _ := Lookup("gender"); !f.Demographic {
		t.Error("expected gender to be demographic")
	}
	if f, _ := Lookup("hemoglobin"); f.Demographic {
		t.Error("expected hemoglobin to be clinical")
	}
}
