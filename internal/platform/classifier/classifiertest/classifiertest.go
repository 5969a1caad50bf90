// Package classifiertest provides small, hand-checked classifier artifacts
// for tests in other packages.
package classifiertest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
)

// ForestJSON is a three-tree random forest over the full clinical record.
//
// For the all-defaults record it yields (25/30 + 3/73 + 40/43) / 3 ≈ 0.6016.
// For a record with specific_gravity 1.020, serum_creatinine 1.0 and
// hypertension "no" it yields (2/62 + 3/73 + 15/70) / 3 ≈ 0.0959.
const ForestJSON = `{
  "format": "ckd-classifier/v1",
  "kind": "random_forest",
  "name": "best_random_forest_model",
  "version": "test",
  "classes": ["notckd", "ckd"],
  "positive_class": 1,
  "features": [
    "age", "blood_pressure", "specific_gravity", "albumin", "sugar",
    "blood_glucose_random", "blood_urea", "serum_creatinine", "sodium", "potassium",
    "hemoglobin", "packed_cell_volume", "white_blood_cell_count", "red_blood_cell_count",
    "red_blood_cells", "pus_cell", "pus_cell_clumps", "bacteria", "hypertension",
    "diabetes_mellitus", "coronary_artery_disease", "appetite", "pedal_edema", "anemia", "gender"
  ],
  "categories": {
    "red_blood_cells": ["abnormal", "normal"],
    "pus_cell": ["abnormal", "normal"],
    "pus_cell_clumps": ["notpresent", "present"],
    "bacteria": ["notpresent", "present"],
    "hypertension": ["no", "yes"],
    "diabetes_mellitus": ["no", "yes"],
    "coronary_artery_disease": ["no", "yes"],
    "appetite": ["good", "poor"],
    "pedal_edema": ["no", "yes"],
    "anemia": ["no", "yes"],
    "gender": ["female", "male"]
  },
  "trees": [
    {"nodes": [
      {"feature": 10, "threshold": 12.95, "left": 1, "right": 2},
      {"value": [2, 48]},
      {"feature": 2, "threshold": 1.0175, "left": 3, "right": 4},
      {"value": [5, 25]},
      {"value": [60, 2]}
    ]},
    {"nodes": [
      {"feature": 7, "threshold": 1.25, "left": 1, "right": 2},
      {"feature": 3, "threshold": 0.5, "left": 3, "right": 4},
      {"value": [0, 50]},
      {"value": [70, 3]},
      {"value": [1, 20]}
    ]},
    {"nodes": [
      {"feature": 18, "threshold": 0.5, "left": 1, "right": 2},
      {"value": [55, 15]},
      {"value": [3, 40]}
    ]}
  ],
  "metrics": {"accuracy": 0.975, "roc_auc": 0.998}
}`

// DefaultProbability is the forest's output for the all-defaults record.
const DefaultProbability = (25.0/30 + 3.0/73 + 40.0/43) / 3

// HealthyProbability is the forest's output for the healthy record described
// on ForestJSON.
const HealthyProbability = (2.0/62 + 3.0/73 + 15.0/70) / 3

// WriteForest writes ForestJSON into a temp dir and returns its path.
func WriteForest(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "best_random_forest_model.json")
	if err := os.WriteFile(path, []byte(ForestJSON), 0o600); err != nil {
		t.Fatalf("write forest artifact: %v", err)
	}
	return path
}

// Forest parses ForestJSON.
func Forest(t testing.TB) *classifier.Model {
	t.Helper()
	m, err := classifier.Parse([]byte(ForestJSON))
	if err != nil {
		t.Fatalf("parse forest artifact: %v", err)
	}
	return m
}
