package ckd

import (
	"time"

	"github.com/google/uuid"

	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
)

// Kind is the input type of a clinical field.
type Kind string

const (
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindChoice   Kind = "choice"   // enumerated numeric value
	KindCategory Kind = "category" // enumerated label
)

// Field describes one input of the clinical form.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Options []string `json:"options,omitempty"`
	Default string   `json:"default"`
	// Demographic marks inputs that describe the patient rather than a
	// clinical measurement.
	Demographic bool `json:"demographic,omitempty"`
}

// Numeric reports whether the field carries a number.
func (f Field) Numeric() bool { return f.Kind != KindCategory }

// Ranged reports whether the field is bounded by Min and Max.
func (f Field) Ranged() bool { return f.Kind == KindInteger || f.Kind == KindFloat }

var schema = []Field{
	{Name: "age", Label: "Age", Kind: KindInteger, Min: 0, Max: 120, Step: 1, Default: "50"},
	{Name: "blood_pressure", Label: "Blood Pressure", Kind: KindInteger, Min: 0, Max: 200, Step: 1, Default: "80"},
	{Name: "specific_gravity", Label: "Specific Gravity", Kind: KindChoice, Options: []string{"1.005", "1.010", "1.015", "1.020", "1.025"}, Default: "1.010"},
	{Name: "albumin", Label: "Albumin", Kind: KindChoice, Options: []string{"0", "1", "2", "3", "4", "5"}, Default: "0"},
	{Name: "sugar", Label: "Sugar", Kind: KindChoice, Options: []string{"0", "1", "2", "3", "4", "5"}, Default: "0"},
	{Name: "blood_glucose_random", Label: "Blood Glucose Random", Kind: KindFloat, Min: 0, Max: 500, Step: 1, Default: "120"},
	{Name: "blood_urea", Label: "Blood Urea", Kind: KindFloat, Min: 0, Max: 500, Step: 1, Default: "40"},
	{Name: "serum_creatinine", Label: "Serum Creatinine", Kind: KindFloat, Min: 0, Max: 50, Step: 0.01, Default: "1.2"},
	{Name: "sodium", Label: "Sodium", Kind: KindFloat, Min: 0, Max: 200, Step: 1, Default: "135"},
	{Name: "potassium", Label: "Potassium", Kind: KindFloat, Min: 0, Max: 20, Step: 0.01, Default: "4.5"},
	{Name: "hemoglobin", Label: "Hemoglobin", Kind: KindFloat, Min: 0, Max: 30, Step: 0.1, Default: "15"},
	{Name: "packed_cell_volume", Label: "Packed Cell Volume", Kind: KindInteger, Min: 0, Max: 70, Step: 1, Default: "40"},
	{Name: "white_blood_cell_count", Label: "White Blood Cell Count", Kind: KindInteger, Min: 0, Max: 50000, Step: 1, Default: "8000"},
	{Name: "red_blood_cell_count", Label: "Red Blood Cell Count", Kind: KindFloat, Min: 0, Max: 10, Step: 0.01, Default: "4.5"},
	{Name: "red_blood_cells", Label: "Red Blood Cells", Kind: KindCategory, Options: []string{"normal", "abnormal"}, Default: "normal"},
	{Name: "pus_cell", Label: "Pus Cell", Kind: KindCategory, Options: []string{"normal", "abnormal"}, Default: "normal"},
	{Name: "pus_cell_clumps", Label: "Pus Cell Clumps", Kind: KindCategory, Options: []string{"present", "notpresent"}, Default: "present"},
	{Name: "bacteria", Label: "Bacteria", Kind: KindCategory, Options: []string{"present", "notpresent"}, Default: "present"},
	{Name: "hypertension", Label: "Hypertension", Kind: KindCategory, Options: []string{"yes", "no"}, Default: "yes"},
	{Name: "diabetes_mellitus", Label: "Diabetes Mellitus", Kind: KindCategory, Options: []string{"yes", "no"}, Default: "yes"},
	{Name: "coronary_artery_disease", Label: "Coronary Artery Disease", Kind: KindCategory, Options: []string{"yes", "no"}, Default: "yes"},
	{Name: "appetite", Label: "Appetite", Kind: KindCategory, Options: []string{"good", "poor"}, Default: "good"},
	{Name: "pedal_edema", Label: "Pedal Edema", Kind: KindCategory, Options: []string{"yes", "no"}, Default: "yes"},
	{Name: "anemia", Label: "Anemia", Kind: KindCategory, Options: []string{"yes", "no"}, Default: "yes"},
	{Name: "gender", Label: "Gender", Kind: KindCategory, Options: []string{"male", "female"}, Default: "male", Demographic: true},
}

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(schema))
	for i, f := range schema {
		m[f.Name] = i
	}
	return m
}()

// Schema returns the clinical fields in training order.
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// FieldNames returns the field names in training order.
func FieldNames() []string {
	out := make([]string, len(schema))
	for i, f := range schema {
		out[i] = f.Name
	}
	return out
}

// ClinicalParameterCount is the number of clinical measurements the form
// collects, demographic inputs excluded.
func ClinicalParameterCount() int {
	n := 0
	for _, f := range schema {
		if !f.Demographic {
			n++
		}
	}
	return n
}

// Lookup returns the field with the given name.
func Lookup(name string) (Field, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return schema[i], true
}

// Record is one patient's clinical values as submitted through the form.
type Record struct {
	Age                   int     `json:"age"`
	BloodPressure         int     `json:"blood_pressure"`
	SpecificGravity       float64 `json:"specific_gravity"`
	Albumin               int     `json:"albumin"`
	Sugar                 int     `json:"sugar"`
	BloodGlucoseRandom    float64 `json:"blood_glucose_random"`
	BloodUrea             float64 `json:"blood_urea"`
	SerumCreatinine       float64 `json:"serum_creatinine"`
	Sodium                float64 `json:"sodium"`
	Potassium             float64 `json:"potassium"`
	Hemoglobin            float64 `json:"hemoglobin"`
	PackedCellVolume      int     `json:"packed_cell_volume"`
	WhiteBloodCellCount   int     `json:"white_blood_cell_count"`
	RedBloodCellCount     float64 `json:"red_blood_cell_count"`
	RedBloodCells         string  `json:"red_blood_cells"`
	PusCell               string  `json:"pus_cell"`
	PusCellClumps         string  `json:"pus_cell_clumps"`
	Bacteria              string  `json:"bacteria"`
	Hypertension          string  `json:"hypertension"`
	DiabetesMellitus      string  `json:"diabetes_mellitus"`
	CoronaryArteryDisease string  `json:"coronary_artery_disease"`
	Appetite              string  `json:"appetite"`
	PedalEdema            string  `json:"pedal_edema"`
	Anemia                string  `json:"anemia"`
	Gender                string  `json:"gender"`
}

// DefaultRecord returns the record with every field at its form default.
func DefaultRecord() Record {
	var r Record
	for _, f := range schema {
		v, err := f.Parse(f.Default)
		if err != nil {
			panic("ckd: bad default for " + f.Name + ": " + err.Error())
		}
		r.set(f.Name, v)
	}
	return r
}

// Frame returns the record as a labeled frame in training order.
func (r Record) Frame() classifier.Frame {
	n := classifier.Number
	c := classifier.Category
	return classifier.Frame{
		{Name: "age", Value: n(float64(r.Age))},
		{Name: "blood_pressure", Value: n(float64(r.BloodPressure))},
		{Name: "specific_gravity", Value: n(r.SpecificGravity)},
		{Name: "albumin", Value: n(float64(r.Albumin))},
		{Name: "sugar", Value: n(float64(r.Sugar))},
		{Name: "blood_glucose_random", Value: n(r.BloodGlucoseRandom)},
		{Name: "blood_urea", Value: n(r.BloodUrea)},
		{Name: "serum_creatinine", Value: n(r.SerumCreatinine)},
		{Name: "sodium", Value: n(r.Sodium)},
		{Name: "potassium", Value: n(r.Potassium)},
		{Name: "hemoglobin", Value: n(r.Hemoglobin)},
		{Name: "packed_cell_volume", Value: n(float64(r.PackedCellVolume))},
		{Name: "white_blood_cell_count", Value: n(float64(r.WhiteBloodCellCount))},
		{Name: "red_blood_cell_count", Value: n(r.RedBloodCellCount)},
		{Name: "red_blood_cells", Value: c(r.RedBloodCells)},
		{Name: "pus_cell", Value: c(r.PusCell)},
		{Name: "pus_cell_clumps", Value: c(r.PusCellClumps)},
		{Name: "bacteria", Value: c(r.Bacteria)},
		{Name: "hypertension", Value: c(r.Hypertension)},
		{Name: "diabetes_mellitus", Value: c(r.DiabetesMellitus)},
		{Name: "coronary_artery_disease", Value: c(r.CoronaryArteryDisease)},
		{Name: "appetite", Value: c(r.Appetite)},
		{Name: "pedal_edema", Value: c(r.PedalEdema)},
		{Name: "anemia", Value: c(r.Anemia)},
		{Name: "gender", Value: c(r.Gender)},
	}
}

// Values returns each field's value formatted for a form input.
func (r Record) Values() map[string]string {
	f := r.Frame()
	out := make(map[string]string, len(f))
	for _, col := range f {
		out[col.Name] = col.Value.String()
	}
	return out
}

func (r *Record) set(name string, v classifier.Value) {
	num, _ := v.Float()
	str, _ := v.Label()
	switch name {
	case "age":
		r.Age = int(num)
	case "blood_pressure":
		r.BloodPressure = int(num)
	case "specific_gravity":
		r.SpecificGravity = num
	case "albumin":
		r.Albumin = int(num)
	case "sugar":
		r.Sugar = int(num)
	case "blood_glucose_random":
		r.BloodGlucoseRandom = num
	case "blood_urea":
		r.BloodUrea = num
	case "serum_creatinine":
		r.SerumCreatinine = num
	case "sodium":
		r.Sodium = num
	case "potassium":
		r.Potassium = num
	case "hemoglobin":
		r.Hemoglobin = num
	case "packed_cell_volume":
		r.PackedCellVolume = int(num)
	case "white_blood_cell_count":
		r.WhiteBloodCellCount = int(num)
	case "red_blood_cell_count":
		r.RedBloodCellCount = num
	case "red_blood_cells":
		r.RedBloodCells = str
	case "pus_cell":
		r.PusCell = str
	case "pus_cell_clumps":
		r.PusCellClumps = str
	case "bacteria":
		r.Bacteria = str
	case "hypertension":
		r.Hypertension = str
	case "diabetes_mellitus":
		r.DiabetesMellitus = str
	case "coronary_artery_disease":
		r.CoronaryArteryDisease = str
	case "appetite":
		r.Appetite = str
	case "pedal_edema":
		r.PedalEdema = str
	case "anemia":
		r.Anemia = str
	case "gender":
		r.Gender = str
	}
}

// Threshold separates the two display labels.
const Threshold = 0.5

// Label is the display verdict derived from a probability.
type Label string

const (
	LabelLikely   Label = "may have CKD"
	LabelUnlikely Label = "unlikely"
)

// LabelFor applies Threshold to p.
func LabelFor(p float64) Label {
	if p >= Threshold {
		return LabelLikely
	}
	return LabelUnlikely
}

// Message is the sentence shown to the user for the label.
func (l Label) Message() string {
	if l == LabelLikely {
		return "The patient may have CKD. Please consult a doctor."
	}
	return "The patient is unlikely to have CKD."
}

// Prediction is the outcome of scoring one record.
type Prediction struct {
	ID           uuid.UUID `json:"id"`
	Probability  float64   `json:"probability"`
	Label        Label     `json:"label"`
	Threshold    float64   `json:"threshold"`
	Model        string    `json:"model"`
	ModelVersion string    `json:"model_version,omitempty"`
	ScoredAt     time.Time `json:"scored_at"`
}
