package dashboard

import (
	"net/url"
	"strconv"

	"github.com/hiraubaid75/ckd-prediction-system/internal/domain/ckd"
)

// formLayout places the clinical fields in the two form columns.
var formLayout = [2][]string{
	{
		"age", "gender", "blood_pressure", "specific_gravity", "albumin", "sugar",
		"pus_cell", "pus_cell_clumps", "bacteria", "blood_glucose_random", "blood_urea",
		"serum_creatinine",
	},
	{
		"sodium", "potassium", "hemoglobin", "packed_cell_volume", "white_blood_cell_count",
		"red_blood_cell_count", "hypertension", "diabetes_mellitus", "coronary_artery_disease",
		"appetite", "anemia", "pedal_edema", "red_blood_cells",
	},
}

// Input is one rendered form control.
type Input struct {
	Name    string
	Label   string
	Value   string
	Select  bool
	Options []Option
	Min     string
	Max     string
	Step    string
}

type Option struct {
	Value    string
	Selected bool
}

// buildColumns renders every field with the given values. Fields without a
// value fall back to their default.
func buildColumns(values map[string]string) [2][]Input {
	var cols [2][]Input
	for i, names := range formLayout {
		for _, name := range names {
			f, ok := ckd.Lookup(name)
			if !ok {
				continue
			}
			v, ok := values[name]
			if !ok {
				v = f.Default
			}
			cols[i] = append(cols[i], newInput(f, v))
		}
	}
	return cols
}

// columnsFromForm keeps what the user typed so a rejected submission can be
// corrected in place.
func columnsFromForm(form url.Values) [2][]Input {
	values := make(map[string]string, len(form))
	for name := range form {
		values[name] = form.Get(name)
	}
	return buildColumns(values)
}

func newInput(f ckd.Field, value string) Input {
	in := Input{Name: f.Name, Label: f.Label, Value: value}
	if !f.Ranged() {
		in.Select = true
		in.Options = make([]Option, len(f.Options))
		for i, opt := range f.Options {
			in.Options[i] = Option{Value: opt, Selected: sameOption(f, opt, value)}
		}
		return in
	}
	in.Min = formatNumber(f.Min)
	in.Max = formatNumber(f.Max)
	in.Step = formatNumber(f.Step)
	return in
}

// sameOption compares numerically for enumerated numbers, so "1.01" selects
// the "1.010" option.
func sameOption(f ckd.Field, opt, value string) bool {
	if f.Kind != ckd.KindChoice {
		return opt == value
	}
	a, errA := strconv.ParseFloat(opt, 64)
	b, errB := strconv.ParseFloat(value, 64)
	return errA == nil && errB == nil && a == b
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
