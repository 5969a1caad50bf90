package classifier

import "math"

// encode lays a frame out as the model's input vector. Categorical features
// take the index of their label in the artifact's category list.
func (m *Model) encode(f Frame) ([]float64, error) {
	x := make([]float64, len(m.features))
	seen := make([]bool, len(m.features))

	for _, col := range f {
		i, ok := m.index[col.Name]
		if !ok {
			return nil, scoringErr(col.Name, "column not known to the classifier")
		}
		if seen[i] {
			return nil, scoringErr(col.Name, "column given more than once")
		}
		seen[i] = true

		if codes, categorical := m.categories[col.Name]; categorical {
			label, ok := col.Value.Label()
			if !ok {
				return nil, scoringErr(col.Name, "expected a category, got %s", col.Value)
			}
			code, ok := codes[label]
			if !ok {
				return nil, scoringErr(col.Name, "unknown category %q", label)
			}
			x[i] = code
			continue
		}

		v, ok := col.Value.Float()
		if !ok {
			return nil, scoringErr(col.Name, "expected a number, got %q", col.Value.String())
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, scoringErr(col.Name, "value is not finite")
		}
		x[i] = v
	}

	for i, ok := range seen {
		if !ok {
			return nil, scoringErr(m.features[i], "column missing")
		}
	}
	return x, nil
}
