package classifier

import (
	"encoding/json"
	"strconv"
)

// Value is a single cell of a frame: either a number or a category label.
type Value struct {
	num   float64
	str   string
	isStr bool
}

// Number returns a numeric cell.
func Number(f float64) Value { return Value{num: f} }

// Category returns a categorical cell.
func Category(s string) Value { return Value{str: s, isStr: true} }

// IsCategory reports whether the cell holds a category label.
func (v Value) IsCategory() bool { return v.isStr }

// Float returns the numeric value; ok is false for category cells.
func (v Value) Float() (f float64, ok bool) { return v.num, !v.isStr }

// Label returns the category label; ok is false for numeric cells.
func (v Value) Label() (s string, ok bool) { return v.str, v.isStr }

func (v Value) String() string {
	if v.isStr {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isStr {
		return json.Marshal(v.str)
	}
	return json.Marshal(v.num)
}

// Column is one labeled cell of a frame.
type Column struct {
	Name  string
	Value Value
}

// Frame is a single labeled record handed to a classifier. Column order is
// informational only: the model looks columns up by name and lays them out in
// the order it was trained on.
type Frame []Column

// Names returns the column names in frame order.
func (f Frame) Names() []string {
	out := make([]string, len(f))
	for i, c := range f {
		out[i] = c.Name
	}
	return out
}

// Without returns a copy of the frame with the named column removed.
func (f Frame) Without(name string) Frame {
	out := make(Frame, 0, len(f))
	for _, c := range f {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}
