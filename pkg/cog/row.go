package cog

import (
	"math"

	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

// Row is one payload entry as edited by the operator.
// A nil Weight or Arm means the cell was left blank.
type Row struct {
	Component string   `json:"component,omitempty" yaml:"component,omitempty" toml:"component,omitempty"`
	Weight    *float64 `json:"weight" yaml:"weight" toml:"weight,omitempty"`
	Arm       *float64 `json:"arm" yaml:"arm" toml:"arm,omitempty"`
}

// Value returns a pointer to v, for building rows with optional fields.
func Value(v float64) *float64 { return &v }

// NewRow returns a complete row.
func NewRow(component string, weight, arm float64) Row {
	return Row{Component: component, Weight: Value(weight), Arm: Value(arm)}
}

// Complete reports whether both weight and arm are present.
// NaN is treated as missing.
func (r Row) Complete() bool {
	return present(r.Weight) && present(r.Arm)
}

// Moment returns weight × arm, and false if the row is incomplete.
func (r Row) Moment() (float64, bool) {
	if !r.Complete() {
		return 0, false
	}
	return *r.Weight * *r.Arm, true
}

// Validate rejects rows that must never reach the calculator.
// Incomplete rows are valid; they are only excluded from the sums.
func (r Row) Validate(minWeight float64) error {
	return errs.ValidateRow(r.Component, r.Weight, r.Arm, minWeight)
}

// Clone returns a copy that shares no pointers with r.
func (r Row) Clone() Row {
	return Row{Component: r.Component, Weight: clonePtr(r.Weight), Arm: clonePtr(r.Arm)}
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

// RowSet is the ordered table of rows owned by one session.
// Order only matters for display; results are order independent.
type RowSet []Row

// Complete returns the complete rows, in order.
func (rs RowSet) Complete() RowSet {
	out := make(RowSet, 0, len(rs))
	for _, r := range rs {
		if r.Complete() {
			out = append(out, r)
		}
	}
	return out
}

// CompleteCount returns the number of complete rows.
func (rs RowSet) CompleteCount() int {
	n := 0
	for _, r := range rs {
		if r.Complete() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy, so callers can hand rows across ownership boundaries.
func (rs RowSet) Clone() RowSet {
	if rs == nil {
		return nil
	}
	out := make(RowSet, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// Append returns rs with r added at the end.
func (rs RowSet) Append(r Row) RowSet {
	return append(rs, r)
}

// Update replaces the row at index i.
func (rs RowSet) Update(i int, r Row) error {
	if err := errs.ValidateIndex(i, len(rs)); err != nil {
		return err
	}
	rs[i] = r
	return nil
}

// Delete returns rs without the row at index i.
func (rs RowSet) Delete(i int) (RowSet, error) {
	if err := errs.ValidateIndex(i, len(rs)); err != nil {
		return rs, err
	}
	return append(rs[:i], rs[i+1:]...), nil
}

// Validate checks every row and reports the first rejection with its index.
// A table whose unscaled totals overflow is rejected as a whole.
func (rs RowSet) Validate(minWeight float64) error {
	for i, r := range rs {
		if err := r.Validate(minWeight); err != nil {
			return errs.Wrap(errs.GetCode(err), err, "row %d", i+1)
		}
	}
	if !Compute(rs).Finite() {
		return errOverflow()
	}
	return nil
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Value(*v)
}
