package cog

import (
	"fmt"
	"math"
)

// DefaultPrecision is the number of decimals used for displayed metrics.
const DefaultPrecision = 2

// Result is the output of one computation. It is derived data: recomputed
// from the rows on every change and never cached.
type Result struct {
	TotalWeight        float64   `json:"total_weight"`
	TotalMoment        float64   `json:"total_moment"`
	RawCenterOfGravity float64   `json:"raw_center_of_gravity"`
	CenterOfGravity    float64   `json:"center_of_gravity"` // scaled
	SignedOffset       float64   `json:"signed_offset"`     // |CenterOfGravity|, always >= 0
	Direction          Direction `json:"direction"`
	CameraDistance     float64   `json:"camera_distance"`
	Scale              float64   `json:"scale"`

	Complete int         `json:"complete_rows"`
	Skipped  int         `json:"skipped_rows"`
	Rows     []RowMoment `json:"rows"`
}

// RowMoment is one input row together with its contribution.
type RowMoment struct {
	Row
	Moment   float64 `json:"moment"`
	Included bool    `json:"included"`
}

// Finite reports whether every total of r is a finite number. Totals of
// rows that are each valid can still overflow float64.
func (r Result) Finite() bool {
	for _, v := range []float64{r.TotalWeight, r.TotalMoment, r.CenterOfGravity, r.CameraDistance} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Validate returns an INVALID_INPUT error when r is not Finite.
func (r Result) Validate() error {
	if !r.Finite() {
		return errOverflow()
	}
	return nil
}

// Displacement returns the offset with its polarity applied: positive toward
// Right, negative toward Left. Overlays feed this into the position mapper.
func (r Result) Displacement() float64 {
	return r.Direction.Sign() * r.SignedOffset
}

// Instruction is a short human-readable repositioning hint.
func (r Result) Instruction(precision int) string {
	if r.Direction == Neutral {
		return "balanced, no adjustment needed"
	}
	return fmt.Sprintf("move camera %s to the %s", FormatFixed(r.SignedOffset, precision), r.Direction)
}

// Metric is one labeled, formatted value for result sinks.
type Metric struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Help  string `json:"help,omitempty"`
}

// Metrics returns the display metrics with fixed-point formatting.
// A negative precision falls back to DefaultPrecision.
func (r Result) Metrics(precision int) []Metric {
	return []Metric{
		{Key: "total_weight", Label: "Total Weight", Value: FormatFixed(r.TotalWeight, precision)},
		{Key: "total_moment", Label: "Total Moment", Value: FormatFixed(r.TotalMoment, precision)},
		{Key: "center_of_gravity", Label: "Center of Gravity", Value: FormatFixed(r.CenterOfGravity, precision)},
		{Key: "signed_offset", Label: "Camera Offset", Value: FormatFixed(r.SignedOffset, precision) + " " + r.Direction.String()},
		{Key: "camera_distance", Label: "Distance of camera", Value: FormatFixed(r.CameraDistance, precision), Help: "Recommended distance"},
	}
}

// FormatFixed formats v with the given number of decimals.
// Negative zero is printed as zero.
func FormatFixed(v float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	s := fmt.Sprintf("%.*f", precision, v)
	if s[0] == '-' && isZeroString(s[1:]) {
		return s[1:]
	}
	return s
}

func isZeroString(s string) bool {
	for _, c := range s {
		if c != '0' && c != '.' {
			return false
		}
	}
	return true
}
