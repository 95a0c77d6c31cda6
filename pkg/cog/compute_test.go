package cog

import (
	"math"
	"math/rand/v2"
	"testing"

	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= eps }

func scenarioA() RowSet {
	return RowSet{
		NewRow("GPS", 0.32, 1.12),
		NewRow("Battery", 4.7, -0.05),
		NewRow("Gimbal", 0.78, 0.43),
		NewRow("Drone", 26, 0.09),
		NewRow("Camera", 5.0, 1.5),
	}
}

func TestComputeScenarioA(t *testing.T) {
	rows := scenarioA()

	wantWeight := 0.32 + 4.7 + 0.78 + 26 + 5.0
	wantMoment := 0.32*1.12 + 4.7*-0.05 + 0.78*0.43 + 26*0.09 + 5.0*1.5

	res := Compute(rows)

	if !approx(res.TotalWeight, wantWeight) {
		t.Errorf("TotalWeight = %v, want %v", res.TotalWeight, wantWeight)
	}
	if !approx(res.TotalWeight, 36.8) {
		t.Errorf("TotalWeight = %v, want 36.8", res.TotalWeight)
	}
	if !approx(res.TotalMoment, wantMoment) {
		t.Errorf("TotalMoment = %v, want %v", res.TotalMoment, wantMoment)
	}
	if !approx(res.TotalMoment, 10.2988) {
		t.Errorf("TotalMoment = %v, want 10.2988", res.TotalMoment)
	}
	if !approx(res.CenterOfGravity, wantMoment/wantWeight) {
		t.Errorf("CenterOfGravity = %v, want %v", res.CenterOfGravity, wantMoment/wantWeight)
	}
	if res.Direction != Right {
		t.Errorf("Direction = %q, want %q", res.Direction, Right)
	}
	if res.Complete != 5 || res.Skipped != 0 {
		t.Errorf("Complete/Skipped = %d/%d, want 5/0", res.Complete, res.Skipped)
	}
	if !approx(res.CameraDistance, res.CenterOfGravity*DefaultCameraFactor) {
		t.Errorf("CameraDistance = %v, want %v", res.CameraDistance, res.CenterOfGravity*DefaultCameraFactor)
	}
}

func TestComputePermutationInvariance(t *testing.T) {
	rows := scenarioA()
	rows = append(rows, Row{Component: "Cable", Weight: Value(0.1)}, NewRow("Mount", 0.05, -2.25))
	base := Compute(rows)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		perm := rows.Clone()
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })

		got := Compute(perm)
		if got.TotalWeight != base.TotalWeight ||
			got.TotalMoment != base.TotalMoment ||
			got.CenterOfGravity != base.CenterOfGravity {
			t.Fatalf("permutation %d changed result: got (%v, %v, %v), want (%v, %v, %v)", i,
				got.TotalWeight, got.TotalMoment, got.CenterOfGravity,
				base.TotalWeight, base.TotalMoment, base.CenterOfGravity)
		}
	}
}

func TestComputeExcludesIncompleteRows(t *testing.T) {
	complete := RowSet{NewRow("A", 2, 1), NewRow("B", 3, -1)}
	want := Compute(complete)

	incomplete := []Row{
		{Component: "no arm", Weight: Value(100)},
		{Component: "no weight", Arm: Value(100)},
		{Component: "nan weight", Weight: Value(math.NaN()), Arm: Value(1)},
		{Component: "empty"},
	}

	for pos := 0; pos <= len(complete); pos++ {
		for _, bad := range incomplete {
			rows := make(RowSet, 0, len(complete)+1)
			rows = append(rows, complete[:pos]...)
			rows = append(rows, bad)
			rows = append(rows, complete[pos:]...)

			got := Compute(rows)
			if got.TotalWeight != want.TotalWeight || got.TotalMoment != want.TotalMoment {
				t.Errorf("%s at %d: totals = (%v, %v), want (%v, %v)", bad.Component, pos,
					got.TotalWeight, got.TotalMoment, want.TotalWeight, want.TotalMoment)
			}
			if got.Skipped != 1 {
				t.Errorf("%s at %d: Skipped = %d, want 1", bad.Component, pos, got.Skipped)
			}
			if got.Rows[pos].Included {
				t.Errorf("%s at %d: incomplete row marked as included", bad.Component, pos)
			}
		}
	}
}

func TestComputeZeroWeightFallback(t *testing.T) {
	tests := []struct {
		name string
		rows RowSet
	}{
		{"single zero weight", RowSet{NewRow("X", 0, 5)}},
		{"all zero weights", RowSet{NewRow("X", 0, 5), NewRow("Y", 0, -3)}},
		{"zero weights plus incomplete", RowSet{NewRow("X", 0, 5), {Component: "Y", Weight: Value(3)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(tt.rows, WithScale(1000))
			if res.TotalWeight != 0 {
				t.Errorf("TotalWeight = %v, want 0", res.TotalWeight)
			}
			if res.CenterOfGravity != 0 || math.Signbit(res.CenterOfGravity) {
				t.Errorf("CenterOfGravity = %v, want exactly 0", res.CenterOfGravity)
			}
			if res.Direction != Neutral {
				t.Errorf("Direction = %q, want %q", res.Direction, Neutral)
			}
			if res.SignedOffset != 0 {
				t.Errorf("SignedOffset = %v, want 0", res.SignedOffset)
			}
		})
	}
}

func TestComputeDirectionConsistency(t *testing.T) {
	tests := []struct {
		name  string
		rows  RowSet
		scale float64
		want  Direction
	}{
		{"positive arm", RowSet{NewRow("A", 1, 0.2)}, 1, Right},
		{"negative arm", RowSet{NewRow("A", 1, -0.2)}, 1, Left},
		{"balanced", RowSet{NewRow("A", 1, 0.5), NewRow("B", 1, -0.5)}, 1, Neutral},
		{"scaled negative", RowSet{NewRow("A", 2, -0.01)}, 1000, Left},
		{"zero arm", RowSet{NewRow("A", 3, 0)}, 1, Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(tt.rows, WithScale(tt.scale))
			if res.Direction != tt.want {
				t.Errorf("Direction = %q, want %q", res.Direction, tt.want)
			}
			if (res.Direction == Neutral) != (res.CenterOfGravity == 0) {
				t.Errorf("neutral iff CoG == 0 violated: dir=%q cog=%v", res.Direction, res.CenterOfGravity)
			}
			if res.SignedOffset < 0 {
				t.Errorf("SignedOffset = %v, must be >= 0", res.SignedOffset)
			}
			want := math.Abs(res.RawCenterOfGravity * tt.scale)
			if !approx(res.SignedOffset, want) {
				t.Errorf("SignedOffset = %v, want |cog*scale| = %v", res.SignedOffset, want)
			}
			if !approx(res.Displacement(), res.CenterOfGravity) {
				t.Errorf("Displacement() = %v, want %v", res.Displacement(), res.CenterOfGravity)
			}
		})
	}
}

func TestComputeScale(t *testing.T) {
	rows := RowSet{NewRow("Camera", 1, 0.01)}

	res := Compute(rows, WithScale(1000))

	if !approx(res.RawCenterOfGravity, 0.01) {
		t.Errorf("RawCenterOfGravity = %v, want 0.01", res.RawCenterOfGravity)
	}
	if got := FormatFixed(res.CenterOfGravity, 2); got != "10.00" {
		t.Errorf("CenterOfGravity = %s, want 10.00", got)
	}
	if got := FormatFixed(res.SignedOffset, 2); got != "10.00" {
		t.Errorf("SignedOffset = %s, want 10.00", got)
	}
	if res.Scale != 1000 {
		t.Errorf("Scale = %v, want 1000", res.Scale)
	}
}

func TestWithScaleIgnoresInvalid(t *testing.T) {
	rows := RowSet{NewRow("A", 1, 2)}
	for _, s := range []float64{0, -5, math.Inf(1), math.NaN()} {
		res := Compute(rows, WithScale(s))
		if res.Scale != DefaultScale {
			t.Errorf("WithScale(%v): Scale = %v, want %v", s, res.Scale, DefaultScale)
		}
	}
}

func TestCalculateIncompleteInput(t *testing.T) {
	tests := []struct {
		name string
		rows RowSet
	}{
		{"nil", nil},
		{"empty", RowSet{}},
		{"all missing arm", RowSet{{Component: "A", Weight: Value(1)}, {Component: "B", Weight: Value(2)}}},
		{"all blank", RowSet{{}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if HasComplete(tt.rows) {
				t.Fatal("HasComplete() = true, want false")
			}
			_, err := Calculate(tt.rows)
			if !errs.Is(err, errs.ErrCodeIncompleteInput) {
				t.Errorf("Calculate() error = %v, want INCOMPLETE_INPUT", err)
			}
		})
	}
}

func TestCalculateOverflow(t *testing.T) {
	tests := []struct {
		name      string
		rows      RowSet
		opts      []Option
		wantValid bool // Validate checks unscaled totals only
	}{
		{"weight sum", RowSet{NewRow("A", 1e308, 1), NewRow("B", 1e308, 1)}, nil, false},
		{"moment", RowSet{NewRow("A", 1e308, 10)}, nil, false},
		{"scaled", RowSet{NewRow("A", 1, 1e300)}, []Option{WithScale(1e10)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Compute(tt.rows, tt.opts...).Finite() {
				t.Fatal("Finite() = true, want false")
			}
			if _, err := Calculate(tt.rows, tt.opts...); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("Calculate() error = %v, want INVALID_INPUT", err)
			}
			err := tt.rows.Validate(0)
			if tt.wantValid && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.wantValid && !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("Validate() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestCalculateZeroWeightIsNotAnError(t *testing.T) {
	res, err := Calculate(RowSet{NewRow("X", 0, 5)})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if res.TotalWeight != 0 || res.CenterOfGravity != 0 || res.Direction != Neutral {
		t.Errorf("got (%v, %v, %q), want (0, 0, neutral)", res.TotalWeight, res.CenterOfGravity, res.Direction)
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	rows := scenarioA()
	before := rows.Clone()
	_ = Compute(rows)
	for i := range rows {
		if rows[i].Component != before[i].Component || *rows[i].Weight != *before[i].Weight || *rows[i].Arm != *before[i].Arm {
			t.Fatalf("row %d mutated", i)
		}
	}
}
