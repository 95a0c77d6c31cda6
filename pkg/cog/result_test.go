package cog

import "testing"

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		want      string
	}{
		{36.8, 2, "36.80"},
		{10.2988, 2, "10.30"},
		{-0.001, 2, "0.00"},
		{-1.005, 1, "-1.0"},
		{3.14159, -1, "3.14"},
		{2, 0, "2"},
	}
	for _, tt := range tests {
		if got := FormatFixed(tt.v, tt.precision); got != tt.want {
			t.Errorf("FormatFixed(%v, %d) = %q, want %q", tt.v, tt.precision, got, tt.want)
		}
	}
}

func TestMetrics(t *testing.T) {
	res := Compute(RowSet{NewRow("Camera", 1, 0.01)}, WithScale(1000))
	metrics := res.Metrics(2)

	want := map[string]string{
		"total_weight":      "1.00",
		"total_moment":      "0.01",
		"center_of_gravity": "10.00",
		"signed_offset":     "10.00 right",
		"camera_distance":   "11.00",
	}
	if len(metrics) != len(want) {
		t.Fatalf("len(Metrics()) = %d, want %d", len(metrics), len(want))
	}
	for _, m := range metrics {
		if m.Value != want[m.Key] {
			t.Errorf("%s = %q, want %q", m.Key, m.Value, want[m.Key])
		}
		if m.Label == "" {
			t.Errorf("%s has no label", m.Key)
		}
	}
}

func TestInstruction(t *testing.T) {
	if got := Compute(RowSet{NewRow("A", 1, -0.25)}).Instruction(2); got != "move camera 0.25 to the left" {
		t.Errorf("Instruction() = %q", got)
	}
	if got := Compute(RowSet{NewRow("A", 1, 0)}).Instruction(2); got != "balanced, no adjustment needed" {
		t.Errorf("Instruction() = %q", got)
	}
}
