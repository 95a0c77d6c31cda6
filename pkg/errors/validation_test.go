package errors

import (
	"math"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestValidateWeight(t *testing.T) {
	tests := []struct {
		name    string
		input   *float64
		floor   float64
		wantErr bool
	}{
		{"missing", nil, 0, false},
		{"zero", ptr(0), 0, false},
		{"positive", ptr(26), 0, false},
		{"at custom floor", ptr(0.5), 0.5, false},

		{"negative", ptr(-0.01), 0, true},
		{"below custom floor", ptr(0.4), 0.5, true},
		{"nan", ptr(math.NaN()), 0, true},
		{"inf", ptr(math.Inf(1)), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeight(tt.input, tt.floor)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWeight() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidWeight) {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidWeight)
			}
		})
	}
}

func TestValidateArm(t *testing.T) {
	tests := []struct {
		name    string
		input   *float64
		wantErr bool
	}{
		{"missing", nil, false},
		{"negative", ptr(-0.05), false},
		{"positive", ptr(1.5), false},
		{"nan", ptr(math.NaN()), true},
		{"neg inf", ptr(math.Inf(-1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArm(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArm() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateComponent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"simple", "Camera", false},
		{"unicode", "Kamera Halterung", false},

		{"too long", strings.Repeat("x", 200), true},
		{"newline", "cam\nera", true},
		{"null byte", "cam\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponent(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComponent(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRow(t *testing.T) {
	if err := ValidateRow("Battery", ptr(4.7), ptr(-0.05), DefaultMinWeight); err != nil {
		t.Errorf("valid row rejected: %v", err)
	}
	if err := ValidateRow("Battery", ptr(-1), ptr(0), DefaultMinWeight); !Is(err, ErrCodeInvalidWeight) {
		t.Errorf("negative weight: got %v, want INVALID_WEIGHT", err)
	}
	if err := ValidateRow("Battery", nil, nil, DefaultMinWeight); err != nil {
		t.Errorf("incomplete row must not be a validation error: %v", err)
	}
}

func TestValidateIndex(t *testing.T) {
	tests := []struct {
		i, n    int
		wantErr bool
	}{
		{0, 1, false},
		{2, 3, false},
		{-1, 3, true},
		{3, 3, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		err := ValidateIndex(tt.i, tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIndex(%d, %d) error = %v, wantErr %v", tt.i, tt.n, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "rows.csv", false},
		{"absolute", "/tmp/rows.toml", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "rows\x00.csv", true},
		{"directory", "rows/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
