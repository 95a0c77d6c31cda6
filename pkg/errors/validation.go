package errors

import (
	"math"
	"strings"
	"unicode"
)

// DefaultMinWeight is the validation floor for row weights.
const DefaultMinWeight = 0.0

// maxComponentLength bounds component labels; they are display-only.
const maxComponentLength = 128

// ValidateWeight rejects weights below floor and non-finite values.
// A nil weight is not an error: the row is simply incomplete.
func ValidateWeight(w *float64, floor float64) error {
	if w == nil {
		return nil
	}
	if math.IsNaN(*w) || math.IsInf(*w, 0) {
		return New(ErrCodeInvalidWeight, "weight must be a finite number")
	}
	if *w < floor {
		return New(ErrCodeInvalidWeight, "weight must be >= %.2f, got %g", floor, *w)
	}
	return nil
}

// ValidateArm rejects non-finite arms. Negative arms are valid (signed distance).
func ValidateArm(a *float64) error {
	if a == nil {
		return nil
	}
	if math.IsNaN(*a) || math.IsInf(*a, 0) {
		return New(ErrCodeInvalidArm, "arm must be a finite number")
	}
	return nil
}

// ValidateComponent checks a component label.
// Labels are optional; when present they must be printable and reasonably short.
func ValidateComponent(name string) error {
	if len(name) > maxComponentLength {
		return New(ErrCodeInvalidComponent, "component name too long (max %d characters)", maxComponentLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidComponent, "component name contains invalid control characters")
		}
	}
	return nil
}

// ValidateRow validates all fields of one table row as entered by an operator.
func ValidateRow(component string, weight, arm *float64, floor float64) error {
	if err := ValidateComponent(component); err != nil {
		return err
	}
	if err := ValidateWeight(weight, floor); err != nil {
		return err
	}
	return ValidateArm(arm)
}

// ValidateIndex checks that i addresses an existing row in a table of length n.
func ValidateIndex(i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeInvalidIndex, "row index %d out of range [0, %d)", i, n)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for row import/export.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}
	return nil
}
