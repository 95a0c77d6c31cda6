package cog

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

const (
	// DefaultScale leaves the center of gravity in the unit of the arms.
	DefaultScale = 1.0

	// DefaultCameraFactor is the recommended camera distance relative to the CoG.
	DefaultCameraFactor = 1.1
)

// Option configures a computation.
type Option func(*options)

type options struct {
	scale        float64
	cameraFactor float64
}

// WithScale multiplies the center of gravity before display and overlay use.
// Non-positive or non-finite values are ignored.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 && !math.IsInf(s, 0) {
			o.scale = s
		}
	}
}

// WithCameraFactor sets the recommended camera distance factor.
// Non-finite values are ignored.
func WithCameraFactor(f float64) Option {
	return func(o *options) {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			o.cameraFactor = f
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{scale: DefaultScale, cameraFactor: DefaultCameraFactor}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// HasComplete reports whether rows contain at least one complete row.
// Callers surface a "need more input" state when it returns false.
func HasComplete(rows RowSet) bool {
	for _, r := range rows {
		if r.Complete() {
			return true
		}
	}
	return false
}

// Calculate is Compute guarded by HasComplete.
// It returns an INCOMPLETE_INPUT error, and no result, when rows is empty or
// every row is missing a weight or an arm. Totals that overflow are reported
// as INVALID_INPUT.
func Calculate(rows RowSet, opts ...Option) (Result, error) {
	if !HasComplete(rows) {
		return Result{}, errs.New(errs.ErrCodeIncompleteInput,
			"please add data to the table with valid weight and arm values")
	}
	res := Compute(rows, opts...)
	if err := res.Validate(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func errOverflow() error {
	return errs.New(errs.ErrCodeInvalidInput, "totals are out of range; reduce the weights or arms")
}

// Compute reduces rows into totals, center of gravity and camera offset.
//
// Incomplete rows contribute to nothing. A zero total weight yields a center
// of gravity of exactly 0 and a Neutral direction. Compute never fails and has
// no side effects; it recomputes everything from rows on every call.
func Compute(rows RowSet, opts ...Option) Result {
	o := newOptions(opts...)

	res := Result{
		Scale: o.scale,
		Rows:  make([]RowMoment, 0, len(rows)),
	}

	pairs := make([][2]float64, 0, len(rows))
	for _, r := range rows {
		m, ok := r.Moment()
		res.Rows = append(res.Rows, RowMoment{Row: r, Moment: m, Included: ok})
		if !ok {
			res.Skipped++
			continue
		}
		pairs = append(pairs, [2]float64{*r.Weight, *r.Arm})
	}
	res.Complete = len(pairs)

	// Summing in a canonical order makes the totals bit-identical for any
	// permutation of the input.
	slices.SortFunc(pairs, func(a, b [2]float64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	weights := make([]float64, len(pairs))
	arms := make([]float64, len(pairs))
	for i, p := range pairs {
		weights[i], arms[i] = p[0], p[1]
	}

	res.TotalWeight = floats.Sum(weights)
	res.TotalMoment = floats.Dot(weights, arms)
	if res.TotalWeight != 0 {
		res.RawCenterOfGravity = res.TotalMoment / res.TotalWeight
	}

	res.CenterOfGravity = res.RawCenterOfGravity * o.scale
	res.Direction = DirectionOf(res.CenterOfGravity)
	res.SignedOffset = math.Abs(res.CenterOfGravity)
	if res.Direction == Neutral {
		res.CenterOfGravity = 0
		res.SignedOffset = 0
	}
	res.CameraDistance = res.CenterOfGravity * o.cameraFactor
	return res
}
