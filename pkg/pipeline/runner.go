package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/observability"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
)

// Runner executes the pipeline. It holds no results, so multiple goroutines
// can share one Runner.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Logger: logger}
}

// Compute reduces rows and reports the event to the calculator hooks.
func (r *Runner) Compute(ctx context.Context, rows cog.RowSet, opts Options) cog.Result {
	start := time.Now()
	res := cog.Compute(rows, opts.CalcOptions()...)
	observability.Calc().OnCompute(ctx, len(rows), res.Complete, res.Direction.String(), time.Since(start))
	return res
}

// Calculate is Compute that reports incomplete input as an INCOMPLETE_INPUT
// error instead of a result.
func (r *Runner) Calculate(ctx context.Context, rows cog.RowSet, opts Options) (cog.Result, error) {
	if !cog.HasComplete(rows) {
		observability.Calc().OnIncomplete(ctx, len(rows))
		return cog.Calculate(rows, opts.CalcOptions()...)
	}
	res := r.Compute(ctx, rows, opts)
	if err := res.Validate(); err != nil {
		return cog.Result{}, err
	}
	return res, nil
}

// Execute runs compute and render. Incomplete input is not an error here:
// the overlay is drawn at the neutral position, as the calculator defines.
func (r *Runner) Execute(ctx context.Context, rows cog.RowSet, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	start := time.Now()
	result.Result = r.Compute(ctx, rows, opts)
	result.Stats.ComputeTime = time.Since(start)
	result.Stats.Rows = len(rows)
	result.Stats.Complete = result.Result.Complete
	if err := result.Result.Validate(); err != nil {
		return nil, err
	}

	r.Logger.Debug("computed center of gravity",
		"rows", len(rows),
		"complete", result.Result.Complete,
		"cog", result.Result.CenterOfGravity,
		"direction", result.Result.Direction)

	if !opts.IsBeam() {
		result.Scene = overlay.Build(result.Result, *opts.Geometry)
	}

	start = time.Now()
	artifacts, err := r.Render(ctx, result.Result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Debug("rendered outputs",
		"type", opts.VizType,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Render draws res in every requested format.
func (r *Runner) Render(ctx context.Context, res cog.Result, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.IsBeam() {
		return renderBeam(ctx, res, opts)
	}
	return renderOverlay(ctx, overlay.Build(res, *opts.Geometry), opts)
}
