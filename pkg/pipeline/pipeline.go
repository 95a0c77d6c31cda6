// Package pipeline runs the compute → place → render sequence shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Compute: reduce the rows to totals, center of gravity and offset
//  2. Render: draw the result as an overlay or a beam diagram, in one or
//     more formats
//
// Nothing is cached between runs; every call recomputes from the rows.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, rows, pipeline.Options{
//	    VizType: "overlay",
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
	"github.com/matzehuels/cogbalance/pkg/render"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = render.TypeOverlay

	// DefaultPNGScale renders PNGs at 2x resolution.
	DefaultPNGScale = 2.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compute options
	Scale        float64 `json:"scale,omitempty"`
	CameraFactor float64 `json:"camera_factor,omitempty"`

	// Render options
	VizType   string            `json:"viz_type,omitempty"`
	Formats   []string          `json:"formats,omitempty"`
	Geometry  *overlay.Geometry `json:"geometry,omitempty"`
	Precision int               `json:"precision,omitempty"`
	Unit      string            `json:"unit,omitempty"`
	Title     string            `json:"title,omitempty"`
	Metrics   bool              `json:"metrics,omitempty"`
	PNGScale  float64           `json:"png_scale,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Result is the computed center of gravity.
	Result cog.Result

	// Scene is the placed overlay. Zero for beam diagrams.
	Scene overlay.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows        int
	Complete    int
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Geometry == nil {
		g := overlay.DefaultGeometry()
		o.Geometry = &g
	}
	if o.Precision <= 0 {
		o.Precision = cog.DefaultPrecision
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
}

// Validate sets defaults and checks the render options.
func (o *Options) Validate() error {
	o.SetDefaults()
	for _, f := range o.Formats {
		if err := render.ValidateFormat(o.VizType, f); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid render options")
		}
	}
	if err := o.Geometry.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid geometry")
	}
	return nil
}

// CalcOptions returns the calculator options for this run.
func (o *Options) CalcOptions() []cog.Option {
	var opts []cog.Option
	if o.Scale != 0 {
		opts = append(opts, cog.WithScale(o.Scale))
	}
	if o.CameraFactor != 0 {
		opts = append(opts, cog.WithCameraFactor(o.CameraFactor))
	}
	return opts
}

// IsBeam returns true if this is a beam diagram.
func (o *Options) IsBeam() bool {
	return o.VizType == render.TypeBeam
}

func (o *Options) String() string {
	return fmt.Sprintf("%s %v", o.VizType, o.Formats)
}
