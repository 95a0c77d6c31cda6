package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/observability"
	"github.com/matzehuels/cogbalance/pkg/render"
	"github.com/matzehuels/cogbalance/pkg/render/beam"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
	"github.com/matzehuels/cogbalance/pkg/render/sink"
)

// renderOverlay generates overlay outputs.
func renderOverlay(ctx context.Context, scene overlay.Scene, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Render().OnRenderStart(ctx, opts.VizType, format)

		var data []byte
		var err error

		switch format {
		case render.FormatSVG:
			data = sink.RenderSVG(scene, svgOpts...)
		case render.FormatPNG:
			data, err = sink.RenderPNG(scene, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.PNGScale))
		case render.FormatPDF:
			data, err = sink.RenderPDF(scene, sink.WithPDFSVGOptions(svgOpts...))
		case render.FormatJSON:
			data, err = sink.RenderJSON(scene, buildJSONOptions(opts)...)
		default:
			err = fmt.Errorf("unsupported overlay format: %s", format)
		}

		observability.Render().OnRenderComplete(ctx, opts.VizType, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderBeam generates beam diagram outputs from DOT built once per run.
func renderBeam(ctx context.Context, res cog.Result, opts Options) (map[string][]byte, error) {
	dot := beam.ToDOT(res, beam.Options{Precision: opts.Precision, Unit: opts.Unit})
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Render().OnRenderStart(ctx, opts.VizType, format)

		var data []byte
		var err error

		switch format {
		case render.FormatDOT:
			data = []byte(dot)
		case render.FormatSVG:
			data, err = beam.RenderSVG(dot)
		case render.FormatPNG:
			data, err = beam.RenderPNG(dot, opts.PNGScale)
		case render.FormatPDF:
			data, err = beam.RenderPDF(dot)
		default:
			err = fmt.Errorf("unsupported beam format: %s", format)
		}

		observability.Render().OnRenderComplete(ctx, opts.VizType, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithUnit(opts.Unit)}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	if opts.Metrics {
		svgOpts = append(svgOpts, sink.WithMetrics(opts.Precision))
	}
	return svgOpts
}

func buildJSONOptions(opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{sink.WithJSONUnit(opts.Unit), sink.WithJSONRows()}
	if opts.Metrics {
		jsonOpts = append(jsonOpts, sink.WithJSONMetrics(opts.Precision))
	}
	return jsonOpts
}
