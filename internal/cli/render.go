package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
	"github.com/matzehuels/cogbalance/pkg/pipeline"
	"github.com/matzehuels/cogbalance/pkg/render"
)

// defaultBase names output files when no input file is given.
const defaultBase = "cogbalance"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	calcFlags
	rows     []string // component:weight:arm rows
	output   string   // output file (single format), base path (multiple) or "-"
	vizType  string   // overlay or beam
	formats  []string // svg, json, png, pdf, dot
	title    string   // caption heading
	metrics  bool     // draw the metric captions
	baseX    float64  // overlay base position override
	pngScale float64  // PNG resolution multiplier
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		vizType:  render.TypeOverlay,
		metrics:  true,
		pngScale: pipeline.DefaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render the placement overlay or the beam diagram",
		Long: `Render the computed center of gravity.

The overlay draws the carrier and the payload in a fixed frame and moves the
payload from its base position by the signed offset. The beam diagram draws
every complete row on a balance beam with the center of gravity marked.

Formats: svg, json, png, pdf for overlays; svg, dot, png, pdf for beams.
PNG and PDF need rsvg-convert on the PATH.`,
		Example: `  cogbalance render rig.csv
  cogbalance render rig.csv -f svg,png -o out/rig
  cogbalance render --row Camera:5:-2 --type beam -f dot -o -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			table, err := c.collectRows(args, opts.rows)
			if err != nil {
				return err
			}

			popts := c.pipelineOptions(cmd, opts.calcFlags)
			popts.VizType = opts.vizType
			popts.Formats = opts.formats
			popts.Title = opts.title
			popts.Metrics = opts.metrics
			popts.PNGScale = opts.pngScale
			if cmd.Flags().Changed("base-x") {
				popts.Geometry.BaseX = &opts.baseX
			}
			if err := popts.Validate(); err != nil {
				return err
			}

			input := defaultBase
			if len(args) > 0 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), table, popts, input, opts.output)
		},
	}

	opts.calcFlags.register(cmd)
	cmd.Flags().StringArrayVarP(&opts.rows, "row", "r", nil, "row as component:weight:arm (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", opts.vizType, "visualization type: overlay, beam")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "caption heading")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "draw metric captions (overlay)")
	cmd.Flags().Float64Var(&opts.baseX, "base-x", 0, "payload base position in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "PNG resolution multiplier")

	return cmd
}

// runRender computes and renders table and writes one file per format.
func (c *CLI) runRender(ctx context.Context, table cog.RowSet, popts pipeline.Options, input, output string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spinner *Spinner
	if needsConverter(popts.Formats) && output != "-" {
		spinner = newSpinnerWithContext(ctx, "Converting with rsvg-convert...")
		spinner.Start()
	}
	res, err := c.newRunner().Execute(ctx, table, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", popts.VizType, err)
	}

	if output == "-" {
		if len(popts.Formats) != 1 {
			return errs.New(errs.ErrCodeInvalidInput, "writing to stdout needs exactly one format, got %d", len(popts.Formats))
		}
		_, err := stdout.Write(res.Artifacts[popts.Formats[0]])
		return err
	}

	paths := outputPaths(output, input, popts.VizType, popts.Formats)
	for _, f := range popts.Formats {
		if err := writeArtifact(paths[f], res.Artifacts[f]); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", paths[f], len(res.Artifacts[f]))
	}
	prog.done(fmt.Sprintf("Rendered %s", popts.VizType))

	if res.Result.Complete == 0 {
		printWarning("no complete rows, payload drawn at its base position")
	} else {
		printSuccess("%s", directionStyle(res.Result.Direction).Render(res.Result.Instruction(popts.Precision)))
	}
	for _, f := range popts.Formats {
		printFile(paths[f])
	}
	if res.Scene.Clamped {
		printDetail("offset runs off the frame; payload clamped to the edge")
	}
	return nil
}

// needsConverter reports whether any format goes through rsvg-convert.
func needsConverter(formats []string) bool {
	return slices.Contains(formats, render.FormatPNG) || slices.Contains(formats, render.FormatPDF)
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses it as-is; otherwise files are named base.format.
func outputPaths(output, input, vizType string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	if output == "" && vizType == render.TypeBeam {
		base += "_beam"
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	f := strings.TrimPrefix(ext, ".")
	if render.ValidFormats[render.TypeOverlay][f] || render.ValidFormats[render.TypeBeam][f] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
