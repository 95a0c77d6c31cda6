// Package render provides visual output for center-of-gravity results.
//
// # Overview
//
// Rendering is split in three layers so the placement math can be tested
// without any drawing dependency:
//
//   - [overlay]: pure geometry. Maps a signed offset to the pixel position of
//     the movable payload block next to the fixed carrier block.
//   - [sink]: turns an overlay scene into SVG, JSON, PNG or PDF.
//   - [beam]: a Graphviz moment diagram with every component pinned at its arm.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [overlay]: github.com/matzehuels/cogbalance/pkg/render/overlay
// [sink]: github.com/matzehuels/cogbalance/pkg/render/sink
// [beam]: github.com/matzehuels/cogbalance/pkg/render/beam
package render

import "fmt"

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Visualization types.
const (
	TypeOverlay = "overlay"
	TypeBeam    = "beam"
)

// ValidFormats is the set of supported output formats per visualization type.
var ValidFormats = map[string]map[string]bool{
	TypeOverlay: {FormatSVG: true, FormatPNG: true, FormatPDF: true, FormatJSON: true},
	TypeBeam:    {FormatSVG: true, FormatPNG: true, FormatPDF: true, FormatDOT: true},
}

// ValidateFormat checks that format is supported for the visualization type.
func ValidateFormat(vizType, format string) error {
	formats, ok := ValidFormats[vizType]
	if !ok {
		return fmt.Errorf("invalid type: %q (must be one of: overlay, beam)", vizType)
	}
	if !formats[format] {
		return fmt.Errorf("invalid format %q for %s", format, vizType)
	}
	return nil
}
