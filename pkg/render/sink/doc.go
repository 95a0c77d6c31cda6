// Package sink renders an overlay scene to output formats.
//
// [RenderSVG] writes a self-contained SVG document: the fixed carrier block,
// the movable payload block, the base line the offset is measured from, an
// arrow showing the direction of travel and an optional metrics caption.
// [RenderJSON] exports the same scene as data. [RenderPNG] and [RenderPDF]
// convert the SVG with rsvg-convert.
//
//	scene := overlay.Build(res, overlay.DefaultGeometry())
//	svg := sink.RenderSVG(scene, sink.WithMetrics(2), sink.WithUnit("mm"))
package sink
