// Package beam renders the load table as a balance-beam diagram.
//
// Each included row becomes a box pinned above the beam at its arm; the
// pivot sits at arm zero and a diamond marks the center of gravity. Node
// positions are fixed with Graphviz pos="x,y!" attributes and laid out by
// the neato engine, so the picture reads like a lever:
//
//	dot := beam.ToDOT(res, beam.Options{Precision: 2})
//	svg, err := beam.RenderSVG(dot)
//
// PDF and PNG output go through rsvg-convert:
//
//	pdf, err := beam.RenderPDF(dot)
//	png, err := beam.RenderPNG(dot, 2.0)
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package beam
