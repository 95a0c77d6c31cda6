// Package pkg provides the core libraries for cogbalance.
//
// # Overview
//
// cogbalance reduces a table of weighted components, each at a signed
// distance (arm) from a reference axis, to a total weight, a total moment and
// a center of gravity. The center of gravity tells an operator how far, and
// in which direction, to move a payload to balance the assembly.
//
// # Architecture
//
// The typical data flow:
//
//	Row table (CSV/JSON/YAML/TOML/HJSON, --row flags, editor, HTTP)
//	         ↓
//	    [rows] package (decode + validate at entry)
//	         ↓
//	    [cog] package (totals, center of gravity, direction)
//	         ↓
//	    [render/overlay] package (base position + signed offset)
//	         ↓
//	    SVG/JSON/PNG/PDF overlay, beam diagram or report
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/cogbalance/pkg/cog"
//	    "github.com/matzehuels/cogbalance/pkg/render/overlay"
//	    "github.com/matzehuels/cogbalance/pkg/render/sink"
//	)
//
//	res := cog.Compute(cog.RowSet{
//	    cog.NewRow("Drone", 26, 0.09),
//	    cog.NewRow("Camera", 5, 1.5),
//	})
//	scene := overlay.Build(res, overlay.DefaultGeometry())
//	svg := sink.RenderSVG(scene, sink.WithMetrics(2))
//
// # Main Packages
//
// [cog] - The calculator. Pure and stateless; every call recomputes from the
// full table.
//
// [render] - Overlay placement and its sinks (SVG, JSON, PNG, PDF), plus the
// beam diagram drawn with Graphviz.
//
// [rows] - Table import and export in several file formats.
//
// [report] - Markdown and HTML reports.
//
// [session] - Per-session row tables with memory, file, Redis and MongoDB
// stores.
//
// [server] - The HTTP API.
//
// [pipeline] - Compute then render, shared by the CLI and the server.
//
// [config], [errors], [observability] and [buildinfo] carry the ambient
// concerns.
package pkg
