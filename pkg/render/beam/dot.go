package beam

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/render"
)

// DefaultHalfWidth is the distance in inches from the pivot to the beam end.
const DefaultHalfWidth = 4.0

// Options configures beam diagram generation.
type Options struct {
	// Precision is the number of decimals in node labels.
	Precision int
	// HalfWidth is the beam half length in inches. Zero uses DefaultHalfWidth.
	HalfWidth float64
	// Unit is appended to arm values and the CoG in labels. Both are shown
	// in the result's scaled unit.
	Unit string
}

// ToDOT converts a result to Graphviz DOT source for the neato engine.
// Rows that were not included in the computation are left out.
func ToDOT(res cog.Result, opts Options) string {
	half := opts.HalfWidth
	if half <= 0 {
		half = DefaultHalfWidth
	}
	span := armSpan(res)
	x := func(arm float64) float64 { return arm / span * half }

	var buf bytes.Buffer
	buf.WriteString("graph beam {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.1,0.05\"];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  \"beam_l\" [shape=point, width=0.05, pos=\"%s,0!\"];\n", coord(-half))
	fmt.Fprintf(&buf, "  \"beam_r\" [shape=point, width=0.05, pos=\"%s,0!\"];\n", coord(half))
	buf.WriteString("  \"beam_l\" -- \"beam_r\" [penwidth=4, color=\"#444444\"];\n")
	buf.WriteString("  \"pivot\" [shape=triangle, label=\"\", width=0.3, height=0.3, fillcolor=\"#444444\", pos=\"0,-0.3!\"];\n")

	cg := cog.FormatFixed(res.CenterOfGravity, opts.Precision)
	fmt.Fprintf(&buf, "  \"cog\" [shape=diamond, label=%q, fillcolor=\"LightCoral\", color=\"Crimson\", fontsize=10, pos=\"%s,-0.9!\"];\n",
		"CoG "+cg+unitSuffix(opts.Unit), coord(x(res.RawCenterOfGravity)))
	buf.WriteString("\n")

	n := 0
	for _, rm := range res.Rows {
		if !rm.Included {
			continue
		}
		px := x(*rm.Arm)
		y := 1.0 + float64(n%2)*0.8
		id := "row" + strconv.Itoa(n)
		anchor := id + "_at"
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"LightSkyBlue\", color=\"RoyalBlue\", pos=\"%s,%s!\"];\n",
			id, rowLabel(rm, res.Scale, opts), coord(px), coord(y))
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.08, pos=\"%s,0!\"];\n", anchor, coord(px))
		fmt.Fprintf(&buf, "  %q -- %q;\n", id, anchor)
		n++
	}

	buf.WriteString("}\n")
	return buf.String()
}

func armSpan(res cog.Result) float64 {
	span := math.Abs(res.RawCenterOfGravity)
	for _, rm := range res.Rows {
		if rm.Included {
			span = math.Max(span, math.Abs(*rm.Arm))
		}
	}
	if span == 0 {
		return 1
	}
	return span
}

func rowLabel(rm cog.RowMoment, scale float64, opts Options) string {
	name := rm.Component
	if name == "" {
		name = "(unnamed)"
	}
	if scale == 0 {
		scale = cog.DefaultScale
	}
	return fmt.Sprintf("%s\nw %s @ %s%s", name,
		cog.FormatFixed(*rm.Weight, opts.Precision),
		cog.FormatFixed(*rm.Arm*scale, opts.Precision), unitSuffix(opts.Unit))
}

func unitSuffix(u string) string {
	if u == "" {
		return ""
	}
	return " " + u
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// RenderSVG renders DOT source to SVG with the neato engine.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// IsDOT reports whether s looks like DOT source produced by [ToDOT].
func IsDOT(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "graph beam {")
}
