package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
)

const (
	carrierStroke = "RoyalBlue"
	carrierFill   = "LightSkyBlue"
	payloadStroke = "Crimson"
	payloadFill   = "LightCoral"
	guideStroke   = "#888888"
	labelSize     = 14
	captionSize   = 12
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	metrics   bool
	precision int
	unit      string
	title     string
	guides    bool
}

// WithMetrics adds a caption with the result metrics at the given precision.
func WithMetrics(precision int) SVGOption {
	return func(r *svgRenderer) { r.metrics = true; r.precision = precision }
}

// WithUnit sets the unit suffix used in the caption and offset label.
func WithUnit(u string) SVGOption { return func(r *svgRenderer) { r.unit = u } }

// WithTitle sets the document <title>.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithoutGuides hides the base line and the direction arrow.
func WithoutGuides() SVGOption { return func(r *svgRenderer) { r.guides = false } }

// RenderSVG renders the scene as an SVG document.
func RenderSVG(s overlay.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{precision: cog.DefaultPrecision, guides: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	renderDefs(&buf)

	fmt.Fprintf(&buf, `  <line class="ground" x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		s.GroundY, s.Width, s.GroundY, guideStroke)

	renderBlock(&buf, s.Carrier, carrierStroke, carrierFill)
	renderBlock(&buf, s.Payload, payloadStroke, payloadFill)

	if r.guides {
		renderGuides(&buf, s, &r)
	}
	if r.metrics {
		renderCaption(&buf, s, &r)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="` + payloadStroke + `"/>
    </marker>
  </defs>
`)
}

func renderBlock(buf *bytes.Buffer, b overlay.Block, stroke, fill string) {
	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.2f" y="%.2f" width="%.2f" height="%.2f" stroke="%s" stroke-width="2" fill="%s"/>`+"\n",
		b.ID, b.Left, b.Top, b.Width(), b.Height(), stroke, fill)
	if b.Label == "" {
		return
	}
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%d">%s</text>`+"\n",
		b.ID, b.CenterX(), b.Top-8, labelSize, html.EscapeString(b.Label))
}

func renderGuides(buf *bytes.Buffer, s overlay.Scene, r *svgRenderer) {
	top := s.GroundY - s.Carrier.Height() - 20
	if top < 0 {
		top = 0
	}
	fmt.Fprintf(buf, `  <line class="base" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="4 4"/>`+"\n",
		s.BaseX, top, s.BaseX, s.GroundY, guideStroke)

	if s.Result.Direction == cog.Neutral {
		return
	}
	y := s.GroundY + 20
	fmt.Fprintf(buf, `  <line class="offset" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2" marker-end="url(#arrow)"/>`+"\n",
		s.BaseX, y, s.Payload.Left, y, payloadStroke)

	label := cog.FormatFixed(s.Result.SignedOffset, r.precision)
	if r.unit != "" {
		label += " " + r.unit
	}
	label += " " + s.Result.Direction.String()
	if s.Clamped {
		label += " (off chart)"
	}
	fmt.Fprintf(buf, `  <text class="offset-text" x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%d">%s</text>`+"\n",
		(s.BaseX+s.Payload.Left)/2, y+16, captionSize, html.EscapeString(label))
}

func renderCaption(buf *bytes.Buffer, s overlay.Scene, r *svgRenderer) {
	x := 10.0
	y := s.Height - 10
	metrics := s.Result.Metrics(r.precision)
	step := (s.Width - 20) / float64(len(metrics))
	for i, m := range metrics {
		fmt.Fprintf(buf, `  <text class="metric" data-key="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%d">%s: %s</text>`+"\n",
			m.Key, x+float64(i)*step, y, captionSize, html.EscapeString(m.Label), html.EscapeString(m.Value))
	}
}
