package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
)

func scene(t *testing.T, arm float64) overlay.Scene {
	t.Helper()
	res := cog.Compute([]cog.Row{cog.NewRow("Drone", 1, arm)}, cog.WithScale(1000))
	return overlay.Build(res, overlay.DefaultGeometry())
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(scene(t, 0.05), WithTitle("Balance <test>")))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("missing <svg> root: %q", svg[:20])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("document not closed")
	}
	for _, want := range []string{
		`id="block-carrier"`,
		`id="block-payload" class="block" x="170.00"`,
		`<title>Balance &lt;test&gt;</title>`,
		`class="base"`,
		`class="offset"`,
		`50.00 right`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, `class="metric"`) {
		t.Error("metrics rendered without WithMetrics")
	}
}

func TestRenderSVGNeutral(t *testing.T) {
	svg := string(RenderSVG(scene(t, 0)))
	if strings.Contains(svg, `class="offset"`) {
		t.Error("neutral result should not draw an offset arrow")
	}
	if !strings.Contains(svg, `class="base"`) {
		t.Error("base line missing")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	s := scene(t, -0.05)

	svg := string(RenderSVG(s, WithMetrics(1), WithUnit("mm")))
	if got := strings.Count(svg, `class="metric"`); got != 5 {
		t.Errorf("metric count = %d, want 5", got)
	}
	if !strings.Contains(svg, "50.0 mm left") {
		t.Error("offset label should carry unit and direction")
	}
	if !strings.Contains(svg, "Distance of camera: -55.0") {
		t.Error("camera distance metric missing")
	}

	bare := string(RenderSVG(s, WithoutGuides()))
	if strings.Contains(bare, `class="base"`) || strings.Contains(bare, `class="offset"`) {
		t.Error("WithoutGuides should hide guides")
	}
}

func TestRenderSVGClamped(t *testing.T) {
	svg := string(RenderSVG(scene(t, 5)))
	if !strings.Contains(svg, "(off chart)") {
		t.Error("clamped payload should be marked off chart")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(scene(t, 0.05))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 800 || out.Height != 400 {
		t.Errorf("frame = %vx%v, want 800x400", out.Width, out.Height)
	}
	if out.BaseX != 120 {
		t.Errorf("BaseX = %v, want 120", out.BaseX)
	}
	if out.TargetX != 170 {
		t.Errorf("TargetX = %v, want 170", out.TargetX)
	}
	if out.Direction != cog.Right {
		t.Errorf("Direction = %v, want right", out.Direction)
	}
	if len(out.Blocks) != 2 || out.Blocks[1].ID != "payload" || out.Blocks[1].X != 170 {
		t.Errorf("Blocks = %+v", out.Blocks)
	}
	if out.Metrics != nil || out.Rows != nil {
		t.Error("metrics and rows should be omitted by default")
	}
}

func TestRenderJSONWithOptions(t *testing.T) {
	data, err := RenderJSON(scene(t, 0.05), WithJSONMetrics(2), WithJSONRows(), WithJSONUnit("mm"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Unit != "mm" {
		t.Errorf("Unit = %q, want mm", out.Unit)
	}
	if len(out.Metrics) != 5 {
		t.Errorf("Metrics count = %d, want 5", len(out.Metrics))
	}
	if len(out.Rows) != 1 || out.Rows[0].Component != "Drone" {
		t.Errorf("Rows = %+v", out.Rows)
	}
}
