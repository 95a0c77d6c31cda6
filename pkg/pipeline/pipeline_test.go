package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
	"github.com/matzehuels/cogbalance/pkg/observability"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
)

func sampleRows() cog.RowSet {
	return cog.RowSet{
		cog.NewRow("Drone", 26, 0.09),
		cog.NewRow("Battery", 4.7, -0.04),
		cog.NewRow("Camera", 5, 1.5),
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()

	if o.VizType != DefaultVizType {
		t.Errorf("VizType = %q, want %q", o.VizType, DefaultVizType)
	}
	if len(o.Formats) != 1 || o.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Geometry == nil || *o.Geometry != overlay.DefaultGeometry() {
		t.Errorf("Geometry = %+v", o.Geometry)
	}
	if o.Precision != cog.DefaultPrecision || o.PNGScale != DefaultPNGScale {
		t.Errorf("Precision/PNGScale = %d/%v", o.Precision, o.PNGScale)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"overlay json", Options{VizType: "overlay", Formats: []string{"json"}}, false},
		{"beam dot", Options{VizType: "beam", Formats: []string{"dot", "svg"}}, false},
		{"overlay dot", Options{VizType: "overlay", Formats: []string{"dot"}}, true},
		{"beam json", Options{VizType: "beam", Formats: []string{"json"}}, true},
		{"unknown type", Options{VizType: "tower"}, true},
		{"bad geometry", Options{Geometry: &overlay.Geometry{}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateCodes(t *testing.T) {
	o := Options{VizType: "overlay", Formats: []string{"gif"}}
	if err := o.Validate(); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Validate() = %v, want INVALID_FORMAT", err)
	}
}

func TestExecuteOverlay(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Execute(context.Background(), sampleRows(), Options{
		Formats: []string{"svg", "json"},
		Metrics: true,
		Scale:   1000,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Result.Direction != cog.Right {
		t.Errorf("Direction = %v, want right", res.Result.Direction)
	}
	if res.Stats.Rows != 3 || res.Stats.Complete != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Scene.Clamped || res.Scene.Payload.Left <= res.Scene.BaseX {
		t.Errorf("payload should sit right of the base, got %+v", res.Scene.Payload)
	}
	if !strings.HasPrefix(string(res.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing")
	}
	if !strings.Contains(string(res.Artifacts["json"]), `"direction": "right"`) {
		t.Errorf("json artifact = %s", res.Artifacts["json"])
	}
}

func TestExecuteIncomplete(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Execute(context.Background(), cog.RowSet{{Component: "x"}}, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Result.Direction != cog.Neutral {
		t.Errorf("Direction = %v, want neutral", res.Result.Direction)
	}
	if res.Scene.Payload.Left != res.Scene.BaseX {
		t.Errorf("payload at %v, want base %v", res.Scene.Payload.Left, res.Scene.BaseX)
	}
}

func TestExecuteBeamDOT(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Execute(context.Background(), sampleRows(), Options{VizType: "beam", Formats: []string{"dot"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(string(res.Artifacts["dot"]), "layout=neato") {
		t.Errorf("dot artifact = %s", res.Artifacts["dot"])
	}
	if res.Scene.Width != 0 {
		t.Error("beam runs should not place an overlay scene")
	}
}

func TestCalculate(t *testing.T) {
	r := NewRunner(nil)
	ctx := context.Background()

	if _, err := r.Calculate(ctx, nil, Options{}); !errs.Is(err, errs.ErrCodeIncompleteInput) {
		t.Errorf("Calculate(nil) = %v, want INCOMPLETE_INPUT", err)
	}
	res, err := r.Calculate(ctx, sampleRows(), Options{CameraFactor: 2})
	if err != nil {
		t.Fatalf("Calculate() error: %v", err)
	}
	if res.CameraDistance != res.CenterOfGravity*2 {
		t.Errorf("CameraDistance = %v, want %v", res.CameraDistance, res.CenterOfGravity*2)
	}
}

func TestOverflowIsRejected(t *testing.T) {
	r := NewRunner(nil)
	ctx := context.Background()
	rows := cog.RowSet{cog.NewRow("A", 1e308, 2), cog.NewRow("B", 1e308, 2)}

	if _, err := r.Calculate(ctx, rows, Options{}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Calculate() = %v, want INVALID_INPUT", err)
	}
	if _, err := r.Execute(ctx, rows, Options{}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Execute() = %v, want INVALID_INPUT", err)
	}
}

type recordingHooks struct {
	observability.NoopRenderHooks
	formats []string
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _, format string, _ int, _ time.Duration, _ error) {
	h.formats = append(h.formats, format)
}

func TestRenderHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetRenderHooks(hooks)
	defer observability.Reset()

	_, err := NewRunner(nil).Execute(context.Background(), sampleRows(), Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.Join(hooks.formats, ",") != "svg,json" {
		t.Errorf("render hooks saw %v", hooks.formats)
	}
}
