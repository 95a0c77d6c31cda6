package sink

import (
	"encoding/json"

	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/render/overlay"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	precision int
	unit      string
	rows      bool
}

// WithJSONMetrics includes formatted metrics at the given precision.
func WithJSONMetrics(precision int) JSONOption {
	return func(r *jsonRenderer) { r.precision = precision }
}

// WithJSONUnit records the display unit.
func WithJSONUnit(u string) JSONOption { return func(r *jsonRenderer) { r.unit = u } }

// WithJSONRows includes the per-row moment table.
func WithJSONRows() JSONOption { return func(r *jsonRenderer) { r.rows = true } }

type jsonOutput struct {
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	GroundY   float64         `json:"ground_y"`
	BaseX     float64         `json:"base_x"`
	Offset    float64         `json:"offset"`
	TargetX   float64         `json:"target_x"`
	Clamped   bool            `json:"clamped,omitempty"`
	Direction cog.Direction   `json:"direction"`
	Unit      string          `json:"unit,omitempty"`
	Blocks    []jsonBlock     `json:"blocks"`
	Metrics   []cog.Metric    `json:"metrics,omitempty"`
	Rows      []cog.RowMoment `json:"rows,omitempty"`
}

type jsonBlock struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON exports the placed scene as a pretty-printed JSON document,
// so other tools can draw the overlay without redoing the placement.
func RenderJSON(s overlay.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{precision: -1}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:     s.Width,
		Height:    s.Height,
		GroundY:   s.GroundY,
		BaseX:     s.BaseX,
		Offset:    s.Offset,
		TargetX:   s.TargetX,
		Clamped:   s.Clamped,
		Direction: s.Result.Direction,
		Unit:      r.unit,
		Blocks:    []jsonBlock{toJSONBlock(s.Carrier), toJSONBlock(s.Payload)},
	}
	if r.precision >= 0 {
		out.Metrics = s.Result.Metrics(r.precision)
	}
	if r.rows {
		out.Rows = s.Result.Rows
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONBlock(b overlay.Block) jsonBlock {
	return jsonBlock{ID: b.ID, Label: b.Label, X: b.Left, Y: b.Top, Width: b.Width(), Height: b.Height()}
}
