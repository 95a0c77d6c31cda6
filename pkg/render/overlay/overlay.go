// Package overlay maps a center-of-gravity result onto pixel coordinates.
//
// The carrier block (the drone) sits at a fixed position. The payload block
// (the camera) starts at the base coordinate and is shifted by the result's
// displacement:
//
//	x := overlay.Position(g.Base(), res.Displacement())
//
// [Position] is the whole mapping; there is no further scaling beyond the
// scale factor already applied by the calculator. [Build] wraps it into a
// [Scene] that renderers consume.
package overlay

import (
	"github.com/matzehuels/cogbalance/pkg/cog"
)

// Position returns the pixel coordinate of the movable element.
func Position(baseX, offset float64) float64 {
	return baseX + offset
}

// Scene is a fully placed overlay, ready for a sink.
type Scene struct {
	Width   float64
	Height  float64
	GroundY float64
	BaseX   float64

	Carrier Block
	Payload Block

	// Offset is the displacement that was applied to the payload.
	Offset float64
	// TargetX is the unclamped payload position from Position.
	TargetX float64
	// Clamped is true when TargetX fell outside the frame and the payload
	// was pulled back to the nearest edge.
	Clamped bool

	Result cog.Result
}

// Build places carrier and payload for res.
func Build(res cog.Result, g Geometry) Scene {
	base := g.Base()
	offset := res.Displacement()
	target := Position(base, offset)

	x := target
	clamped := false
	if maxX := g.FrameWidth - g.PayloadWidth; x > maxX {
		x, clamped = maxX, true
	}
	if x < 0 {
		x, clamped = 0, true
	}

	return Scene{
		Width:   g.FrameWidth,
		Height:  g.FrameHeight,
		GroundY: g.GroundY,
		BaseX:   base,
		Carrier: Block{
			ID:     "carrier",
			Label:  g.CarrierLabel,
			Left:   g.CarrierX,
			Right:  g.CarrierX + g.CarrierWidth,
			Top:    g.GroundY - g.CarrierHeight,
			Bottom: g.GroundY,
		},
		Payload: Block{
			ID:     "payload",
			Label:  g.PayloadLabel,
			Left:   x,
			Right:  x + g.PayloadWidth,
			Top:    g.GroundY - g.PayloadHeight,
			Bottom: g.GroundY,
		},
		Offset:  offset,
		TargetX: target,
		Clamped: clamped,
		Result:  res,
	}
}
