package overlay

import "fmt"

// Geometry holds the fixed pixel constants of the overlay. They are
// deployment configuration, not operator input.
type Geometry struct {
	FrameWidth  float64 `json:"frame_width" toml:"frame_width"`
	FrameHeight float64 `json:"frame_height" toml:"frame_height"`

	// GroundY is the baseline both blocks stand on.
	GroundY float64 `json:"ground_y" toml:"ground_y"`

	CarrierX      float64 `json:"carrier_x" toml:"carrier_x"`
	CarrierWidth  float64 `json:"carrier_width" toml:"carrier_width"`
	CarrierHeight float64 `json:"carrier_height" toml:"carrier_height"`

	PayloadWidth  float64 `json:"payload_width" toml:"payload_width"`
	PayloadHeight float64 `json:"payload_height" toml:"payload_height"`

	// BaseX is the payload's left edge at zero offset. Nil means the
	// carrier's right edge; any value, 0 included, is used as given.
	BaseX *float64 `json:"base_x,omitempty" toml:"base_x,omitempty"`

	CarrierLabel string `json:"carrier_label" toml:"carrier_label"`
	PayloadLabel string `json:"payload_label" toml:"payload_label"`
}

// DefaultGeometry mirrors the classic 800x400 drone/camera chart.
func DefaultGeometry() Geometry {
	return Geometry{
		FrameWidth:    800,
		FrameHeight:   400,
		GroundY:       270,
		CarrierX:      40,
		CarrierWidth:  80,
		CarrierHeight: 130,
		PayloadWidth:  20,
		PayloadHeight: 65,
		CarrierLabel:  "Drone",
		PayloadLabel:  "Camera",
	}
}

// Base returns the effective base X coordinate.
func (g Geometry) Base() float64 {
	if g.BaseX != nil {
		return *g.BaseX
	}
	return g.CarrierX + g.CarrierWidth
}

// Validate checks that all dimensions describe a drawable frame.
func (g Geometry) Validate() error {
	switch {
	case g.FrameWidth <= 0 || g.FrameHeight <= 0:
		return fmt.Errorf("overlay: frame size must be positive, got %gx%g", g.FrameWidth, g.FrameHeight)
	case g.CarrierWidth <= 0 || g.CarrierHeight <= 0:
		return fmt.Errorf("overlay: carrier size must be positive, got %gx%g", g.CarrierWidth, g.CarrierHeight)
	case g.PayloadWidth <= 0 || g.PayloadHeight <= 0:
		return fmt.Errorf("overlay: payload size must be positive, got %gx%g", g.PayloadWidth, g.PayloadHeight)
	case g.PayloadWidth > g.FrameWidth:
		return fmt.Errorf("overlay: payload wider than frame")
	case g.GroundY <= 0 || g.GroundY > g.FrameHeight:
		return fmt.Errorf("overlay: ground_y %g outside frame height %g", g.GroundY, g.FrameHeight)
	case g.CarrierHeight > g.GroundY || g.PayloadHeight > g.GroundY:
		return fmt.Errorf("overlay: blocks taller than the space above ground_y")
	}
	return nil
}
