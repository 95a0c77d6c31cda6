package overlay

// Block represents one rectangle of the overlay.
// Coordinates are SVG pixels: y grows downward, so Top < Bottom.
type Block struct {
	ID          string
	Label       string
	Left, Right float64
	Top, Bottom float64
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }
