package cog

// Direction tells the operator which way to move the camera.
type Direction string

const (
	Left    Direction = "left"
	Right   Direction = "right"
	Neutral Direction = "neutral"
)

// DirectionOf maps the sign of a center of gravity to a direction.
// Positive is Right, negative is Left, exactly zero is Neutral.
func DirectionOf(cog float64) Direction {
	switch {
	case cog > 0:
		return Right
	case cog < 0:
		return Left
	default:
		return Neutral
	}
}

// Sign returns +1 for Right, -1 for Left and 0 for Neutral.
func (d Direction) Sign() float64 {
	switch d {
	case Right:
		return 1
	case Left:
		return -1
	default:
		return 0
	}
}

// Valid reports whether d is one of the three known directions.
func (d Direction) Valid() bool {
	return d == Left || d == Right || d == Neutral
}

func (d Direction) String() string { return string(d) }
