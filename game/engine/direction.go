package engine

import "fmt"

// Direction represents a compass heading
type Direction int

// Headings in their cyclic order. Right steps forward, Left steps backward.
const (
	North Direction = iota
	East
	South
	West
)

const directionCount = 4

// ParseDirection converts a heading letter (N, E, S or W) into a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "N":
		return North, nil
	case "E":
		return East, nil
	case "S":
		return South, nil
	case "W":
		return West, nil
	}
	return North, fmt.Errorf("%w: unknown direction %q", ErrInvalidInputFormat, s)
}

// AllDirections returns all valid directions in cyclic order
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// IsValid returns true if the direction is one of the four headings
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// Left returns the heading after a 90 degree turn to the left
func (d Direction) Left() Direction {
	return (d + directionCount - 1) % directionCount
}

// Right returns the heading after a 90 degree turn to the right
func (d Direction) Right() Direction {
	return (d + 1) % directionCount
}

// Delta returns the unit step taken when moving forward with this heading.
// North is +y and East is +x.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	}
	return 0, 0
}

// String returns the single-letter protocol form of the heading
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// Name returns the long form of the heading
func (d Direction) Name() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the heading as its protocol letter
func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a protocol letter
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
