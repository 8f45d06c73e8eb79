package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidInputFormat is returned for instruction text that does not match the
// protocol grammar and for rovers whose starting position is off the platform.
var ErrInvalidInputFormat = errors.New("invalid input format")

// Instruction letters accepted in a rover's command string
const (
	InstructionLeft  = 'L'
	InstructionRight = 'R'
	InstructionMove  = 'M'
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbouring position one unit away in direction d
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Platform is the inclusive rectangle [0,MaxX] x [0,MaxY] shared by one batch of rovers
type Platform struct {
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Contains reports whether pos lies on the platform
func (p Platform) Contains(pos Position) bool {
	return pos.X >= 0 && pos.X <= p.MaxX && pos.Y >= 0 && pos.Y <= p.MaxY
}

// String renders the platform in protocol form ("X Y")
func (p Platform) String() string {
	return fmt.Sprintf("%d %d", p.MaxX, p.MaxY)
}

// RoverCommand is one parsed command block: where a rover starts and what it is told to do
type RoverCommand struct {
	Start        Position  `json:"start"`
	Heading      Direction `json:"heading"`
	Instructions string    `json:"instructions"`
}

// String renders the command block in protocol form
func (c RoverCommand) String() string {
	return fmt.Sprintf("%d %d %s\n%s", c.Start.X, c.Start.Y, c.Heading, c.Instructions)
}

// Batch is a decoded instruction script
type Batch struct {
	Platform Platform       `json:"platform"`
	Commands []RoverCommand `json:"commands"`
}

// RoverState is a read-only snapshot of a deployed rover
type RoverState struct {
	Index    int       `json:"index"`
	Position Position  `json:"position"`
	Heading  Direction `json:"heading"`
	Platform Platform  `json:"platform"`
}

// String renders the state in report form ("x y D")
func (s RoverState) String() string {
	return fmt.Sprintf("%d %d %s", s.Position.X, s.Position.Y, s.Heading)
}

// RejectReason explains why a move instruction was dropped
type RejectReason string

const (
	RejectOutOfBounds RejectReason = "out_of_bounds"
	RejectCollision   RejectReason = "collision"
)

// MoveRejection describes a move instruction that was absorbed instead of executed
type MoveRejection struct {
	Rover   int          `json:"rover"` // index of the rover in its arena
	Step    int          `json:"step"`  // 0-based offset into the instruction string
	From    Position     `json:"from"`
	To      Position     `json:"to"`
	Heading Direction    `json:"heading"`
	Reason  RejectReason `json:"reason"`
}

func (r MoveRejection) String() string {
	return fmt.Sprintf("rover %d: can't move %s from (%d,%d) to (%d,%d) [%s], staying put",
		r.Rover, r.Heading.Name(), r.From.X, r.From.Y, r.To.X, r.To.Y, r.Reason)
}
