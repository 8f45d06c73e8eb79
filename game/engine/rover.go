package engine

import "fmt"

// Occupancy answers whether a cell is already taken by a deployed rover.
// Rovers only ever read through it.
type Occupancy interface {
	Occupied(pos Position) bool
}

// Rover holds one rover's position and heading on its platform
type Rover struct {
	position Position
	heading  Direction
	platform Platform
}

// NewRover places a rover at the command's starting position. The start must not
// exceed the platform's upper bounds; negative coordinates never get this far
// because the protocol grammar has no sign.
func NewRover(platform Platform, cmd RoverCommand) (*Rover, error) {
	if cmd.Start.X > platform.MaxX || cmd.Start.Y > platform.MaxY {
		return nil, fmt.Errorf("%w: starting position (%d,%d) is not within the platform %s",
			ErrInvalidInputFormat, cmd.Start.X, cmd.Start.Y, platform)
	}
	if !cmd.Heading.IsValid() {
		return nil, fmt.Errorf("%w: invalid heading %d", ErrInvalidInputFormat, int(cmd.Heading))
	}

	return &Rover{
		position: cmd.Start,
		heading:  cmd.Heading,
		platform: platform,
	}, nil
}

// Position returns the rover's current cell
func (r *Rover) Position() Position {
	return r.position
}

// Heading returns the rover's current direction
func (r *Rover) Heading() Direction {
	return r.heading
}

// Platform returns the platform the rover was deployed on
func (r *Rover) Platform() Platform {
	return r.platform
}

// Report renders the rover in report form ("x y D")
func (r *Rover) Report() string {
	return fmt.Sprintf("%d %d %s", r.position.X, r.position.Y, r.heading)
}

// TurnLeft rotates the rover 90 degrees counter-clockwise
func (r *Rover) TurnLeft() {
	r.heading = r.heading.Left()
}

// TurnRight rotates the rover 90 degrees clockwise
func (r *Rover) TurnRight() {
	r.heading = r.heading.Right()
}

// CanMoveTo checks if the rover may enter pos: it must be on the platform and
// not occupied by any rover in others. others may be nil.
func (r *Rover) CanMoveTo(pos Position, others Occupancy) (RejectReason, bool) {
	if !r.platform.Contains(pos) {
		return RejectOutOfBounds, false
	}
	if others != nil && others.Occupied(pos) {
		return RejectCollision, false
	}
	return "", true
}

// MoveForward attempts one step in the current heading. When the step is not
// allowed the rover stays put and the rejection is returned with ok == false.
func (r *Rover) MoveForward(others Occupancy) (MoveRejection, bool) {
	target := r.position.Step(r.heading)

	reason, ok := r.CanMoveTo(target, others)
	if !ok {
		return MoveRejection{
			From:    r.position,
			To:      target,
			Heading: r.heading,
			Reason:  reason,
		}, false
	}

	r.position = target
	return MoveRejection{}, true
}

// Execute runs an instruction string left to right against the given occupancy.
// The whole string is checked before anything runs, so an unknown letter leaves
// the rover untouched. Rejected moves are collected and returned; they never
// stop the remaining instructions.
func (r *Rover) Execute(instructions string, others Occupancy) ([]MoveRejection, error) {
	if err := ValidateInstructions(instructions); err != nil {
		return nil, err
	}

	var rejections []MoveRejection
	for i := 0; i < len(instructions); i++ {
		switch instructions[i] {
		case InstructionLeft:
			r.TurnLeft()
		case InstructionRight:
			r.TurnRight()
		case InstructionMove:
			if rejection, ok := r.MoveForward(others); !ok {
				rejection.Step = i
				rejections = append(rejections, rejection)
			}
		}
	}

	return rejections, nil
}

// ValidateInstructions checks that s is a non-empty string over {L, R, M}
func ValidateInstructions(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty instruction string", ErrInvalidInputFormat)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case InstructionLeft, InstructionRight, InstructionMove:
		default:
			return fmt.Errorf("%w: invalid instruction %q at offset %d", ErrInvalidInputFormat, s[i], i)
		}
	}
	return nil
}

// State returns a snapshot of the rover
func (r *Rover) State(index int) RoverState {
	return RoverState{
		Index:    index,
		Position: r.position,
		Heading:  r.heading,
		Platform: r.platform,
	}
}
