package engine

import (
	"log"
	"strings"
)

// Arena owns every rover deployed so far, in deployment order, and is the
// authority for collision checks. Rovers are only ever appended.
type Arena struct {
	rovers []*Rover

	// Diagnostics receives every rejected move. It is a side channel only and
	// never affects the report. Nil silences it.
	Diagnostics func(MoveRejection)
}

// NewArena creates an empty arena that logs rejected moves
func NewArena() *Arena {
	return &Arena{
		Diagnostics: LogRejection,
	}
}

// LogRejection is the default Diagnostics hook
func LogRejection(r MoveRejection) {
	log.Printf("Invalid position! %s", r)
}

// ProcessInstructions validates and decodes text, deploys one rover per command
// block and returns the report of every rover in the arena, one "x y D" line each.
// On error nothing from this batch remains in the arena.
func (a *Arena) ProcessInstructions(text string) (string, error) {
	batch, err := Parse(text)
	if err != nil {
		return "", err
	}

	if _, err := a.Deploy(batch); err != nil {
		return "", err
	}

	return a.Report(), nil
}

// Deploy creates and runs the batch's rovers in order. Each rover finishes its
// whole instruction string before it is added to the arena, so it only ever
// collides with rovers from earlier commands. The rejected moves of the batch
// are returned in the order they happened.
//
// A rover starting off the platform stops the batch with an error. Rovers
// deployed before it stay in the arena.
func (a *Arena) Deploy(batch *Batch) ([]MoveRejection, error) {
	var rejections []MoveRejection

	for _, cmd := range batch.Commands {
		rover, err := NewRover(batch.Platform, cmd)
		if err != nil {
			return nil, err
		}

		rejected, err := rover.Execute(cmd.Instructions, a)
		if err != nil {
			return nil, err
		}

		index := len(a.rovers)
		for _, r := range rejected {
			r.Rover = index
			if a.Diagnostics != nil {
				a.Diagnostics(r)
			}
			rejections = append(rejections, r)
		}

		a.rovers = append(a.rovers, rover)
	}

	return rejections, nil
}

// Occupied implements Occupancy with a linear scan over all deployed rovers
func (a *Arena) Occupied(pos Position) bool {
	for _, r := range a.rovers {
		if r.position == pos {
			return true
		}
	}
	return false
}

// Len returns the number of deployed rovers
func (a *Arena) Len() int {
	return len(a.rovers)
}

// Rovers returns a snapshot of every deployed rover in deployment order
func (a *Arena) Rovers() []RoverState {
	states := make([]RoverState, len(a.rovers))
	for i, r := range a.rovers {
		states[i] = r.State(i)
	}
	return states
}

// Report joins every rover's "x y D" line with newlines, without a trailing newline
func (a *Arena) Report() string {
	lines := make([]string, len(a.rovers))
	for i, r := range a.rovers {
		lines[i] = r.Report()
	}
	return strings.Join(lines, "\n")
}
