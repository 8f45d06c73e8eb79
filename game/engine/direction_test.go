package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDirection_Turns(t *testing.T) {
	tests := []struct {
		name  string
		start Direction
		left  Direction
		right Direction
	}{
		{"north", North, West, East},
		{"east", East, North, South},
		{"south", South, East, West},
		{"west", West, South, North},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.Left(); got != tt.left {
				t.Errorf("Expected %s.Left() = %s, got %s", tt.start.Name(), tt.left.Name(), got.Name())
			}
			if got := tt.start.Right(); got != tt.right {
				t.Errorf("Expected %s.Right() = %s, got %s", tt.start.Name(), tt.right.Name(), got.Name())
			}
		})
	}
}

func TestDirection_FullRotationIsIdentity(t *testing.T) {
	for _, d := range AllDirections() {
		left, right := d, d
		for i := 0; i < 4; i++ {
			left = left.Left()
			right = right.Right()
		}
		if left != d {
			t.Errorf("Four left turns from %s ended at %s", d, left)
		}
		if right != d {
			t.Errorf("Four right turns from %s ended at %s", d, right)
		}
	}
}

func TestDirection_Delta(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy int
	}{
		{North, 0, 1},
		{East, 1, 0},
		{South, 0, -1},
		{West, -1, 0},
	}

	for _, tt := range tests {
		dx, dy := tt.dir.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("Expected %s delta (%d,%d), got (%d,%d)", tt.dir.Name(), tt.dx, tt.dy, dx, dy)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range AllDirections() {
		parsed, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("Unexpected error parsing %q: %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("Expected %s, got %s", d, parsed)
		}
	}

	for _, bad := range []string{"", "n", "X", "NE", "North"} {
		if _, err := ParseDirection(bad); !errors.Is(err, ErrInvalidInputFormat) {
			t.Errorf("Expected ErrInvalidInputFormat for %q, got %v", bad, err)
		}
	}
}

func TestDirection_Invalid(t *testing.T) {
	d := Direction(7)
	if d.IsValid() {
		t.Error("Expected Direction(7) to be invalid")
	}
	if d.String() != "?" {
		t.Errorf("Expected \"?\" for invalid direction, got %q", d.String())
	}
	if _, err := d.MarshalText(); err == nil {
		t.Error("Expected MarshalText to fail for invalid direction")
	}
}

func TestDirection_JSON(t *testing.T) {
	state := RoverState{Position: Position{X: 1, Y: 3}, Heading: West}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Failed to marshal rover state: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded["heading"] != "W" {
		t.Errorf("Expected heading to be encoded as \"W\", got %v", decoded["heading"])
	}

	var roundTrip RoverState
	if err := json.Unmarshal(data, &roundTrip); err != nil {
		t.Fatalf("Failed to decode rover state: %v", err)
	}
	if roundTrip.Heading != West {
		t.Errorf("Expected West after decoding, got %s", roundTrip.Heading.Name())
	}
}
