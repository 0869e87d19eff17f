package models

import "github.com/google/uuid"

// ColorPalette holds the display color tags handed out to participants, in
// order. Tags are opaque to the backend; the frontend maps them to styles.
var ColorPalette = []string{
	"bg-primary",
	"bg-secondary",
	"bg-accent",
	"bg-muted",
	"bg-destructive",
}

// Participant is a person a receipt can be split with.
// Participants only exist inside a session.
type Participant struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Name is the display name (e.g., "Alex").
	Name string

	// Color is a display color tag from ColorPalette.
	Color string
}

// NewParticipant creates a participant with a fresh ID. The color is picked
// from ColorPalette by position so consecutive people look different.
func NewParticipant(name string, position int) Participant {
	return Participant{
		ID:    uuid.New().String(),
		Name:  name,
		Color: ColorPalette[position%len(ColorPalette)],
	}
}

// Assignment maps a receipt item index to the ID of the one participant who
// pays for it.
type Assignment map[int]string

// Clone returns a copy of the assignment.
func (a Assignment) Clone() Assignment {
	c := make(Assignment, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// Unassigned returns the item indexes in [0, itemCount) with no participant,
// in ascending order.
func (a Assignment) Unassigned(itemCount int) []int {
	var missing []int
	for i := 0; i < itemCount; i++ {
		if a[i] == "" {
			missing = append(missing, i)
		}
	}
	return missing
}
