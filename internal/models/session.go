package models

// Session is the state carried between the steps of a split: the receipt,
// the people who may take part, who was picked, and who ordered what.
//
// A Session is a value. Code that changes it works on a Clone and hands the
// new value on; a previous Session is never modified.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Currency is the ISO 4217 code amounts are expressed in.
	Currency string

	// Roster is the list of known people for this session.
	Roster []Participant

	// Receipt is the analyzed receipt being split. Nil before a receipt is
	// supplied and after a bill is finalized.
	Receipt *Receipt

	// Selected holds the roster IDs taking part in this receipt, in the
	// order they were picked.
	Selected []string

	// Assignment maps item index to a selected participant ID.
	Assignment Assignment

	// Trip holds the bills finalized during this session.
	Trip Trip

	// CreatedAt is the Unix timestamp when the session was started.
	CreatedAt int64
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	c := s
	c.Roster = append([]Participant(nil), s.Roster...)
	c.Receipt = s.Receipt.Clone()
	c.Selected = append([]string(nil), s.Selected...)
	c.Assignment = s.Assignment.Clone()
	c.Trip = s.Trip.clone()
	return c
}

// Participant returns the roster entry with the given ID.
func (s Session) Participant(id string) (Participant, bool) {
	for _, p := range s.Roster {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// SelectedParticipants returns the selected roster entries in selection order.
func (s Session) SelectedParticipants() []Participant {
	out := make([]Participant, 0, len(s.Selected))
	for _, id := range s.Selected {
		if p, ok := s.Participant(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// IsSelected reports whether the participant takes part in the current receipt.
func (s Session) IsSelected(id string) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}
