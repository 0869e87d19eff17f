package session

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/calculator"
	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

// startTwo returns a session with Alice and Bob selected on the test receipt.
func startTwo(t *testing.T) (models.Session, string, string) {
	t.Helper()
	s, err := Start("USD", []RosterEntry{{Name: "Alice"}, {Name: "Bob"}, {Name: "Carol"}}, testReceipt())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	alice, bob := s.Roster[0].ID, s.Roster[1].ID
	s, err = SelectParticipants(s, []string{alice, bob})
	if err != nil {
		t.Fatalf("SelectParticipants failed: %v", err)
	}
	return s, alice, bob
}

func TestStart(t *testing.T) {
	s, err := Start("EUR", []RosterEntry{{Name: " Alex "}, {Name: "Sam", Color: "bg-accent"}}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.ID == "" {
		t.Error("expected a session ID")
	}
	if s.Roster[0].Name != "Alex" {
		t.Errorf("name should be trimmed, got %q", s.Roster[0].Name)
	}
	if s.Roster[0].Color != models.ColorPalette[0] {
		t.Errorf("first color = %q, want %q", s.Roster[0].Color, models.ColorPalette[0])
	}
	if s.Roster[1].Color != "bg-accent" {
		t.Errorf("explicit color = %q, want bg-accent", s.Roster[1].Color)
	}
	if s.Receipt != nil {
		t.Error("expected no receipt")
	}

	if _, err := Start("EUR", []RosterEntry{{Name: "  "}}, nil); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestRosterChanges(t *testing.T) {
	s, alice, bob := startTwo(t)
	s, err := AssignItem(s, 0, alice)
	if err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}
	s, err = AssignItem(s, 1, bob)
	if err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}

	t.Run("add", func(t *testing.T) {
		next, p, err := AddRosterMember(s, "Dana")
		if err != nil {
			t.Fatalf("AddRosterMember failed: %v", err)
		}
		if len(next.Roster) != 4 || next.Roster[3].ID != p.ID {
			t.Errorf("Roster = %+v", next.Roster)
		}
		if p.Color != models.ColorPalette[3] {
			t.Errorf("Color = %q, want %q", p.Color, models.ColorPalette[3])
		}
		if len(s.Roster) != 3 {
			t.Error("original session was modified")
		}
	})

	t.Run("add empty", func(t *testing.T) {
		if _, _, err := AddRosterMember(s, ""); !errors.Is(err, ErrEmptyName) {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}
	})

	t.Run("remove drops selection and assignments", func(t *testing.T) {
		next, err := RemoveRosterMember(s, bob)
		if err != nil {
			t.Fatalf("RemoveRosterMember failed: %v", err)
		}
		if len(next.Roster) != 2 {
			t.Errorf("Roster length = %d, want 2", len(next.Roster))
		}
		if next.IsSelected(bob) {
			t.Error("Bob should no longer be selected")
		}
		if _, ok := next.Assignment[1]; ok {
			t.Error("Bob's item should be unassigned")
		}
		if next.Assignment[0] != alice {
			t.Error("Alice's item should stay assigned")
		}
		if s.Assignment[1] != bob || len(s.Roster) != 3 || !s.IsSelected(bob) {
			t.Error("original session was modified")
		}
	})

	t.Run("remove unknown", func(t *testing.T) {
		if _, err := RemoveRosterMember(s, "nobody"); !errors.Is(err, ErrUnknownParticipant) {
			t.Errorf("expected ErrUnknownParticipant, got %v", err)
		}
	})
}

func TestSelectParticipants(t *testing.T) {
	s, alice, bob := startTwo(t)
	carol := s.Roster[2].ID
	s, _ = AssignItem(s, 0, alice)
	s, _ = AssignItem(s, 1, bob)

	tests := []struct {
		name    string
		ids     []string
		wantErr error
		check   func(t *testing.T, next models.Session)
	}{
		{
			name: "deselect drops assignments",
			ids:  []string{alice, carol},
			check: func(t *testing.T, next models.Session) {
				if _, ok := next.Assignment[1]; ok {
					t.Error("Bob's assignment should be dropped")
				}
				if next.Assignment[0] != alice {
					t.Error("Alice's assignment should stay")
				}
			},
		},
		{
			name: "duplicates collapse",
			ids:  []string{bob, alice, bob},
			check: func(t *testing.T, next models.Session) {
				if len(next.Selected) != 2 || next.Selected[0] != bob || next.Selected[1] != alice {
					t.Errorf("Selected = %v, want [bob alice]", next.Selected)
				}
			},
		},
		{
			name:    "empty",
			ids:     nil,
			wantErr: ErrNoSelection,
		},
		{
			name:    "unknown",
			ids:     []string{alice, "ghost"},
			wantErr: ErrUnknownParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := SelectParticipants(s, tt.ids)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, next)
		})
	}

	t.Run("without receipt", func(t *testing.T) {
		bare, _ := Start("USD", []RosterEntry{{Name: "Alice"}}, nil)
		if _, err := SelectParticipants(bare, []string{bare.Roster[0].ID}); !errors.Is(err, ErrMissingState) {
			t.Errorf("expected ErrMissingState, got %v", err)
		}
	})
}

func TestAssignItem(t *testing.T) {
	s, alice, bob := startTwo(t)
	carol := s.Roster[2].ID

	if st := AssignmentStatus(s); st.Items != 2 || st.Remaining != 2 || st.Complete {
		t.Errorf("initial status = %+v", st)
	}

	next, err := AssignItem(s, 0, alice)
	if err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}
	if len(s.Assignment) != 0 {
		t.Error("original session was modified")
	}
	if st := AssignmentStatus(next); st.Assigned != 1 || st.Remaining != 1 || st.Complete {
		t.Errorf("status after one = %+v", st)
	}

	// Reassigning replaces the previous participant.
	next, _ = AssignItem(next, 0, bob)
	if next.Assignment[0] != bob {
		t.Errorf("Assignment[0] = %q, want Bob", next.Assignment[0])
	}

	next, _ = AssignItem(next, 1, alice)
	if st := AssignmentStatus(next); !st.Complete || st.Remaining != 0 {
		t.Errorf("final status = %+v", st)
	}

	cleared, err := UnassignItem(next, 1)
	if err != nil {
		t.Fatalf("UnassignItem failed: %v", err)
	}
	if st := AssignmentStatus(cleared); st.Remaining != 1 {
		t.Errorf("status after unassign = %+v", st)
	}

	if _, err := AssignItem(s, 2, alice); !errors.Is(err, ErrItemOutOfRange) {
		t.Errorf("expected ErrItemOutOfRange, got %v", err)
	}
	if _, err := AssignItem(s, -1, alice); !errors.Is(err, ErrItemOutOfRange) {
		t.Errorf("expected ErrItemOutOfRange, got %v", err)
	}
	if _, err := AssignItem(s, 0, carol); !errors.Is(err, ErrNotSelected) {
		t.Errorf("expected ErrNotSelected, got %v", err)
	}

	bare, _ := Start("USD", nil, testReceipt())
	if _, err := AssignItem(bare, 0, alice); !errors.Is(err, ErrMissingState) {
		t.Errorf("expected ErrMissingState, got %v", err)
	}
}

func TestBreakdown(t *testing.T) {
	s, alice, bob := startTwo(t)

	if _, err := Breakdown(s, 2); !errors.Is(err, calculator.ErrIncompleteAssignment) {
		t.Fatalf("expected ErrIncompleteAssignment, got %v", err)
	}

	s, _ = AssignItem(s, 0, alice)
	s, _ = AssignItem(s, 1, bob)

	b, err := Breakdown(s, 2)
	if err != nil {
		t.Fatalf("Breakdown failed: %v", err)
	}
	a, _ := b.Share(alice)
	c, _ := b.Share(bob)
	if !a.RoundedTotal.Equal(decimal.RequireFromString("4.33")) {
		t.Errorf("Alice = %s, want 4.33", a.RoundedTotal)
	}
	if !c.RoundedTotal.Equal(decimal.RequireFromString("8.67")) {
		t.Errorf("Bob = %s, want 8.67", c.RoundedTotal)
	}
}

func TestFinalize(t *testing.T) {
	s, alice, bob := startTwo(t)
	s, _ = AssignItem(s, 0, alice)
	s, _ = AssignItem(s, 1, bob)

	t.Run("payer must be selected", func(t *testing.T) {
		carol := s.Roster[2].ID
		if _, _, err := Finalize(s, "", carol, 2); !errors.Is(err, ErrNotSelected) {
			t.Errorf("expected ErrNotSelected, got %v", err)
		}
	})

	next, bill, err := Finalize(s, "", alice, 2)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if bill.Title != "Split with Alice, Bob" {
		t.Errorf("Title = %q", bill.Title)
	}
	if !bill.Total.Equal(decimal.RequireFromString("13")) {
		t.Errorf("Total = %s, want 13", bill.Total)
	}
	if !bill.Shares[bob].Equal(decimal.RequireFromString("8.67")) {
		t.Errorf("Bob share = %s, want 8.67", bill.Shares[bob])
	}
	if bill.PayerID != alice {
		t.Errorf("PayerID = %q, want Alice", bill.PayerID)
	}

	if next.Receipt != nil || len(next.Selected) != 0 || len(next.Assignment) != 0 {
		t.Error("finalize should clear receipt, selection and assignment")
	}
	if len(next.Trip.Bills) != 1 {
		t.Fatalf("Bills = %d, want 1", len(next.Trip.Bills))
	}
	if len(next.Roster) != 3 {
		t.Error("roster should survive finalize")
	}
	if s.Receipt == nil || len(s.Trip.Bills) != 0 {
		t.Error("original session was modified")
	}

	// A second receipt continues the same trip.
	next = WithReceipt(next, testReceipt())
	next, _ = SelectParticipants(next, []string{bob})
	next, _ = AssignItem(next, 0, bob)
	next, _ = AssignItem(next, 1, bob)
	next, second, err := Finalize(next, "  Brunch ", "", 2)
	if err != nil {
		t.Fatalf("second Finalize failed: %v", err)
	}
	if second.Title != "Brunch" {
		t.Errorf("Title = %q, want Brunch", second.Title)
	}
	if !next.Trip.TotalSpent().Equal(decimal.RequireFromString("26")) {
		t.Errorf("TotalSpent = %s, want 26", next.Trip.TotalSpent())
	}

	if _, _, err := Finalize(next, "", "", 2); !errors.Is(err, ErrMissingState) {
		t.Errorf("expected ErrMissingState after finalize, got %v", err)
	}
}
