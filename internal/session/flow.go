// Package session holds the split flow: the steps that take a Session from a
// freshly analyzed receipt to a finalized bill, and the signed tokens the
// Session travels in between steps.
//
// Every step takes a Session by value and returns a new one; the input is
// never modified, so a client that replays an older token simply resumes
// from that older state.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/calculator"
	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

// EntryPath is where a client without usable session state starts over.
const EntryPath = "/camera"

var (
	// ErrMissingState means a step was reached without the state an earlier
	// step produces. Clients recover by going back to EntryPath.
	ErrMissingState = errors.New("missing session state")

	ErrEmptyName          = errors.New("name cannot be empty")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrNoSelection        = errors.New("select at least one participant")
	ErrNotSelected        = errors.New("participant is not taking part in this receipt")
	ErrItemOutOfRange     = errors.New("item index out of range")
)

// RosterEntry seeds a roster member.
type RosterEntry struct {
	Name  string
	Color string
}

// Status reports assignment progress for the current receipt.
type Status struct {
	Items     int
	Assigned  int
	Remaining int
	Complete  bool
}

// Start creates a session for the given receipt. The roster is built from
// entries in order; entries without a color get one from the palette.
func Start(currency string, roster []RosterEntry, receipt *models.Receipt) (models.Session, error) {
	s := models.Session{
		ID:         uuid.New().String(),
		Currency:   currency,
		Assignment: models.Assignment{},
		CreatedAt:  time.Now().Unix(),
	}
	for _, entry := range roster {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return models.Session{}, ErrEmptyName
		}
		p := models.NewParticipant(name, len(s.Roster))
		if entry.Color != "" {
			p.Color = entry.Color
		}
		s.Roster = append(s.Roster, p)
	}
	if receipt != nil {
		s.Receipt = receipt.Clone()
	}
	return s, nil
}

// WithReceipt replaces the receipt being split. Selection and assignments
// belong to the previous receipt and are dropped.
func WithReceipt(s models.Session, receipt *models.Receipt) models.Session {
	next := s.Clone()
	next.Receipt = receipt.Clone()
	next.Selected = nil
	next.Assignment = models.Assignment{}
	return next
}

// AddRosterMember adds a person to the roster.
func AddRosterMember(s models.Session, name string) (models.Session, models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, models.Participant{}, ErrEmptyName
	}
	next := s.Clone()
	p := models.NewParticipant(name, len(next.Roster))
	next.Roster = append(next.Roster, p)
	return next, p, nil
}

// RemoveRosterMember removes a person from the roster together with their
// selection and item assignments.
func RemoveRosterMember(s models.Session, participantID string) (models.Session, error) {
	if _, ok := s.Participant(participantID); !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownParticipant, participantID)
	}
	next := s.Clone()
	roster := next.Roster[:0]
	for _, p := range next.Roster {
		if p.ID != participantID {
			roster = append(roster, p)
		}
	}
	next.Roster = roster
	next.Selected = without(next.Selected, participantID)
	dropAssignments(next.Assignment, participantID)
	return next, nil
}

// SelectParticipants sets who takes part in the current receipt. Duplicate
// IDs are ignored. Assignments to people no longer selected are dropped.
func SelectParticipants(s models.Session, participantIDs []string) (models.Session, error) {
	if s.Receipt == nil {
		return s, fmt.Errorf("%w: no receipt", ErrMissingState)
	}
	if len(participantIDs) == 0 {
		return s, ErrNoSelection
	}

	seen := make(map[string]bool, len(participantIDs))
	selected := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if _, ok := s.Participant(id); !ok {
			return s, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
		}
		if !seen[id] {
			seen[id] = true
			selected = append(selected, id)
		}
	}

	next := s.Clone()
	next.Selected = selected
	for index, id := range next.Assignment {
		if !seen[id] {
			delete(next.Assignment, index)
		}
	}
	return next, nil
}

// AssignItem gives the item at index to one selected participant, replacing
// any earlier choice for that item.
func AssignItem(s models.Session, index int, participantID string) (models.Session, error) {
	if err := RequireSelection(s); err != nil {
		return s, err
	}
	if index < 0 || index >= len(s.Receipt.Items) {
		return s, fmt.Errorf("%w: %d", ErrItemOutOfRange, index)
	}
	if !s.IsSelected(participantID) {
		return s, fmt.Errorf("%w: %s", ErrNotSelected, participantID)
	}

	next := s.Clone()
	next.Assignment[index] = participantID
	return next, nil
}

// UnassignItem clears the participant for the item at index.
func UnassignItem(s models.Session, index int) (models.Session, error) {
	if err := RequireSelection(s); err != nil {
		return s, err
	}
	if index < 0 || index >= len(s.Receipt.Items) {
		return s, fmt.Errorf("%w: %d", ErrItemOutOfRange, index)
	}
	next := s.Clone()
	delete(next.Assignment, index)
	return next, nil
}

// AssignmentStatus reports how many items still need a participant.
func AssignmentStatus(s models.Session) Status {
	if s.Receipt == nil {
		return Status{}
	}
	items := len(s.Receipt.Items)
	remaining := len(s.Assignment.Unassigned(items))
	return Status{
		Items:     items,
		Assigned:  items - remaining,
		Remaining: remaining,
		Complete:  remaining == 0,
	}
}

// RequireSelection checks that the session has a receipt and at least one
// selected participant.
func RequireSelection(s models.Session) error {
	if s.Receipt == nil {
		return fmt.Errorf("%w: no receipt", ErrMissingState)
	}
	if len(s.Selected) == 0 {
		return fmt.Errorf("%w: no participants selected", ErrMissingState)
	}
	return nil
}

// Breakdown computes the reconciled breakdown for the current receipt.
func Breakdown(s models.Session, places int32) (*models.Breakdown, error) {
	if err := RequireSelection(s); err != nil {
		return nil, err
	}
	b, err := calculator.CalculateBreakdown(s.Receipt, s.SelectedParticipants(), s.Assignment)
	if err != nil {
		return nil, err
	}
	calculator.Reconcile(b, places)
	return b, nil
}

// Finalize records the current receipt as a bill on the trip and clears the
// receipt, selection and assignments so the next receipt can start. The
// payer, when given, must be one of the selected participants.
func Finalize(s models.Session, title, payerID string, places int32) (models.Session, models.BillSummary, error) {
	b, err := Breakdown(s, places)
	if err != nil {
		return s, models.BillSummary{}, err
	}
	if payerID != "" && !s.IsSelected(payerID) {
		return s, models.BillSummary{}, fmt.Errorf("%w: payer %s", ErrNotSelected, payerID)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		names := make([]string, len(b.Shares))
		for i, share := range b.Shares {
			names[i] = share.Participant.Name
		}
		title = calculator.GenerateTitle(names)
	}

	bill := models.BillSummary{
		ID:        uuid.New().String(),
		Title:     title,
		Total:     b.RoundedAllocated,
		PayerID:   payerID,
		Shares:    make(map[string]decimal.Decimal, len(b.Shares)),
		CreatedAt: time.Now().Unix(),
	}
	for _, share := range b.Shares {
		bill.Shares[share.Participant.ID] = share.RoundedTotal
	}

	next := s.Clone()
	next.Trip.Bills = append(next.Trip.Bills, bill)
	next.Receipt = nil
	next.Selected = nil
	next.Assignment = models.Assignment{}
	return next, bill, nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dropAssignments(a models.Assignment, participantID string) {
	for index, id := range a {
		if id == participantID {
			delete(a, index)
		}
	}
}
