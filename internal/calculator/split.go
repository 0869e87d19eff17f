package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

var (
	ErrZeroSubtotal         = errors.New("subtotal cannot be zero")
	ErrNoParticipants       = errors.New("must have at least one participant")
	ErrIncompleteAssignment = errors.New("not every item is assigned")
	ErrInvalidAssignment    = errors.New("invalid item assignment")
)

// IncompleteAssignmentError lists the items that still need a participant.
type IncompleteAssignmentError struct {
	Unassigned []int
}

func (e *IncompleteAssignmentError) Error() string {
	if len(e.Unassigned) == 1 {
		return "1 item unassigned"
	}
	return fmt.Sprintf("%d items unassigned", len(e.Unassigned))
}

func (e *IncompleteAssignmentError) Is(target error) bool {
	return target == ErrIncompleteAssignment
}

// CheckAssignment verifies that every item of the receipt has exactly one
// known participant. It returns *IncompleteAssignmentError when items are
// missing and ErrInvalidAssignment for out-of-range indexes or unknown
// participants.
func CheckAssignment(receipt *models.Receipt, participants []models.Participant, assignment models.Assignment) error {
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}

	for index, participantID := range assignment {
		if index < 0 || index >= len(receipt.Items) {
			return fmt.Errorf("%w: item index %d out of range", ErrInvalidAssignment, index)
		}
		if participantID != "" && !known[participantID] {
			return fmt.Errorf("%w: item %d assigned to unknown participant %q", ErrInvalidAssignment, index, participantID)
		}
	}

	if missing := assignment.Unassigned(len(receipt.Items)); len(missing) > 0 {
		return &IncompleteAssignmentError{Unassigned: missing}
	}
	return nil
}

// CalculateBreakdown computes how much each participant owes, allocating tax,
// service charge and discount in proportion to the participant's share of the
// allocation base:
//
//	share(P) = charge × itemsSubtotal(P) / base
//	total(P) = itemsSubtotal(P) + taxShare + serviceShare - discountShare
//
// The base is the receipt subtotal, or the total when no subtotal was given.
// A zero base is rejected rather than divided by. The tip is not allocated.
// Every item must be assigned before anything is computed.
func CalculateBreakdown(receipt *models.Receipt, participants []models.Participant, assignment models.Assignment) (*models.Breakdown, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if err := CheckAssignment(receipt, participants, assignment); err != nil {
		return nil, err
	}

	base := receipt.AllocationBase()
	if base.IsZero() {
		return nil, ErrZeroSubtotal
	}

	shares := make([]models.PersonShare, len(participants))
	position := make(map[string]int, len(participants))
	for i, p := range participants {
		shares[i] = models.PersonShare{Participant: p}
		position[p.ID] = i
	}

	// Items are visited in receipt order so each share lists them as printed.
	for index, item := range receipt.Items {
		share := &shares[position[assignment[index]]]
		share.Items = append(share.Items, models.ShareItem{
			Index: index,
			Name:  item.Name,
			Price: item.Price,
		})
		share.Subtotal = share.Subtotal.Add(item.Price)
	}

	allocated := decimal.Zero
	for i := range shares {
		share := &shares[i]
		share.Fraction = share.Subtotal.Div(base)
		share.Tax = proportional(receipt.Tax, share.Subtotal, base)
		share.ServiceCharge = proportional(receipt.ServiceCharge, share.Subtotal, base)
		share.Discount = proportional(receipt.Discount, share.Subtotal, base)
		share.Total = share.Subtotal.
			Add(share.Tax).
			Add(share.ServiceCharge).
			Sub(share.Discount)
		allocated = allocated.Add(share.Total)
	}

	return &models.Breakdown{
		Shares:         shares,
		Base:           base,
		Allocated:      allocated,
		UnallocatedTip: receipt.Tip,
		ReceiptTotal:   receipt.Total,
		Discrepancy:    receipt.Discrepancy(),
	}, nil
}

// proportional returns charge × part / whole, multiplying first so that a
// single division carries the rounding.
func proportional(charge, part, whole decimal.Decimal) decimal.Decimal {
	if charge.IsZero() || part.IsZero() {
		return decimal.Zero
	}
	return charge.Mul(part).Div(whole)
}

// GenerateTitle creates a bill title from participant names.
func GenerateTitle(names []string) string {
	if len(names) == 0 {
		return "Bill"
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
