package models

import "github.com/shopspring/decimal"

// ShareItem is a receipt line assigned to one participant.
type ShareItem struct {
	// Index is the position of the item on the receipt.
	Index int
	Name  string
	Price decimal.Decimal
}

// PersonShare is one participant's calculated share of a receipt.
// This is the output of the allocation algorithm.
type PersonShare struct {
	Participant Participant

	// Items are the receipt lines assigned to this participant.
	Items []ShareItem

	// Subtotal is the sum of the assigned item prices.
	Subtotal decimal.Decimal

	// Fraction is Subtotal / allocation base.
	Fraction decimal.Decimal

	// Tax, ServiceCharge and Discount are this participant's proportional
	// shares: charge × Subtotal / allocation base.
	Tax           decimal.Decimal
	ServiceCharge decimal.Decimal
	Discount      decimal.Decimal

	// Total is Subtotal + Tax + ServiceCharge - Discount, unrounded.
	Total decimal.Decimal

	// RoundedTotal is Total rounded to the currency's minor unit, adjusted so
	// that the rounded totals of a breakdown add up exactly. Zero until the
	// breakdown is reconciled.
	RoundedTotal decimal.Decimal
}

// Breakdown is the per-participant result for one receipt.
type Breakdown struct {
	// Shares are in participant selection order.
	Shares []PersonShare

	// Base is the allocation base (subtotal, or total when absent).
	Base decimal.Decimal

	// Allocated is the sum of all unrounded share totals.
	Allocated decimal.Decimal

	// RoundedAllocated is Allocated rounded once to the minor unit; the
	// rounded share totals sum to it after reconciliation.
	RoundedAllocated decimal.Decimal

	// UnallocatedTip is the receipt tip, which is not divided among
	// participants.
	UnallocatedTip decimal.Decimal

	// ReceiptTotal is the total printed on the receipt.
	ReceiptTotal decimal.Decimal

	// Discrepancy is the receipt's own imbalance (see Receipt.Discrepancy).
	Discrepancy decimal.Decimal

	// Places is the number of decimal places used for rounding.
	Places int32
}

// Share returns the share for the given participant ID.
func (b *Breakdown) Share(participantID string) (*PersonShare, bool) {
	for i := range b.Shares {
		if b.Shares[i].Participant.ID == participantID {
			return &b.Shares[i], true
		}
	}
	return nil, false
}
