package models

import "github.com/shopspring/decimal"

// BillSummary is a finalized split kept on the session's trip.
// Only what the trip overview and balances need is retained; the receipt
// itself is dropped once a bill is finalized.
type BillSummary struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Title is user provided or generated from the participants.
	Title string

	// Total is the sum of the reconciled shares.
	Total decimal.Decimal

	// PayerID is the participant who paid the bill. Empty when unknown;
	// such bills count towards spending but not balances.
	PayerID string

	// Shares maps participant ID to reconciled share total.
	Shares map[string]decimal.Decimal

	// CreatedAt is the Unix timestamp when the bill was finalized.
	CreatedAt int64
}

// Trip is the list of bills finalized in one session.
type Trip struct {
	Bills []BillSummary
}

// TotalSpent returns the sum of all bill totals.
func (t Trip) TotalSpent() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range t.Bills {
		sum = sum.Add(b.Total)
	}
	return sum
}

func (t Trip) clone() Trip {
	bills := make([]BillSummary, len(t.Bills))
	for i, b := range t.Bills {
		shares := make(map[string]decimal.Decimal, len(b.Shares))
		for k, v := range b.Shares {
			shares[k] = v
		}
		b.Shares = shares
		bills[i] = b
	}
	return Trip{Bills: bills}
}
