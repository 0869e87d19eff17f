package models

import "github.com/shopspring/decimal"

// ReceiptItem is a single line extracted from a receipt.
type ReceiptItem struct {
	// Name is the line description as printed (e.g., "Cappuccino").
	Name string

	// Price is the amount the analysis reported for the line.
	// Quantity is not multiplied in; the line price already covers it.
	Price decimal.Decimal

	// Quantity is informational. Zero means the receipt did not say.
	Quantity int
}

// Receipt is the structured result of analyzing a receipt image.
//
// Charges that were absent on the receipt are zero. Subtotal is kept as a
// NullDecimal because its absence changes the allocation base.
type Receipt struct {
	// Items are the receipt lines in printed order. Assignments refer to
	// items by their index in this slice.
	Items []ReceiptItem

	// Subtotal is the pre-charge amount, when the receipt shows one.
	Subtotal decimal.NullDecimal

	Tax           decimal.Decimal
	ServiceCharge decimal.Decimal
	Discount      decimal.Decimal
	Tip           decimal.Decimal

	// Total is the final amount printed on the receipt.
	Total decimal.Decimal
}

// AllocationBase returns the amount shared charges are divided against:
// the subtotal when present, otherwise the total.
func (r *Receipt) AllocationBase() decimal.Decimal {
	if r.Subtotal.Valid {
		return r.Subtotal.Decimal
	}
	return r.Total
}

// ItemsSum returns the sum of all item prices.
func (r *Receipt) ItemsSum() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range r.Items {
		sum = sum.Add(item.Price)
	}
	return sum
}

// Discrepancy returns Total - (base + tax + service - discount + tip).
// Receipts are expected to balance but nothing enforces it; a non-zero value
// is reported alongside a breakdown and never rejected.
func (r *Receipt) Discrepancy() decimal.Decimal {
	expected := r.AllocationBase().
		Add(r.Tax).
		Add(r.ServiceCharge).
		Sub(r.Discount).
		Add(r.Tip)
	return r.Total.Sub(expected)
}

// Clone returns a deep copy of the receipt.
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	c := *r
	c.Items = append([]ReceiptItem(nil), r.Items...)
	return &c
}
