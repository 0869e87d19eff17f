package api

import (
	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

// ToModel converts the wire receipt to the domain receipt. Absent charges
// become zero; an absent subtotal stays absent. A quantity below one is
// stored as zero, meaning unknown.
func (r *Receipt) ToModel() *models.Receipt {
	if r == nil {
		return nil
	}
	m := &models.Receipt{
		Items:         make([]models.ReceiptItem, len(r.Items)),
		Tax:           orZero(r.Tax),
		ServiceCharge: orZero(r.ServiceCharge),
		Discount:      orZero(r.Discount),
		Tip:           orZero(r.Tip),
		Total:         r.Total,
	}
	if r.Subtotal != nil {
		m.Subtotal = decimal.NewNullDecimal(*r.Subtotal)
	}
	for i, item := range r.Items {
		m.Items[i] = models.ReceiptItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: max(item.Quantity, 0),
		}
	}
	return m
}

// ReceiptFromModel converts a domain receipt to its wire form. Charges are
// always written out, zero or not.
func ReceiptFromModel(m *models.Receipt) *Receipt {
	if m == nil {
		return nil
	}
	r := &Receipt{
		Items:         make([]ReceiptItem, len(m.Items)),
		Tax:           ptr(m.Tax),
		ServiceCharge: ptr(m.ServiceCharge),
		Discount:      ptr(m.Discount),
		Tip:           ptr(m.Tip),
		Total:         m.Total,
	}
	if m.Subtotal.Valid {
		r.Subtotal = ptr(m.Subtotal.Decimal)
	}
	for i, item := range m.Items {
		r.Items[i] = ReceiptItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}
	return r
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
