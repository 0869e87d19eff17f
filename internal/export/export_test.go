package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// coffeeToast is the reconciled breakdown of a 12.00 receipt with 1.00 tax.
func coffeeToast() *models.Breakdown {
	alice := models.Participant{ID: "a", Name: "Alice"}
	bob := models.Participant{ID: "b", Name: "Bob"}
	return &models.Breakdown{
		Shares: []models.PersonShare{
			{
				Participant:  alice,
				Items:        []models.ShareItem{{Index: 0, Name: "Coffee", Price: d("4")}},
				Subtotal:     d("4"),
				Tax:          d("0.3333333333333333"),
				Total:        d("4.3333333333333333"),
				RoundedTotal: d("4.33"),
			},
			{
				Participant:  bob,
				Items:        []models.ShareItem{{Index: 1, Name: "Toast", Price: d("8")}},
				Subtotal:     d("8"),
				Tax:          d("0.6666666666666667"),
				Total:        d("8.6666666666666667"),
				RoundedTotal: d("8.67"),
			},
		},
		Base:             d("12"),
		Allocated:        d("13"),
		RoundedAllocated: d("13"),
		ReceiptTotal:     d("13"),
		Places:           2,
	}
}

func TestMoney(t *testing.T) {
	usd, err := NewMoney("USD", "en")
	if err != nil {
		t.Fatalf("NewMoney failed: %v", err)
	}
	if usd.Places() != 2 {
		t.Errorf("USD places = %d, want 2", usd.Places())
	}
	if got := usd.Format(d("1234.5")); got != "$ 1,234.50" {
		t.Errorf("Format = %q, want %q", got, "$ 1,234.50")
	}
	if got := usd.Format(d("4.333333")); got != "$ 4.33" {
		t.Errorf("Format = %q, want %q", got, "$ 4.33")
	}

	jpy, err := NewMoney("JPY", "en")
	if err != nil {
		t.Fatalf("NewMoney failed: %v", err)
	}
	if jpy.Places() != 0 {
		t.Errorf("JPY places = %d, want 0", jpy.Places())
	}

	if _, err := NewMoney("XYZ1", "en"); err == nil {
		t.Error("expected error for bad currency")
	}
	if _, err := NewMoney("USD", "not a locale!"); err == nil {
		t.Error("expected error for bad locale")
	}
}

func TestShareText(t *testing.T) {
	usd, _ := NewMoney("USD", "en")
	got := ShareText(coffeeToast(), usd)

	want := "Bill Split Breakdown:\n\n" +
		"Alice: $ 4.33\n  • Coffee: $ 4.00\n\n" +
		"Bob: $ 8.67\n  • Toast: $ 8.00\n\n" +
		"Total: $ 13.00"
	if got != want {
		t.Errorf("ShareText =\n%s\nwant\n%s", got, want)
	}
}

func TestMoneyWithPlaces(t *testing.T) {
	idr, err := NewMoney("IDR", "id")
	if err != nil {
		t.Fatalf("NewMoney failed: %v", err)
	}

	tests := []struct {
		name   string
		places int
		want   int32
		amount string
		text   string
	}{
		{"two places", 2, 2, "1234.5", "Rp 1.234,50"},
		{"whole rupiah", 0, 0, "1234.5", "Rp 1.235"},
		{"negative keeps standard", -1, idr.Places(), "7", idr.Format(d("7"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := idr.WithPlaces(tt.places)
			if m.Places() != tt.want {
				t.Errorf("Places = %d, want %d", m.Places(), tt.want)
			}
			if got := m.Format(d(tt.amount)); got != tt.text {
				t.Errorf("Format(%s) = %q, want %q", tt.amount, got, tt.text)
			}
		})
	}

	before := idr.Places()
	_ = idr.WithPlaces(4)
	if idr.Places() != before {
		t.Errorf("WithPlaces changed the receiver: %d, want %d", idr.Places(), before)
	}
}

func TestShareTextLocalized(t *testing.T) {
	idr, err := NewMoney("IDR", "id")
	if err != nil {
		t.Fatalf("NewMoney failed: %v", err)
	}
	got := ShareText(coffeeToast(), idr.WithPlaces(2))

	for _, want := range []string{"Alice: Rp 4,33", "  • Toast: Rp 8,00", "Bob: Rp 8,67", "Total: Rp 13,00"} {
		if !strings.Contains(got, want) {
			t.Errorf("share text missing %q:\n%s", want, got)
		}
	}
}

func TestWorkbook(t *testing.T) {
	usd, _ := NewMoney("USD", "en")
	data, err := Workbook(coffeeToast(), usd)
	if err != nil {
		t.Fatalf("Workbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Breakdown" || sheets[1] != "Items" {
		t.Fatalf("sheets = %v", sheets)
	}

	raw := excelize.Options{RawCellValue: true}
	cells := map[string]string{
		"A1": "Participant",
		"A2": "Alice",
		"A3": "Bob",
		"H2": "4.33",
		"H3": "8.67",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Breakdown", cell, raw)
		if err != nil {
			t.Fatalf("GetCellValue(%s) failed: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	rows, err := f.GetRows("Items")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("item rows = %d, want 3", len(rows))
	}
	if rows[1][1] != "Coffee" || rows[1][3] != "Alice" {
		t.Errorf("first item row = %v", rows[1])
	}
	if rows[2][1] != "Toast" || rows[2][3] != "Bob" {
		t.Errorf("second item row = %v", rows[2])
	}
}
