// Package export renders breakdowns for sharing: a plain text message and
// an XLSX workbook.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money formats amounts in one currency for one locale.
type Money struct {
	unit    currency.Unit
	tag     language.Tag
	places  int32
	printer *message.Printer
}

// NewMoney creates a formatter for an ISO 4217 currency code and a BCP 47
// locale. Amounts are rounded to the currency's standard minor unit until
// WithPlaces says otherwise.
func NewMoney(code, locale string) (*Money, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &Money{
		unit:    unit,
		tag:     tag,
		places:  int32(scale),
		printer: message.NewPrinter(tag),
	}, nil
}

// WithPlaces returns a copy that rounds to the given number of decimal
// places. A negative value keeps the currency's standard places.
func (m *Money) WithPlaces(places int) *Money {
	c := *m
	if places >= 0 {
		c.places = int32(places)
	}
	return &c
}

// Currency returns the ISO code.
func (m *Money) Currency() string {
	return m.unit.String()
}

// Places returns the number of decimal places amounts are rounded to. Shares
// are reconciled to the same precision they are displayed with.
func (m *Money) Places() int32 {
	return m.places
}

// Format renders the amount with the narrow currency symbol and the locale's
// separators, e.g. "$ 1,234.50" or "Rp 1.234,50".
func (m *Money) Format(d decimal.Decimal) string {
	amount := d.Round(m.places).InexactFloat64()
	return m.printer.Sprintf("%v %v",
		currency.NarrowSymbol(m.unit),
		number.Decimal(amount, number.Scale(int(m.places))),
	)
}
