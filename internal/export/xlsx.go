package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

const (
	breakdownSheet = "Breakdown"
	itemsSheet     = "Items"
)

// XLSXContentType is the media type of Workbook output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook renders the breakdown as an XLSX file: one row per participant
// on the first sheet, one row per receipt item on the second.
func Workbook(b *models.Breakdown, money *Money) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", breakdownSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	numFmt := amountFormat(money.Places())
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}

	headers := []string{
		"Participant", "Items", "Subtotal", "Tax", "Service", "Discount", "Total", "Rounded Total",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(breakdownSheet, cell, h)
	}
	f.SetRowStyle(breakdownSheet, 1, 1, headerStyle)

	for i, share := range b.Shares {
		row := i + 2
		f.SetCellValue(breakdownSheet, fmt.Sprintf("A%d", row), share.Participant.Name)
		f.SetCellValue(breakdownSheet, fmt.Sprintf("B%d", row), len(share.Items))
		f.SetCellValue(breakdownSheet, fmt.Sprintf("C%d", row), share.Subtotal.InexactFloat64())
		f.SetCellValue(breakdownSheet, fmt.Sprintf("D%d", row), share.Tax.InexactFloat64())
		f.SetCellValue(breakdownSheet, fmt.Sprintf("E%d", row), share.ServiceCharge.InexactFloat64())
		f.SetCellValue(breakdownSheet, fmt.Sprintf("F%d", row), share.Discount.InexactFloat64())
		f.SetCellValue(breakdownSheet, fmt.Sprintf("G%d", row), share.Total.InexactFloat64())
		f.SetCellValue(breakdownSheet, fmt.Sprintf("H%d", row), share.RoundedTotal.InexactFloat64())
	}
	last := len(b.Shares) + 1
	if last > 1 {
		f.SetCellStyle(breakdownSheet, "C2", fmt.Sprintf("H%d", last), amountStyle)
	}

	summary := [][]interface{}{
		{"Currency", money.Currency()},
		{"Allocated", b.RoundedAllocated.InexactFloat64()},
		{"Tip (not split)", b.UnallocatedTip.InexactFloat64()},
		{"Receipt Total", b.ReceiptTotal.InexactFloat64()},
		{"Discrepancy", b.Discrepancy.InexactFloat64()},
	}
	start := last + 2
	for i, row := range summary {
		r := start + i
		f.SetCellValue(breakdownSheet, fmt.Sprintf("A%d", r), row[0])
		f.SetCellValue(breakdownSheet, fmt.Sprintf("B%d", r), row[1])
		if i > 0 {
			f.SetCellStyle(breakdownSheet, fmt.Sprintf("B%d", r), fmt.Sprintf("B%d", r), amountStyle)
		}
	}

	f.SetColWidth(breakdownSheet, "A", "A", 20)
	f.SetColWidth(breakdownSheet, "B", "H", 14)

	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("items sheet: %w", err)
	}
	for i, h := range []string{"#", "Item", "Price", "Participant"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(itemsSheet, cell, h)
	}
	f.SetRowStyle(itemsSheet, 1, 1, headerStyle)

	row := 2
	for _, share := range b.Shares {
		for _, item := range share.Items {
			f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row), item.Index+1)
			f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", row), item.Name)
			f.SetCellValue(itemsSheet, fmt.Sprintf("C%d", row), item.Price.InexactFloat64())
			f.SetCellStyle(itemsSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), amountStyle)
			f.SetCellValue(itemsSheet, fmt.Sprintf("D%d", row), share.Participant.Name)
			row++
		}
	}
	f.SetColWidth(itemsSheet, "B", "B", 30)
	f.SetColWidth(itemsSheet, "D", "D", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// amountFormat returns an Excel number format with the given decimals.
func amountFormat(places int32) string {
	if places <= 0 {
		return "#,##0"
	}
	format := "#,##0."
	for i := int32(0); i < places; i++ {
		format += "0"
	}
	return format
}
