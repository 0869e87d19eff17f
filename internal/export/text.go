package export

import (
	"strings"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

// ShareText renders the breakdown as a message to paste into a chat:
// each person's reconciled total followed by their items, then the total
// printed on the receipt.
func ShareText(b *models.Breakdown, money *Money) string {
	var sb strings.Builder
	sb.WriteString("Bill Split Breakdown:\n\n")

	for i, share := range b.Shares {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(share.Participant.Name)
		sb.WriteString(": ")
		sb.WriteString(money.Format(share.RoundedTotal))
		for _, item := range share.Items {
			sb.WriteString("\n  • ")
			sb.WriteString(item.Name)
			sb.WriteString(": ")
			sb.WriteString(money.Format(item.Price))
		}
	}

	sb.WriteString("\n\nTotal: ")
	sb.WriteString(money.Format(b.ReceiptTotal))
	return sb.String()
}
