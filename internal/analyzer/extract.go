package analyzer

import (
	"encoding/json"
	"log/slog"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

// SentinelItemName names the only item of the placeholder receipt.
const SentinelItemName = "Unable to parse receipt"

// jsonObject spans the first '{' through the last '}' of the reply.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Sentinel returns the placeholder receipt used when a reply cannot be read.
func Sentinel() *models.Receipt {
	return &models.Receipt{
		Items: []models.ReceiptItem{
			{Name: SentinelItemName, Price: decimal.Zero, Quantity: 1},
		},
		Tax:   decimal.Zero,
		Tip:   decimal.Zero,
		Total: decimal.Zero,
	}
}

// IsSentinel reports whether r is the placeholder receipt.
func IsSentinel(r *models.Receipt) bool {
	return r != nil &&
		len(r.Items) == 1 &&
		r.Items[0].Name == SentinelItemName &&
		r.Items[0].Price.IsZero() &&
		r.Total.IsZero()
}

// ExtractReceipt decodes the JSON object embedded in a model reply. It
// returns the placeholder receipt and false when there is none or it does
// not decode.
func ExtractReceipt(reply string) (*models.Receipt, bool) {
	match := jsonObject.FindString(reply)
	if match == "" {
		slog.Warn("No JSON found in analysis reply", "reply", truncate(reply, 500))
		return Sentinel(), false
	}

	var wire api.Receipt
	if err := json.Unmarshal([]byte(match), &wire); err != nil {
		slog.Warn("Analysis reply is not a receipt",
			"error", err,
			"reply", truncate(match, 500),
		)
		return Sentinel(), false
	}

	return wire.ToModel(), true
}
