package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

// settleThreshold ignores leftovers smaller than one cent.
var settleThreshold = decimal.New(1, -2)

// MemberBalance represents the balance information for one trip member.
type MemberBalance struct {
	ParticipantID string
	NetBalance    decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid     decimal.Decimal // Total of the bills this person paid
	TotalOwed     decimal.Decimal // Sum of this person's shares
}

// DebtEdge represents a payment one person should make to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// CalculateTripBalances computes balances across the finalized bills of a
// trip and a simplified list of payments that settles them.
//
// Algorithm:
// - For each bill with a payer: payer contributed +total, each participant owes their share
// - Aggregate: net_balance = total_paid - total_owed
// - Payments: greedy matching of debtors against creditors, largest first
//
// Bills without a payer are skipped. Results are sorted by participant ID so
// the output is stable.
func CalculateTripBalances(bills []models.BillSummary) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	get := func(id string) *MemberBalance {
		if _, exists := balances[id]; !exists {
			balances[id] = &MemberBalance{ParticipantID: id}
		}
		return balances[id]
	}

	for _, bill := range bills {
		if bill.PayerID == "" {
			continue
		}
		payer := get(bill.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(bill.Total)

		for participantID, share := range bill.Shares {
			member := get(participantID)
			member.TotalOwed = member.TotalOwed.Add(share)
		}
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		memberBalances = append(memberBalances, *bal)
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].ParticipantID < memberBalances[j].ParticipantID
	})

	var creditors, debtors []MemberBalance
	for _, bal := range memberBalances {
		if bal.NetBalance.IsPositive() {
			creditors = append(creditors, bal)
		} else if bal.NetBalance.IsNegative() {
			debtors = append(debtors, bal)
		}
	}
	// Largest amounts first; the stable sort keeps ID order for ties.
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].NetBalance.GreaterThan(creditors[j].NetBalance)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].NetBalance.LessThan(debtors[j].NetBalance)
	})

	debtorBalance := make(map[string]decimal.Decimal, len(debtors))
	creditorBalance := make(map[string]decimal.Decimal, len(creditors))
	for _, debtor := range debtors {
		debtorBalance[debtor.ParticipantID] = debtor.NetBalance.Neg()
	}
	for _, creditor := range creditors {
		creditorBalance[creditor.ParticipantID] = creditor.NetBalance
	}

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i].ParticipantID
		creditor := creditors[j].ParticipantID

		amount := decimal.Min(debtorBalance[debtor], creditorBalance[creditor])
		if amount.GreaterThanOrEqual(settleThreshold) {
			edges = append(edges, DebtEdge{From: debtor, To: creditor, Amount: amount})
		}

		debtorBalance[debtor] = debtorBalance[debtor].Sub(amount)
		creditorBalance[creditor] = creditorBalance[creditor].Sub(amount)

		if debtorBalance[debtor].LessThan(settleThreshold) {
			i++
		}
		if creditorBalance[creditor].LessThan(settleThreshold) {
			j++
		}
	}

	return memberBalances, edges
}
