package service

import (
	"sort"

	"github.com/shirleyamir/snap-split-cozy/internal/calculator"
	"github.com/shirleyamir/snap-split-cozy/internal/export"
	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/session"
	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

func toAPIParticipant(p models.Participant) api.Participant {
	return api.Participant{ID: p.ID, Name: p.Name, Color: p.Color}
}

func toAPIStatus(s models.Session) api.AssignmentStatus {
	st := session.AssignmentStatus(s)
	status := api.AssignmentStatus{
		Assigned:   st.Assigned,
		Remaining:  st.Remaining,
		Complete:   st.Complete,
		Unassigned: []int{},
	}
	if s.Receipt != nil {
		if missing := s.Assignment.Unassigned(len(s.Receipt.Items)); len(missing) > 0 {
			status.Unassigned = missing
		}
	}
	return status
}

func toAPISession(s models.Session) api.Session {
	out := api.Session{
		ID:          s.ID,
		Currency:    s.Currency,
		Roster:      make([]api.Participant, len(s.Roster)),
		Receipt:     api.ReceiptFromModel(s.Receipt),
		Selected:    append([]string{}, s.Selected...),
		Assignments: make([]api.ItemAssignment, 0, len(s.Assignment)),
		Status:      toAPIStatus(s),
		BillCount:   len(s.Trip.Bills),
	}
	for i, p := range s.Roster {
		out.Roster[i] = toAPIParticipant(p)
	}
	for index, participantID := range s.Assignment {
		if participantID == "" {
			continue
		}
		out.Assignments = append(out.Assignments, api.ItemAssignment{
			ItemIndex:     index,
			ParticipantID: participantID,
		})
	}
	sort.Slice(out.Assignments, func(i, j int) bool {
		return out.Assignments[i].ItemIndex < out.Assignments[j].ItemIndex
	})
	return out
}

func toAPIBreakdown(b *models.Breakdown, money *export.Money) api.Breakdown {
	out := api.Breakdown{
		Currency:         money.Currency(),
		Shares:           make([]api.PersonShare, len(b.Shares)),
		Base:             b.Base,
		Allocated:        b.Allocated,
		RoundedAllocated: b.RoundedAllocated,
		UnallocatedTip:   b.UnallocatedTip,
		ReceiptTotal:     b.ReceiptTotal,
		Discrepancy:      b.Discrepancy,
	}
	for i, share := range b.Shares {
		items := make([]api.ShareItem, len(share.Items))
		for j, item := range share.Items {
			items[j] = api.ShareItem{ItemIndex: item.Index, Name: item.Name, Price: item.Price}
		}
		out.Shares[i] = api.PersonShare{
			Participant:   toAPIParticipant(share.Participant),
			Items:         items,
			Subtotal:      share.Subtotal,
			Fraction:      share.Fraction,
			TaxShare:      share.Tax,
			ServiceShare:  share.ServiceCharge,
			DiscountShare: share.Discount,
			Total:         share.Total,
			RoundedTotal:  share.RoundedTotal,
			Display:       money.Format(share.RoundedTotal),
		}
	}
	return out
}

func toAPIBill(b models.BillSummary) api.Bill {
	return api.Bill{
		ID:        b.ID,
		Title:     b.Title,
		Total:     b.Total,
		PayerID:   b.PayerID,
		Shares:    b.Shares,
		CreatedAt: b.CreatedAt,
	}
}

func toAPIBalances(s models.Session, balances []calculator.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(balances))
	for i, bal := range balances {
		name := bal.ParticipantID
		if p, ok := s.Participant(bal.ParticipantID); ok {
			name = p.Name
		}
		out[i] = api.MemberBalance{
			ParticipantID: bal.ParticipantID,
			Name:          name,
			NetBalance:    bal.NetBalance,
			TotalPaid:     bal.TotalPaid,
			TotalOwed:     bal.TotalOwed,
		}
	}
	return out
}

func toAPIDebts(edges []calculator.DebtEdge) []api.Debt {
	out := make([]api.Debt, len(edges))
	for i, e := range edges {
		out[i] = api.Debt{FromID: e.From, ToID: e.To, Amount: e.Amount}
	}
	return out
}
