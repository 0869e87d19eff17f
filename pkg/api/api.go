// Package api defines the JSON messages of the snap-split service.
//
// The split flow is served as a Connect service (see package apiconnect)
// whose messages are the plain structs below, encoded as JSON. The same
// Receipt shape is returned by the receipt analysis relay.
package api

import "github.com/shopspring/decimal"

const (
	// SessionHeader carries the signed session token on requests and responses.
	SessionHeader = "Session-Token"

	// RedirectHeader is set on errors that send the client back to the entry
	// screen.
	RedirectHeader = "Redirect-To"

	// ParsedHeader is "false" on relay responses that carry the placeholder
	// receipt instead of a parsed one.
	ParsedHeader = "X-Receipt-Parsed"
)

// Export formats.
const (
	FormatText = "text"
	FormatXLSX = "xlsx"
)

// ReceiptItem is one receipt line.
type ReceiptItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity,omitempty"`
}

// Receipt is an analyzed receipt. Charges left out of the JSON are zero;
// a missing subtotal makes the total the allocation base.
type Receipt struct {
	Items         []ReceiptItem    `json:"items"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	Tax           *decimal.Decimal `json:"tax,omitempty"`
	ServiceCharge *decimal.Decimal `json:"serviceCharge,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	Tip           *decimal.Decimal `json:"tip,omitempty"`
	Total         decimal.Decimal  `json:"total"`
}

type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ItemAssignment struct {
	ItemIndex     int    `json:"itemIndex"`
	ParticipantID string `json:"participantId"`
}

// AssignmentStatus drives the "Assign N more items" gate.
type AssignmentStatus struct {
	Assigned   int   `json:"assigned"`
	Remaining  int   `json:"remaining"`
	Complete   bool  `json:"complete"`
	Unassigned []int `json:"unassigned"`
}

// Session is the client view of the split flow state.
type Session struct {
	ID          string           `json:"id"`
	Currency    string           `json:"currency"`
	Roster      []Participant    `json:"roster"`
	Receipt     *Receipt         `json:"receipt,omitempty"`
	Selected    []string         `json:"selected"`
	Assignments []ItemAssignment `json:"assignments"`
	Status      AssignmentStatus `json:"status"`
	BillCount   int              `json:"billCount"`
}

type ShareItem struct {
	ItemIndex int             `json:"itemIndex"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// PersonShare is one participant's part of a breakdown. Total is exact;
// RoundedTotal is rounded to the currency and reconciled across shares.
type PersonShare struct {
	Participant   Participant     `json:"participant"`
	Items         []ShareItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Fraction      decimal.Decimal `json:"fraction"`
	TaxShare      decimal.Decimal `json:"taxShare"`
	ServiceShare  decimal.Decimal `json:"serviceShare"`
	DiscountShare decimal.Decimal `json:"discountShare"`
	Total         decimal.Decimal `json:"total"`
	RoundedTotal  decimal.Decimal `json:"roundedTotal"`
	Display       string          `json:"display"`
}

type Breakdown struct {
	Currency         string          `json:"currency"`
	Shares           []PersonShare   `json:"shares"`
	Base             decimal.Decimal `json:"base"`
	Allocated        decimal.Decimal `json:"allocated"`
	RoundedAllocated decimal.Decimal `json:"roundedAllocated"`
	UnallocatedTip   decimal.Decimal `json:"unallocatedTip"`
	ReceiptTotal     decimal.Decimal `json:"receiptTotal"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
}

type Bill struct {
	ID        string                     `json:"id"`
	Title     string                     `json:"title"`
	Total     decimal.Decimal            `json:"total"`
	PayerID   string                     `json:"payerId,omitempty"`
	Shares    map[string]decimal.Decimal `json:"shares"`
	CreatedAt int64                      `json:"createdAt"`
}

type MemberBalance struct {
	ParticipantID string          `json:"participantId"`
	Name          string          `json:"name"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`
}

type Debt struct {
	FromID string          `json:"fromId"`
	ToID   string          `json:"toId"`
	Amount decimal.Decimal `json:"amount"`
}

type StartSessionRequest struct {
	Receipt *Receipt `json:"receipt"`
	// Roster names; the configured default roster is used when empty.
	Roster []string `json:"roster,omitempty"`
	// Currency overrides the configured ISO 4217 code.
	Currency string `json:"currency,omitempty"`
}

type StartSessionResponse struct {
	Session Session `json:"session"`
}

type SetReceiptRequest struct {
	Receipt *Receipt `json:"receipt"`
}

type SetReceiptResponse struct {
	Session Session `json:"session"`
}

type GetSessionRequest struct{}

type GetSessionResponse struct {
	Session Session `json:"session"`
}

type AddRosterMemberRequest struct {
	Name string `json:"name"`
}

type AddRosterMemberResponse struct {
	Participant Participant `json:"participant"`
	Session     Session     `json:"session"`
}

type RemoveRosterMemberRequest struct {
	ParticipantID string `json:"participantId"`
}

type RemoveRosterMemberResponse struct {
	Session Session `json:"session"`
}

type SelectParticipantsRequest struct {
	ParticipantIDs []string `json:"participantIds"`
}

type SelectParticipantsResponse struct {
	Session Session `json:"session"`
}

// AssignItemRequest assigns an item; an empty ParticipantID clears it.
type AssignItemRequest struct {
	ItemIndex     int    `json:"itemIndex"`
	ParticipantID string `json:"participantId"`
}

type AssignItemResponse struct {
	Status  AssignmentStatus `json:"status"`
	Session Session          `json:"session"`
}

type ComputeBreakdownRequest struct{}

type ComputeBreakdownResponse struct {
	Breakdown Breakdown `json:"breakdown"`
}

type ExportBreakdownRequest struct {
	Format string `json:"format"`
}

// ExportBreakdownResponse carries either Text or Data depending on Format.
type ExportBreakdownResponse struct {
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename,omitempty"`
	Text        string `json:"text,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

type FinalizeBillRequest struct {
	Title   string `json:"title,omitempty"`
	PayerID string `json:"payerId,omitempty"`
}

type FinalizeBillResponse struct {
	Bill    Bill    `json:"bill"`
	Session Session `json:"session"`
}

type GetTripSummaryRequest struct{}

type GetTripSummaryResponse struct {
	Bills      []Bill          `json:"bills"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Balances   []MemberBalance `json:"balances"`
	Debts      []Debt          `json:"debts"`
}

// ErrorResponse is the body of relay errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
