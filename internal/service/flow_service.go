package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/shirleyamir/snap-split-cozy/internal/calculator"
	"github.com/shirleyamir/snap-split-cozy/internal/config"
	"github.com/shirleyamir/snap-split-cozy/internal/export"
	"github.com/shirleyamir/snap-split-cozy/internal/metrics"
	"github.com/shirleyamir/snap-split-cozy/internal/middleware"
	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/session"
	"github.com/shirleyamir/snap-split-cozy/pkg/api"
	"github.com/shirleyamir/snap-split-cozy/pkg/api/apiconnect"
)

// Settings are the defaults applied to new sessions.
type Settings struct {
	Currency string
	Locale   string
	// Places is the precision shares are reconciled to and displayed with.
	// Negative uses the currency's standard minor unit.
	Places        int
	DefaultRoster []string
}

// SettingsFromConfig maps the session section of the server config.
func SettingsFromConfig(c config.SessionConfig) Settings {
	return Settings{
		Currency:      c.Currency,
		Locale:        c.Locale,
		Places:        c.Places,
		DefaultRoster: c.DefaultRoster,
	}
}

// FlowService implements the Connect SplitFlowService.
//
// It keeps no state: the session arrives in the request context (decoded by
// middleware.RequireSession) and leaves as a fresh token in the
// Session-Token response header.
type FlowService struct {
	tokens   *session.Manager
	settings Settings
	metrics  *metrics.Metrics
}

var _ apiconnect.SplitFlowServiceHandler = (*FlowService)(nil)

// NewFlowService creates a FlowService. m may be nil.
func NewFlowService(tokens *session.Manager, settings Settings, m *metrics.Metrics) *FlowService {
	return &FlowService{
		tokens:   tokens,
		settings: settings,
		metrics:  m,
	}
}

// OpenProcedures lists the procedures that run without a session token.
var OpenProcedures = []string{apiconnect.SplitFlowServiceStartSessionProcedure}

// Interceptors returns the chain the service is mounted with. Metrics runs
// first so rejected tokens are counted too; logging runs last so it sees
// the decoded session.
func Interceptors(tokens *session.Manager, m *metrics.Metrics) connect.Option {
	return connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireSession(tokens, OpenProcedures...),
		middleware.LoggingInterceptor(),
	)
}

// StartSession creates a session for an analyzed receipt.
func (s *FlowService) StartSession(ctx context.Context, req *connect.Request[api.StartSessionRequest]) (*connect.Response[api.StartSessionResponse], error) {
	currency := s.settings.Currency
	if req.Msg.Currency != "" {
		currency = req.Msg.Currency
	}
	money, err := s.money(currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	names := req.Msg.Roster
	if len(names) == 0 {
		names = s.settings.DefaultRoster
	}
	roster := make([]session.RosterEntry, len(names))
	for i, name := range names {
		roster[i] = session.RosterEntry{Name: name}
	}

	sess, err := session.Start(money.Currency(), roster, req.Msg.Receipt.ToModel())
	if err != nil {
		return nil, toConnectError(err)
	}

	items := 0
	if sess.Receipt != nil {
		items = len(sess.Receipt.Items)
	}
	slog.Info("Session started",
		"session_id", sess.ID,
		"currency", sess.Currency,
		"roster", len(sess.Roster),
		"items", items,
	)

	return respond(s, sess, &api.StartSessionResponse{Session: toAPISession(sess)})
}

// SetReceipt replaces the receipt of the current session.
func (s *FlowService) SetReceipt(ctx context.Context, req *connect.Request[api.SetReceiptRequest]) (*connect.Response[api.SetReceiptResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Receipt == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("receipt is required"))
	}

	next := session.WithReceipt(sess, req.Msg.Receipt.ToModel())
	return respond(s, next, &api.SetReceiptResponse{Session: toAPISession(next)})
}

// GetSession returns the current session and refreshes its token.
func (s *FlowService) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s, sess, &api.GetSessionResponse{Session: toAPISession(sess)})
}

// AddRosterMember adds a person to the roster.
func (s *FlowService) AddRosterMember(ctx context.Context, req *connect.Request[api.AddRosterMemberRequest]) (*connect.Response[api.AddRosterMemberResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	next, p, err := session.AddRosterMember(sess, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Debug("Roster member added", "session_id", next.ID, "participant_id", p.ID)

	return respond(s, next, &api.AddRosterMemberResponse{
		Participant: toAPIParticipant(p),
		Session:     toAPISession(next),
	})
}

// RemoveRosterMember removes a person from the roster.
func (s *FlowService) RemoveRosterMember(ctx context.Context, req *connect.Request[api.RemoveRosterMemberRequest]) (*connect.Response[api.RemoveRosterMemberResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	next, err := session.RemoveRosterMember(sess, req.Msg.ParticipantID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return respond(s, next, &api.RemoveRosterMemberResponse{Session: toAPISession(next)})
}

// SelectParticipants sets who takes part in the current receipt.
func (s *FlowService) SelectParticipants(ctx context.Context, req *connect.Request[api.SelectParticipantsRequest]) (*connect.Response[api.SelectParticipantsResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	next, err := session.SelectParticipants(sess, req.Msg.ParticipantIDs)
	if err != nil {
		return nil, toConnectError(err)
	}
	return respond(s, next, &api.SelectParticipantsResponse{Session: toAPISession(next)})
}

// AssignItem assigns an item to a selected participant, or clears it when
// no participant is given.
func (s *FlowService) AssignItem(ctx context.Context, req *connect.Request[api.AssignItemRequest]) (*connect.Response[api.AssignItemResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	var next models.Session
	if req.Msg.ParticipantID == "" {
		next, err = session.UnassignItem(sess, req.Msg.ItemIndex)
	} else {
		next, err = session.AssignItem(sess, req.Msg.ItemIndex, req.Msg.ParticipantID)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	return respond(s, next, &api.AssignItemResponse{
		Status:  toAPIStatus(next),
		Session: toAPISession(next),
	})
}

// ComputeBreakdown computes each selected participant's share.
func (s *FlowService) ComputeBreakdown(ctx context.Context, req *connect.Request[api.ComputeBreakdownRequest]) (*connect.Response[api.ComputeBreakdownResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	b, money, err := s.breakdown(sess)
	if err != nil {
		return nil, err
	}
	return respond(s, sess, &api.ComputeBreakdownResponse{Breakdown: toAPIBreakdown(b, money)})
}

// ExportBreakdown renders the breakdown as share text or an XLSX workbook.
func (s *FlowService) ExportBreakdown(ctx context.Context, req *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	format := req.Msg.Format
	if format == "" {
		format = api.FormatText
	}
	if format != api.FormatText && format != api.FormatXLSX {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unsupported export format %q", format))
	}

	b, money, err := s.breakdown(sess)
	if err != nil {
		return nil, err
	}

	res := &api.ExportBreakdownResponse{Format: format}
	switch format {
	case api.FormatText:
		res.ContentType = "text/plain; charset=utf-8"
		res.Text = export.ShareText(b, money)
	case api.FormatXLSX:
		data, err := export.Workbook(b, money)
		if err != nil {
			slog.Error("Workbook export failed", "session_id", sess.ID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		res.ContentType = export.XLSXContentType
		res.Filename = fmt.Sprintf("split-%s.xlsx", shortID(sess.ID))
		res.Data = data
	}
	return respond(s, sess, res)
}

// FinalizeBill records the current receipt on the trip and clears it.
func (s *FlowService) FinalizeBill(ctx context.Context, req *connect.Request[api.FinalizeBillRequest]) (*connect.Response[api.FinalizeBillResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	money, err := s.money(sess.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	next, bill, err := session.Finalize(sess, req.Msg.Title, req.Msg.PayerID, money.Places())
	if err != nil {
		return nil, toConnectError(err)
	}
	s.metrics.BillFinalized()
	slog.Info("Bill finalized",
		"session_id", next.ID,
		"bill_id", bill.ID,
		"title", bill.Title,
		"total", bill.Total.String(),
	)

	return respond(s, next, &api.FinalizeBillResponse{
		Bill:    toAPIBill(bill),
		Session: toAPISession(next),
	})
}

// GetTripSummary lists the finalized bills with balances and the payments
// that settle them.
func (s *FlowService) GetTripSummary(ctx context.Context, req *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	balances, edges := calculator.CalculateTripBalances(sess.Trip.Bills)
	bills := make([]api.Bill, len(sess.Trip.Bills))
	for i, b := range sess.Trip.Bills {
		bills[i] = toAPIBill(b)
	}

	return respond(s, sess, &api.GetTripSummaryResponse{
		Bills:      bills,
		TotalSpent: sess.Trip.TotalSpent(),
		Balances:   toAPIBalances(sess, balances),
		Debts:      toAPIDebts(edges),
	})
}

func (s *FlowService) breakdown(sess models.Session) (*models.Breakdown, *export.Money, error) {
	money, err := s.money(sess.Currency)
	if err != nil {
		return nil, nil, connect.NewError(connect.CodeInternal, err)
	}

	b, err := session.Breakdown(sess, money.Places())
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	s.metrics.BreakdownComputed()

	slog.Debug("Breakdown computed",
		"session_id", sess.ID,
		"participants", len(b.Shares),
		"allocated", b.RoundedAllocated.String(),
		"discrepancy", b.Discrepancy.String(),
	)
	if !b.Discrepancy.IsZero() {
		slog.Warn("Receipt does not balance",
			"session_id", sess.ID,
			"discrepancy", b.Discrepancy.String(),
		)
	}
	return b, money, nil
}

// money returns the formatter for code in the configured locale and
// precision.
func (s *FlowService) money(code string) (*export.Money, error) {
	m, err := export.NewMoney(code, s.settings.Locale)
	if err != nil {
		return nil, err
	}
	return m.WithPlaces(s.settings.Places), nil
}

// respond wraps msg and attaches the token for sess.
func respond[T any](s *FlowService, sess models.Session, msg *T) (*connect.Response[T], error) {
	token, err := s.tokens.Encode(sess)
	if err != nil {
		slog.Error("Failed to encode session", "session_id", sess.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	res := connect.NewResponse(msg)
	res.Header().Set(api.SessionHeader, token)
	return res, nil
}

// current returns the session decoded by the session interceptor.
func current(ctx context.Context) (models.Session, error) {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return models.Session{}, middleware.RedirectError(session.ErrMissingToken)
	}
	return sess, nil
}

// toConnectError maps flow errors to Connect codes. Missing state sends the
// client back to the entry screen; an incomplete assignment keeps it on the
// assignment screen.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, session.ErrMissingState):
		return middleware.RedirectError(err)
	case errors.Is(err, calculator.ErrIncompleteAssignment):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, session.ErrEmptyName),
		errors.Is(err, session.ErrUnknownParticipant),
		errors.Is(err, session.ErrNoSelection),
		errors.Is(err, session.ErrNotSelected),
		errors.Is(err, session.ErrItemOutOfRange),
		errors.Is(err, calculator.ErrZeroSubtotal),
		errors.Is(err, calculator.ErrInvalidAssignment),
		errors.Is(err, calculator.ErrNoParticipants):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
