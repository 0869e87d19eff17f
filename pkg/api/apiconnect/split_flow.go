// Package apiconnect wires the messages of package api into a Connect
// service, in the shape protoc-gen-connect-go would produce for it.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

// SplitFlowServiceName is the fully-qualified name of the SplitFlowService service.
const SplitFlowServiceName = "snapsplit.v1.SplitFlowService"

// These constants are the fully-qualified names of the RPCs defined in this package. They're
// exposed at runtime as Spec.Procedure and as the final two segments of the HTTP route.
const (
	SplitFlowServiceStartSessionProcedure       = "/snapsplit.v1.SplitFlowService/StartSession"
	SplitFlowServiceSetReceiptProcedure         = "/snapsplit.v1.SplitFlowService/SetReceipt"
	SplitFlowServiceGetSessionProcedure         = "/snapsplit.v1.SplitFlowService/GetSession"
	SplitFlowServiceAddRosterMemberProcedure    = "/snapsplit.v1.SplitFlowService/AddRosterMember"
	SplitFlowServiceRemoveRosterMemberProcedure = "/snapsplit.v1.SplitFlowService/RemoveRosterMember"
	SplitFlowServiceSelectParticipantsProcedure = "/snapsplit.v1.SplitFlowService/SelectParticipants"
	SplitFlowServiceAssignItemProcedure         = "/snapsplit.v1.SplitFlowService/AssignItem"
	SplitFlowServiceComputeBreakdownProcedure   = "/snapsplit.v1.SplitFlowService/ComputeBreakdown"
	SplitFlowServiceExportBreakdownProcedure    = "/snapsplit.v1.SplitFlowService/ExportBreakdown"
	SplitFlowServiceFinalizeBillProcedure       = "/snapsplit.v1.SplitFlowService/FinalizeBill"
	SplitFlowServiceGetTripSummaryProcedure     = "/snapsplit.v1.SplitFlowService/GetTripSummary"
)

// SplitFlowServiceClient is a client for the snapsplit.v1.SplitFlowService service.
type SplitFlowServiceClient interface {
	StartSession(context.Context, *connect.Request[api.StartSessionRequest]) (*connect.Response[api.StartSessionResponse], error)
	SetReceipt(context.Context, *connect.Request[api.SetReceiptRequest]) (*connect.Response[api.SetReceiptResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error)
	AddRosterMember(context.Context, *connect.Request[api.AddRosterMemberRequest]) (*connect.Response[api.AddRosterMemberResponse], error)
	RemoveRosterMember(context.Context, *connect.Request[api.RemoveRosterMemberRequest]) (*connect.Response[api.RemoveRosterMemberResponse], error)
	SelectParticipants(context.Context, *connect.Request[api.SelectParticipantsRequest]) (*connect.Response[api.SelectParticipantsResponse], error)
	AssignItem(context.Context, *connect.Request[api.AssignItemRequest]) (*connect.Response[api.AssignItemResponse], error)
	ComputeBreakdown(context.Context, *connect.Request[api.ComputeBreakdownRequest]) (*connect.Response[api.ComputeBreakdownResponse], error)
	ExportBreakdown(context.Context, *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error)
	FinalizeBill(context.Context, *connect.Request[api.FinalizeBillRequest]) (*connect.Response[api.FinalizeBillResponse], error)
	GetTripSummary(context.Context, *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error)
}

// NewSplitFlowServiceClient constructs a client for the snapsplit.v1.SplitFlowService service.
// Requests and responses are JSON encoded.
//
// The URL supplied here should be the base URL for the Connect server (for example,
// http://api.acme.com or https://acme.com/grpc).
func NewSplitFlowServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitFlowServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(opts, connect.WithCodec(jsonCodec{name: "json"}))
	return &splitFlowServiceClient{
		startSession:       connect.NewClient[api.StartSessionRequest, api.StartSessionResponse](httpClient, baseURL+SplitFlowServiceStartSessionProcedure, opts...),
		setReceipt:         connect.NewClient[api.SetReceiptRequest, api.SetReceiptResponse](httpClient, baseURL+SplitFlowServiceSetReceiptProcedure, opts...),
		getSession:         connect.NewClient[api.GetSessionRequest, api.GetSessionResponse](httpClient, baseURL+SplitFlowServiceGetSessionProcedure, opts...),
		addRosterMember:    connect.NewClient[api.AddRosterMemberRequest, api.AddRosterMemberResponse](httpClient, baseURL+SplitFlowServiceAddRosterMemberProcedure, opts...),
		removeRosterMember: connect.NewClient[api.RemoveRosterMemberRequest, api.RemoveRosterMemberResponse](httpClient, baseURL+SplitFlowServiceRemoveRosterMemberProcedure, opts...),
		selectParticipants: connect.NewClient[api.SelectParticipantsRequest, api.SelectParticipantsResponse](httpClient, baseURL+SplitFlowServiceSelectParticipantsProcedure, opts...),
		assignItem:         connect.NewClient[api.AssignItemRequest, api.AssignItemResponse](httpClient, baseURL+SplitFlowServiceAssignItemProcedure, opts...),
		computeBreakdown:   connect.NewClient[api.ComputeBreakdownRequest, api.ComputeBreakdownResponse](httpClient, baseURL+SplitFlowServiceComputeBreakdownProcedure, opts...),
		exportBreakdown:    connect.NewClient[api.ExportBreakdownRequest, api.ExportBreakdownResponse](httpClient, baseURL+SplitFlowServiceExportBreakdownProcedure, opts...),
		finalizeBill:       connect.NewClient[api.FinalizeBillRequest, api.FinalizeBillResponse](httpClient, baseURL+SplitFlowServiceFinalizeBillProcedure, opts...),
		getTripSummary:     connect.NewClient[api.GetTripSummaryRequest, api.GetTripSummaryResponse](httpClient, baseURL+SplitFlowServiceGetTripSummaryProcedure, opts...),
	}
}

// splitFlowServiceClient implements SplitFlowServiceClient.
type splitFlowServiceClient struct {
	startSession       *connect.Client[api.StartSessionRequest, api.StartSessionResponse]
	setReceipt         *connect.Client[api.SetReceiptRequest, api.SetReceiptResponse]
	getSession         *connect.Client[api.GetSessionRequest, api.GetSessionResponse]
	addRosterMember    *connect.Client[api.AddRosterMemberRequest, api.AddRosterMemberResponse]
	removeRosterMember *connect.Client[api.RemoveRosterMemberRequest, api.RemoveRosterMemberResponse]
	selectParticipants *connect.Client[api.SelectParticipantsRequest, api.SelectParticipantsResponse]
	assignItem         *connect.Client[api.AssignItemRequest, api.AssignItemResponse]
	computeBreakdown   *connect.Client[api.ComputeBreakdownRequest, api.ComputeBreakdownResponse]
	exportBreakdown    *connect.Client[api.ExportBreakdownRequest, api.ExportBreakdownResponse]
	finalizeBill       *connect.Client[api.FinalizeBillRequest, api.FinalizeBillResponse]
	getTripSummary     *connect.Client[api.GetTripSummaryRequest, api.GetTripSummaryResponse]
}

// StartSession calls snapsplit.v1.SplitFlowService.StartSession.
func (c *splitFlowServiceClient) StartSession(ctx context.Context, req *connect.Request[api.StartSessionRequest]) (*connect.Response[api.StartSessionResponse], error) {
	return c.startSession.CallUnary(ctx, req)
}

// SetReceipt calls snapsplit.v1.SplitFlowService.SetReceipt.
func (c *splitFlowServiceClient) SetReceipt(ctx context.Context, req *connect.Request[api.SetReceiptRequest]) (*connect.Response[api.SetReceiptResponse], error) {
	return c.setReceipt.CallUnary(ctx, req)
}

// GetSession calls snapsplit.v1.SplitFlowService.GetSession.
func (c *splitFlowServiceClient) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

// AddRosterMember calls snapsplit.v1.SplitFlowService.AddRosterMember.
func (c *splitFlowServiceClient) AddRosterMember(ctx context.Context, req *connect.Request[api.AddRosterMemberRequest]) (*connect.Response[api.AddRosterMemberResponse], error) {
	return c.addRosterMember.CallUnary(ctx, req)
}

// RemoveRosterMember calls snapsplit.v1.SplitFlowService.RemoveRosterMember.
func (c *splitFlowServiceClient) RemoveRosterMember(ctx context.Context, req *connect.Request[api.RemoveRosterMemberRequest]) (*connect.Response[api.RemoveRosterMemberResponse], error) {
	return c.removeRosterMember.CallUnary(ctx, req)
}

// SelectParticipants calls snapsplit.v1.SplitFlowService.SelectParticipants.
func (c *splitFlowServiceClient) SelectParticipants(ctx context.Context, req *connect.Request[api.SelectParticipantsRequest]) (*connect.Response[api.SelectParticipantsResponse], error) {
	return c.selectParticipants.CallUnary(ctx, req)
}

// AssignItem calls snapsplit.v1.SplitFlowService.AssignItem.
func (c *splitFlowServiceClient) AssignItem(ctx context.Context, req *connect.Request[api.AssignItemRequest]) (*connect.Response[api.AssignItemResponse], error) {
	return c.assignItem.CallUnary(ctx, req)
}

// ComputeBreakdown calls snapsplit.v1.SplitFlowService.ComputeBreakdown.
func (c *splitFlowServiceClient) ComputeBreakdown(ctx context.Context, req *connect.Request[api.ComputeBreakdownRequest]) (*connect.Response[api.ComputeBreakdownResponse], error) {
	return c.computeBreakdown.CallUnary(ctx, req)
}

// ExportBreakdown calls snapsplit.v1.SplitFlowService.ExportBreakdown.
func (c *splitFlowServiceClient) ExportBreakdown(ctx context.Context, req *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error) {
	return c.exportBreakdown.CallUnary(ctx, req)
}

// FinalizeBill calls snapsplit.v1.SplitFlowService.FinalizeBill.
func (c *splitFlowServiceClient) FinalizeBill(ctx context.Context, req *connect.Request[api.FinalizeBillRequest]) (*connect.Response[api.FinalizeBillResponse], error) {
	return c.finalizeBill.CallUnary(ctx, req)
}

// GetTripSummary calls snapsplit.v1.SplitFlowService.GetTripSummary.
func (c *splitFlowServiceClient) GetTripSummary(ctx context.Context, req *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	return c.getTripSummary.CallUnary(ctx, req)
}

// SplitFlowServiceHandler is an implementation of the snapsplit.v1.SplitFlowService service.
type SplitFlowServiceHandler interface {
	StartSession(context.Context, *connect.Request[api.StartSessionRequest]) (*connect.Response[api.StartSessionResponse], error)
	SetReceipt(context.Context, *connect.Request[api.SetReceiptRequest]) (*connect.Response[api.SetReceiptResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error)
	AddRosterMember(context.Context, *connect.Request[api.AddRosterMemberRequest]) (*connect.Response[api.AddRosterMemberResponse], error)
	RemoveRosterMember(context.Context, *connect.Request[api.RemoveRosterMemberRequest]) (*connect.Response[api.RemoveRosterMemberResponse], error)
	SelectParticipants(context.Context, *connect.Request[api.SelectParticipantsRequest]) (*connect.Response[api.SelectParticipantsResponse], error)
	AssignItem(context.Context, *connect.Request[api.AssignItemRequest]) (*connect.Response[api.AssignItemResponse], error)
	ComputeBreakdown(context.Context, *connect.Request[api.ComputeBreakdownRequest]) (*connect.Response[api.ComputeBreakdownResponse], error)
	ExportBreakdown(context.Context, *connect.Request[api.ExportBreakdownRequest]) (*connect.Response[api.ExportBreakdownResponse], error)
	FinalizeBill(context.Context, *connect.Request[api.FinalizeBillRequest]) (*connect.Response[api.FinalizeBillResponse], error)
	GetTripSummary(context.Context, *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error)
}

// NewSplitFlowServiceHandler builds an HTTP handler from the service implementation. It returns
// the path on which to mount the handler and the handler itself.
//
// The JSON codec is always installed; opts may add interceptors and other options.
func NewSplitFlowServiceHandler(svc SplitFlowServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, WithJSON())
	startSessionHandler := connect.NewUnaryHandler(SplitFlowServiceStartSessionProcedure, svc.StartSession, opts...)
	setReceiptHandler := connect.NewUnaryHandler(SplitFlowServiceSetReceiptProcedure, svc.SetReceipt, opts...)
	getSessionHandler := connect.NewUnaryHandler(SplitFlowServiceGetSessionProcedure, svc.GetSession, opts...)
	addRosterMemberHandler := connect.NewUnaryHandler(SplitFlowServiceAddRosterMemberProcedure, svc.AddRosterMember, opts...)
	removeRosterMemberHandler := connect.NewUnaryHandler(SplitFlowServiceRemoveRosterMemberProcedure, svc.RemoveRosterMember, opts...)
	selectParticipantsHandler := connect.NewUnaryHandler(SplitFlowServiceSelectParticipantsProcedure, svc.SelectParticipants, opts...)
	assignItemHandler := connect.NewUnaryHandler(SplitFlowServiceAssignItemProcedure, svc.AssignItem, opts...)
	computeBreakdownHandler := connect.NewUnaryHandler(SplitFlowServiceComputeBreakdownProcedure, svc.ComputeBreakdown, opts...)
	exportBreakdownHandler := connect.NewUnaryHandler(SplitFlowServiceExportBreakdownProcedure, svc.ExportBreakdown, opts...)
	finalizeBillHandler := connect.NewUnaryHandler(SplitFlowServiceFinalizeBillProcedure, svc.FinalizeBill, opts...)
	getTripSummaryHandler := connect.NewUnaryHandler(SplitFlowServiceGetTripSummaryProcedure, svc.GetTripSummary, opts...)
	return "/snapsplit.v1.SplitFlowService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitFlowServiceStartSessionProcedure:
			startSessionHandler.ServeHTTP(w, r)
		case SplitFlowServiceSetReceiptProcedure:
			setReceiptHandler.ServeHTTP(w, r)
		case SplitFlowServiceGetSessionProcedure:
			getSessionHandler.ServeHTTP(w, r)
		case SplitFlowServiceAddRosterMemberProcedure:
			addRosterMemberHandler.ServeHTTP(w, r)
		case SplitFlowServiceRemoveRosterMemberProcedure:
			removeRosterMemberHandler.ServeHTTP(w, r)
		case SplitFlowServiceSelectParticipantsProcedure:
			selectParticipantsHandler.ServeHTTP(w, r)
		case SplitFlowServiceAssignItemProcedure:
			assignItemHandler.ServeHTTP(w, r)
		case SplitFlowServiceComputeBreakdownProcedure:
			computeBreakdownHandler.ServeHTTP(w, r)
		case SplitFlowServiceExportBreakdownProcedure:
			exportBreakdownHandler.ServeHTTP(w, r)
		case SplitFlowServiceFinalizeBillProcedure:
			finalizeBillHandler.ServeHTTP(w, r)
		case SplitFlowServiceGetTripSummaryProcedure:
			getTripSummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
