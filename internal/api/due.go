package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const DueServiceName = packageName + ".DueService"

const (
	DueServiceCreateDueGroupProcedure = "/" + DueServiceName + "/CreateDueGroup"
	DueServiceListDueGroupsProcedure  = "/" + DueServiceName + "/ListDueGroups"
	DueServiceDeleteDueGroupProcedure = "/" + DueServiceName + "/DeleteDueGroup"
	DueServiceAddDueProcedure         = "/" + DueServiceName + "/AddDue"
	DueServiceUpdateDueProcedure      = "/" + DueServiceName + "/UpdateDue"
	DueServiceDeleteDueProcedure      = "/" + DueServiceName + "/DeleteDue"
	DueServiceListDuesProcedure       = "/" + DueServiceName + "/ListDues"
)

// DueServiceHandler manages a user's private lent/borrowed ledgers.
type DueServiceHandler interface {
	CreateDueGroup(context.Context, *connect.Request[CreateDueGroupRequest]) (*connect.Response[CreateDueGroupResponse], error)
	ListDueGroups(context.Context, *connect.Request[ListDueGroupsRequest]) (*connect.Response[ListDueGroupsResponse], error)
	DeleteDueGroup(context.Context, *connect.Request[DeleteDueGroupRequest]) (*connect.Response[DeleteDueGroupResponse], error)
	AddDue(context.Context, *connect.Request[AddDueRequest]) (*connect.Response[AddDueResponse], error)
	UpdateDue(context.Context, *connect.Request[UpdateDueRequest]) (*connect.Response[UpdateDueResponse], error)
	DeleteDue(context.Context, *connect.Request[DeleteDueRequest]) (*connect.Response[DeleteDueResponse], error)
	ListDues(context.Context, *connect.Request[ListDuesRequest]) (*connect.Response[ListDuesResponse], error)
}

func NewDueServiceHandler(svc DueServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, DueServiceCreateDueGroupProcedure, svc.CreateDueGroup, o)
	handle(mux, DueServiceListDueGroupsProcedure, svc.ListDueGroups, o)
	handle(mux, DueServiceDeleteDueGroupProcedure, svc.DeleteDueGroup, o)
	handle(mux, DueServiceAddDueProcedure, svc.AddDue, o)
	handle(mux, DueServiceUpdateDueProcedure, svc.UpdateDue, o)
	handle(mux, DueServiceDeleteDueProcedure, svc.DeleteDue, o)
	handle(mux, DueServiceListDuesProcedure, svc.ListDues, o)
	return "/" + DueServiceName + "/", mux
}

type DueServiceClient struct {
	createDueGroup *connect.Client[CreateDueGroupRequest, CreateDueGroupResponse]
	listDueGroups  *connect.Client[ListDueGroupsRequest, ListDueGroupsResponse]
	deleteDueGroup *connect.Client[DeleteDueGroupRequest, DeleteDueGroupResponse]
	addDue         *connect.Client[AddDueRequest, AddDueResponse]
	updateDue      *connect.Client[UpdateDueRequest, UpdateDueResponse]
	deleteDue      *connect.Client[DeleteDueRequest, DeleteDueResponse]
	listDues       *connect.Client[ListDuesRequest, ListDuesResponse]
}

func NewDueServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DueServiceClient {
	o := clientOptions(opts)
	return &DueServiceClient{
		createDueGroup: newClient[CreateDueGroupRequest, CreateDueGroupResponse](httpClient, baseURL, DueServiceCreateDueGroupProcedure, o),
		listDueGroups:  newClient[ListDueGroupsRequest, ListDueGroupsResponse](httpClient, baseURL, DueServiceListDueGroupsProcedure, o),
		deleteDueGroup: newClient[DeleteDueGroupRequest, DeleteDueGroupResponse](httpClient, baseURL, DueServiceDeleteDueGroupProcedure, o),
		addDue:         newClient[AddDueRequest, AddDueResponse](httpClient, baseURL, DueServiceAddDueProcedure, o),
		updateDue:      newClient[UpdateDueRequest, UpdateDueResponse](httpClient, baseURL, DueServiceUpdateDueProcedure, o),
		deleteDue:      newClient[DeleteDueRequest, DeleteDueResponse](httpClient, baseURL, DueServiceDeleteDueProcedure, o),
		listDues:       newClient[ListDuesRequest, ListDuesResponse](httpClient, baseURL, DueServiceListDuesProcedure, o),
	}
}

func (c *DueServiceClient) CreateDueGroup(ctx context.Context, req *connect.Request[CreateDueGroupRequest]) (*connect.Response[CreateDueGroupResponse], error) {
	return c.createDueGroup.CallUnary(ctx, req)
}

func (c *DueServiceClient) ListDueGroups(ctx context.Context, req *connect.Request[ListDueGroupsRequest]) (*connect.Response[ListDueGroupsResponse], error) {
	return c.listDueGroups.CallUnary(ctx, req)
}

func (c *DueServiceClient) DeleteDueGroup(ctx context.Context, req *connect.Request[DeleteDueGroupRequest]) (*connect.Response[DeleteDueGroupResponse], error) {
	return c.deleteDueGroup.CallUnary(ctx, req)
}

func (c *DueServiceClient) AddDue(ctx context.Context, req *connect.Request[AddDueRequest]) (*connect.Response[AddDueResponse], error) {
	return c.addDue.CallUnary(ctx, req)
}

func (c *DueServiceClient) UpdateDue(ctx context.Context, req *connect.Request[UpdateDueRequest]) (*connect.Response[UpdateDueResponse], error) {
	return c.updateDue.CallUnary(ctx, req)
}

func (c *DueServiceClient) DeleteDue(ctx context.Context, req *connect.Request[DeleteDueRequest]) (*connect.Response[DeleteDueResponse], error) {
	return c.deleteDue.CallUnary(ctx, req)
}

func (c *DueServiceClient) ListDues(ctx context.Context, req *connect.Request[ListDuesRequest]) (*connect.Response[ListDuesResponse], error) {
	return c.listDues.CallUnary(ctx, req)
}
