package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const GroupServiceName = packageName + ".GroupService"

const (
	GroupServiceListGroupsProcedure         = "/" + GroupServiceName + "/ListGroups"
	GroupServiceCreateGroupProcedure        = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceListMembersProcedure        = "/" + GroupServiceName + "/ListMembers"
	GroupServiceCreateExpenseGroupProcedure = "/" + GroupServiceName + "/CreateExpenseGroup"
	GroupServiceListExpenseGroupsProcedure  = "/" + GroupServiceName + "/ListExpenseGroups"
	GroupServiceGetExpenseGroupProcedure    = "/" + GroupServiceName + "/GetExpenseGroup"
	GroupServiceDeleteExpenseGroupProcedure = "/" + GroupServiceName + "/DeleteExpenseGroup"
)

// GroupServiceHandler manages households and their expense groups.
type GroupServiceHandler interface {
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	CreateExpenseGroup(context.Context, *connect.Request[CreateExpenseGroupRequest]) (*connect.Response[CreateExpenseGroupResponse], error)
	ListExpenseGroups(context.Context, *connect.Request[ListExpenseGroupsRequest]) (*connect.Response[ListExpenseGroupsResponse], error)
	GetExpenseGroup(context.Context, *connect.Request[GetExpenseGroupRequest]) (*connect.Response[GetExpenseGroupResponse], error)
	DeleteExpenseGroup(context.Context, *connect.Request[DeleteExpenseGroupRequest]) (*connect.Response[DeleteExpenseGroupResponse], error)
}

func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, GroupServiceListGroupsProcedure, svc.ListGroups, o)
	handle(mux, GroupServiceCreateGroupProcedure, svc.CreateGroup, o)
	handle(mux, GroupServiceListMembersProcedure, svc.ListMembers, o)
	handle(mux, GroupServiceCreateExpenseGroupProcedure, svc.CreateExpenseGroup, o)
	handle(mux, GroupServiceListExpenseGroupsProcedure, svc.ListExpenseGroups, o)
	handle(mux, GroupServiceGetExpenseGroupProcedure, svc.GetExpenseGroup, o)
	handle(mux, GroupServiceDeleteExpenseGroupProcedure, svc.DeleteExpenseGroup, o)
	return "/" + GroupServiceName + "/", mux
}

type GroupServiceClient struct {
	listGroups         *connect.Client[ListGroupsRequest, ListGroupsResponse]
	createGroup        *connect.Client[CreateGroupRequest, CreateGroupResponse]
	listMembers        *connect.Client[ListMembersRequest, ListMembersResponse]
	createExpenseGroup *connect.Client[CreateExpenseGroupRequest, CreateExpenseGroupResponse]
	listExpenseGroups  *connect.Client[ListExpenseGroupsRequest, ListExpenseGroupsResponse]
	getExpenseGroup    *connect.Client[GetExpenseGroupRequest, GetExpenseGroupResponse]
	deleteExpenseGroup *connect.Client[DeleteExpenseGroupRequest, DeleteExpenseGroupResponse]
}

func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	o := clientOptions(opts)
	return &GroupServiceClient{
		listGroups:         newClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, o),
		createGroup:        newClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, o),
		listMembers:        newClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL, GroupServiceListMembersProcedure, o),
		createExpenseGroup: newClient[CreateExpenseGroupRequest, CreateExpenseGroupResponse](httpClient, baseURL, GroupServiceCreateExpenseGroupProcedure, o),
		listExpenseGroups:  newClient[ListExpenseGroupsRequest, ListExpenseGroupsResponse](httpClient, baseURL, GroupServiceListExpenseGroupsProcedure, o),
		getExpenseGroup:    newClient[GetExpenseGroupRequest, GetExpenseGroupResponse](httpClient, baseURL, GroupServiceGetExpenseGroupProcedure, o),
		deleteExpenseGroup: newClient[DeleteExpenseGroupRequest, DeleteExpenseGroupResponse](httpClient, baseURL, GroupServiceDeleteExpenseGroupProcedure, o),
	}
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *GroupServiceClient) CreateExpenseGroup(ctx context.Context, req *connect.Request[CreateExpenseGroupRequest]) (*connect.Response[CreateExpenseGroupResponse], error) {
	return c.createExpenseGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListExpenseGroups(ctx context.Context, req *connect.Request[ListExpenseGroupsRequest]) (*connect.Response[ListExpenseGroupsResponse], error) {
	return c.listExpenseGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetExpenseGroup(ctx context.Context, req *connect.Request[GetExpenseGroupRequest]) (*connect.Response[GetExpenseGroupResponse], error) {
	return c.getExpenseGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteExpenseGroup(ctx context.Context, req *connect.Request[DeleteExpenseGroupRequest]) (*connect.Response[DeleteExpenseGroupResponse], error) {
	return c.deleteExpenseGroup.CallUnary(ctx, req)
}
