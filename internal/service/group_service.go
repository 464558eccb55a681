package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitroom/internal/api"
	"github.com/mmynk/splitroom/internal/models"
	"github.com/mmynk/splitroom/internal/storage"
)

var _ api.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store   storage.Store
	isAdmin func(email string) bool
	logger  *slog.Logger
}

// NewGroupService creates a GroupService. isAdmin decides who may create
// households and delete expense groups; nil means nobody.
func NewGroupService(store storage.Store, isAdmin func(email string) bool, logger *slog.Logger) *GroupService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{store: store, isAdmin: isAdmin, logger: logger}
}

// ListGroups retrieves all households. It is public so sign-up can offer them.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// CreateGroup creates a new household.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !s.isAdmin(caller.Email) {
		return nil, permissionDenied(errNotAdmin)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	group := &models.Group{Name: name}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "name", group.Name)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListMembers returns the users of the caller's household.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID != "" && req.Msg.GroupID != caller.GroupID {
		return nil, permissionDenied(errNotMember)
	}

	users, err := s.store.ListUsersByGroup(ctx, caller.GroupID)
	if err != nil {
		s.logger.Error("ListMembers failed", "group_id", caller.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	members := make([]api.Member, len(users))
	for i, u := range users {
		members[i] = api.Member{ID: u.ID, DisplayName: u.DisplayName}
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: members}), nil
}

// CreateExpenseGroup creates an expense group in the caller's household.
func (s *GroupService) CreateExpenseGroup(ctx context.Context, req *connect.Request[api.CreateExpenseGroupRequest]) (*connect.Response[api.CreateExpenseGroupResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	description := strings.TrimSpace(req.Msg.Description)
	if name == "" || description == "" {
		return nil, invalidArgument("name and description are required")
	}

	eg := &models.ExpenseGroup{
		GroupID:     caller.GroupID,
		Name:        name,
		Description: description,
		CreatedBy:   caller.UserID,
	}
	if err := s.store.CreateExpenseGroup(ctx, eg); err != nil {
		s.logger.Error("CreateExpenseGroup failed", "group_id", caller.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense group created", "expense_group_id", eg.ID, "group_id", eg.GroupID)
	return connect.NewResponse(&api.CreateExpenseGroupResponse{ExpenseGroup: toAPIExpenseGroup(eg)}), nil
}

// ListExpenseGroups lists the caller's household expense groups, newest first.
func (s *GroupService) ListExpenseGroups(ctx context.Context, req *connect.Request[api.ListExpenseGroupsRequest]) (*connect.Response[api.ListExpenseGroupsResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListExpenseGroups(ctx, caller.GroupID)
	if err != nil {
		s.logger.Error("ListExpenseGroups failed", "group_id", caller.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.ExpenseGroup, len(groups))
	for i, eg := range groups {
		out[i] = toAPIExpenseGroup(eg)
	}
	return connect.NewResponse(&api.ListExpenseGroupsResponse{ExpenseGroups: out}), nil
}

func (s *GroupService) GetExpenseGroup(ctx context.Context, req *connect.Request[api.GetExpenseGroupRequest]) (*connect.Response[api.GetExpenseGroupResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	eg, err := expenseGroupFor(ctx, s.store, caller, req.Msg.ExpenseGroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetExpenseGroupResponse{ExpenseGroup: toAPIExpenseGroup(eg)}), nil
}

// DeleteExpenseGroup removes an expense group with its expenses and payments.
// Only the administrator may do this.
func (s *GroupService) DeleteExpenseGroup(ctx context.Context, req *connect.Request[api.DeleteExpenseGroupRequest]) (*connect.Response[api.DeleteExpenseGroupResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !s.isAdmin(caller.Email) {
		return nil, permissionDenied(errNotAdmin)
	}

	eg, err := expenseGroupFor(ctx, s.store, caller, req.Msg.ExpenseGroupID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteExpenseGroup(ctx, eg.ID); err != nil {
		s.logger.Error("DeleteExpenseGroup failed", "expense_group_id", eg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense group deleted", "expense_group_id", eg.ID, "user_id", caller.UserID)
	return connect.NewResponse(&api.DeleteExpenseGroupResponse{}), nil
}

// expenseGroupFor loads an expense group and checks it belongs to the
// caller's household.
func expenseGroupFor(ctx context.Context, store storage.GroupStore, caller identity, id string) (*models.ExpenseGroup, error) {
	if id == "" {
		return nil, invalidArgument("expense_group_id is required")
	}
	eg, err := store.GetExpenseGroup(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if eg.GroupID != caller.GroupID {
		return nil, permissionDenied(errNotMember)
	}
	return eg, nil
}

// EnsureGroups creates the named households when the store has none yet,
// so the first users have something to sign up into.
func EnsureGroups(ctx context.Context, store storage.GroupStore, names []string, logger *slog.Logger) error {
	if len(names) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	existing, err := store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, name := range names {
		group := &models.Group{Name: name}
		if err := store.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to create group %q: %w", name, err)
		}
		logger.Info("Bootstrapped group", "group_id", group.ID, "name", name)
	}
	return nil
}
