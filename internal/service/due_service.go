package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitroom/internal/api"
	"github.com/mmynk/splitroom/internal/models"
	"github.com/mmynk/splitroom/internal/storage"
)

var _ api.DueServiceHandler = (*DueService)(nil)

// DueService implements the Connect DueService. Due groups are private:
// every call is checked against the owner.
type DueService struct {
	store  storage.Store
	logger *slog.Logger
}

func NewDueService(store storage.Store, logger *slog.Logger) *DueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DueService{store: store, logger: logger}
}

func (s *DueService) CreateDueGroup(ctx context.Context, req *connect.Request[api.CreateDueGroupRequest]) (*connect.Response[api.CreateDueGroupResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	description := strings.TrimSpace(req.Msg.Description)
	if name == "" || description == "" {
		return nil, invalidArgument("name and description are required")
	}

	dg := &models.DueGroup{
		GroupID:     caller.GroupID,
		OwnerID:     caller.UserID,
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateDueGroup(ctx, dg); err != nil {
		s.logger.Error("CreateDueGroup failed", "user_id", caller.UserID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Due group created", "due_group_id", dg.ID, "user_id", caller.UserID)
	return connect.NewResponse(&api.CreateDueGroupResponse{DueGroup: toAPIDueGroup(dg)}), nil
}

// ListDueGroups lists the caller's own due groups, newest first.
func (s *DueService) ListDueGroups(ctx context.Context, req *connect.Request[api.ListDueGroupsRequest]) (*connect.Response[api.ListDueGroupsResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListDueGroups(ctx, caller.GroupID, caller.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]api.DueGroup, len(groups))
	for i, dg := range groups {
		out[i] = toAPIDueGroup(dg)
	}
	return connect.NewResponse(&api.ListDueGroupsResponse{DueGroups: out}), nil
}

func (s *DueService) DeleteDueGroup(ctx context.Context, req *connect.Request[api.DeleteDueGroupRequest]) (*connect.Response[api.DeleteDueGroupResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	dg, err := s.dueGroupFor(ctx, caller, req.Msg.DueGroupID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteDueGroup(ctx, dg.ID); err != nil {
		s.logger.Error("DeleteDueGroup failed", "due_group_id", dg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Due group deleted", "due_group_id", dg.ID)
	return connect.NewResponse(&api.DeleteDueGroupResponse{}), nil
}

// AddDue records money lent (to_receive) or borrowed. Status starts as "due".
func (s *DueService) AddDue(ctx context.Context, req *connect.Request[api.AddDueRequest]) (*connect.Response[api.AddDueResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	if msg.Amount.Sign() <= 0 {
		return nil, invalidArgument("amount must be greater than zero")
	}
	recipient := strings.TrimSpace(msg.Recipient)
	if recipient == "" {
		return nil, invalidArgument("recipient is required")
	}

	dg, err := s.dueGroupFor(ctx, caller, msg.DueGroupID)
	if err != nil {
		return nil, err
	}

	due := &models.Due{
		DueGroupID:  dg.ID,
		Amount:      msg.Amount,
		ToReceive:   msg.ToReceive,
		Status:      models.DueStatusDue,
		Recipient:   recipient,
		Description: strings.TrimSpace(msg.Description),
	}
	if err := s.store.CreateDue(ctx, due); err != nil {
		s.logger.Error("AddDue failed", "due_group_id", dg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Due added", "due_id", due.ID, "due_group_id", dg.ID, "to_receive", due.ToReceive)
	return connect.NewResponse(&api.AddDueResponse{Due: toAPIDue(due)}), nil
}

// UpdateDue changes the fields present in the request.
func (s *DueService) UpdateDue(ctx context.Context, req *connect.Request[api.UpdateDueRequest]) (*connect.Response[api.UpdateDueResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	due, err := s.dueFor(ctx, caller, msg.DueID)
	if err != nil {
		return nil, err
	}

	if msg.Amount != nil {
		if msg.Amount.Sign() <= 0 {
			return nil, invalidArgument("amount must be greater than zero")
		}
		due.Amount = *msg.Amount
	}
	if msg.ToReceive != nil {
		due.ToReceive = *msg.ToReceive
	}
	if msg.Status != nil {
		status := models.DueStatus(strings.ToLower(strings.TrimSpace(*msg.Status)))
		if !status.Valid() {
			return nil, invalidArgument("status must be %q or %q", models.DueStatusDue, models.DueStatusPaid)
		}
		due.Status = status
	}
	if msg.Recipient != nil {
		recipient := strings.TrimSpace(*msg.Recipient)
		if recipient == "" {
			return nil, invalidArgument("recipient cannot be empty")
		}
		due.Recipient = recipient
	}
	if msg.Description != nil {
		due.Description = strings.TrimSpace(*msg.Description)
	}

	if err := s.store.UpdateDue(ctx, due); err != nil {
		s.logger.Error("UpdateDue failed", "due_id", due.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Due updated", "due_id", due.ID, "status", due.Status)
	return connect.NewResponse(&api.UpdateDueResponse{Due: toAPIDue(due)}), nil
}

func (s *DueService) DeleteDue(ctx context.Context, req *connect.Request[api.DeleteDueRequest]) (*connect.Response[api.DeleteDueResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	due, err := s.dueFor(ctx, caller, req.Msg.DueID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteDue(ctx, due.ID); err != nil {
		s.logger.Error("DeleteDue failed", "due_id", due.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Due deleted", "due_id", due.ID)
	return connect.NewResponse(&api.DeleteDueResponse{}), nil
}

// ListDues returns a due group's entries, newest first, with totals.
func (s *DueService) ListDues(ctx context.Context, req *connect.Request[api.ListDuesRequest]) (*connect.Response[api.ListDuesResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	dg, err := s.dueGroupFor(ctx, caller, req.Msg.DueGroupID)
	if err != nil {
		return nil, err
	}

	dues, err := s.store.ListDues(ctx, dg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]api.Due, len(dues))
	for i, d := range dues {
		out[i] = toAPIDue(d)
	}
	return connect.NewResponse(&api.ListDuesResponse{Dues: out, Summary: summarize(dues)}), nil
}

// summarize totals every due and the outstanding ones by direction.
func summarize(dues []*models.Due) api.DueSummary {
	total, receive, give := decimal.Zero, decimal.Zero, decimal.Zero
	for _, d := range dues {
		total = total.Add(d.Amount)
		if d.Status != models.DueStatusDue {
			continue
		}
		if d.ToReceive {
			receive = receive.Add(d.Amount)
		} else {
			give = give.Add(d.Amount)
		}
	}
	return api.DueSummary{
		Total:                total,
		OutstandingToReceive: receive,
		OutstandingToGive:    give,
		NetOutstanding:       receive.Sub(give),
	}
}

func (s *DueService) dueGroupFor(ctx context.Context, caller identity, id string) (*models.DueGroup, error) {
	if id == "" {
		return nil, invalidArgument("due_group_id is required")
	}
	dg, err := s.store.GetDueGroup(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if dg.OwnerID != caller.UserID {
		return nil, permissionDenied(errNotOwner)
	}
	return dg, nil
}

func (s *DueService) dueFor(ctx context.Context, caller identity, id string) (*models.Due, error) {
	if id == "" {
		return nil, invalidArgument("due_id is required")
	}
	due, err := s.store.GetDue(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.dueGroupFor(ctx, caller, due.DueGroupID); err != nil {
		return nil, err
	}
	return due, nil
}
