package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitroom/internal/api"
	"github.com/mmynk/splitroom/internal/calculator"
	"github.com/mmynk/splitroom/internal/models"
	"github.com/mmynk/splitroom/internal/storage"
)

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

const defaultPageSize = 10

var pageSizes = []int{10, 20, 50, 100}

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{store: store, logger: logger}
}

// expenseInput is the editable part of an expense.
type expenseInput struct {
	Description    string
	Amount         decimal.Decimal
	PayerID        string
	ParticipantIDs []string
}

// validate checks the request fields and that payer and participants belong
// to the household, then applies the calculator's record rules.
func (in expenseInput) validate(r roster) error {
	switch {
	case strings.TrimSpace(in.Description) == "":
		return invalidArgument("description is required")
	case in.Amount.Sign() <= 0:
		return invalidArgument("amount must be greater than zero")
	case in.PayerID == "":
		return invalidArgument("payer_id is required")
	case len(in.ParticipantIDs) == 0:
		return invalidArgument("at least one participant is required")
	}

	if _, ok := r[in.PayerID]; !ok {
		return toConnectError(&calculator.RecordError{MemberID: in.PayerID, Reason: "payer is not in this household", Err: calculator.ErrUnknownMember})
	}
	for _, id := range in.ParticipantIDs {
		if _, ok := r[id]; !ok {
			return toConnectError(&calculator.RecordError{MemberID: id, Reason: "participant is not in this household", Err: calculator.ErrUnknownMember})
		}
	}

	record := calculator.ExpenseRecord{
		Amount:         calculator.ToFloat(in.Amount),
		PayerID:        in.PayerID,
		ParticipantIDs: in.ParticipantIDs,
	}
	if err := calculator.ValidateExpense(record); err != nil {
		return toConnectError(err)
	}
	return nil
}

// household loads the caller's members.
func (s *ExpenseService) household(ctx context.Context, groupID string) (roster, []*models.User, error) {
	users, err := s.store.ListUsersByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	return newRoster(users), users, nil
}

// CreateExpense logs a purchase in an expense group.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	s.logger.Info("CreateExpense request received",
		"expense_group_id", msg.ExpenseGroupID,
		"amount", msg.Amount.String(),
		"participants_count", len(msg.ParticipantIDs),
	)

	eg, err := expenseGroupFor(ctx, s.store, caller, msg.ExpenseGroupID)
	if err != nil {
		return nil, err
	}
	members, _, err := s.household(ctx, eg.GroupID)
	if err != nil {
		return nil, err
	}

	in := expenseInput{
		Description:    strings.TrimSpace(msg.Description),
		Amount:         msg.Amount,
		PayerID:        msg.PayerID,
		ParticipantIDs: msg.ParticipantIDs,
	}
	if err := in.validate(members); err != nil {
		s.logger.Warn("CreateExpense rejected", "expense_group_id", eg.ID, "error", err)
		return nil, err
	}

	expense := &models.Expense{
		ExpenseGroupID: eg.ID,
		Description:    in.Description,
		Amount:         in.Amount,
		PayerID:        in.PayerID,
		ParticipantIDs: in.ParticipantIDs,
		CreatedBy:      caller.UserID,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "expense_group_id", eg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense created", "expense_id", expense.ID, "expense_group_id", eg.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense, members)}), nil
}

// expenseFor loads an expense and checks the caller's household owns it.
func (s *ExpenseService) expenseFor(ctx context.Context, caller identity, id string) (*models.Expense, error) {
	if id == "" {
		return nil, invalidArgument("expense_id is required")
	}
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := expenseGroupFor(ctx, s.store, caller, expense.ExpenseGroupID); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenseFor(ctx, caller, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	members, _, err := s.household(ctx, caller.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense, members)}), nil
}

// UpdateExpense replaces the description, amount, payer and participants.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	expense, err := s.expenseFor(ctx, caller, msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	members, _, err := s.household(ctx, caller.GroupID)
	if err != nil {
		return nil, err
	}

	in := expenseInput{
		Description:    strings.TrimSpace(msg.Description),
		Amount:         msg.Amount,
		PayerID:        msg.PayerID,
		ParticipantIDs: msg.ParticipantIDs,
	}
	if err := in.validate(members); err != nil {
		return nil, err
	}

	expense.Description = in.Description
	expense.Amount = in.Amount
	expense.PayerID = in.PayerID
	expense.ParticipantIDs = in.ParticipantIDs
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense, members)}), nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	expense, err := s.expenseFor(ctx, caller, req.Msg.ExpenseID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense deleted", "expense_id", expense.ID, "user_id", caller.UserID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns one page of an expense group's expenses, newest first,
// optionally filtered by a search query and a calendar date.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	page, pageSize, err := pagination(msg.Page, msg.PageSize)
	if err != nil {
		return nil, err
	}
	if msg.Date != "" {
		if _, err := time.Parse(dateLayout, msg.Date); err != nil {
			return nil, invalidArgument("date must be YYYY-MM-DD: %v", err)
		}
	}

	eg, err := expenseGroupFor(ctx, s.store, caller, msg.ExpenseGroupID)
	if err != nil {
		return nil, err
	}
	members, _, err := s.household(ctx, eg.GroupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, eg.ID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "expense_group_id", eg.ID, "error", err)
		return nil, toConnectError(err)
	}

	total := decimal.Zero
	var matched []*models.Expense
	query := strings.ToLower(strings.TrimSpace(msg.Query))
	for _, e := range expenses {
		total = total.Add(e.Amount)
		if msg.Date != "" && expenseDate(e) != msg.Date {
			continue
		}
		if query != "" && !matchesQuery(e, members, query) {
			continue
		}
		matched = append(matched, e)
	}

	count := len(matched)
	start := min((page-1)*pageSize, count)
	end := min(start+pageSize, count)

	out := make([]api.Expense, 0, end-start)
	for _, e := range matched[start:end] {
		out = append(out, toAPIExpense(e, members))
	}

	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses:    out,
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  count,
		TotalPages:  (count + pageSize - 1) / pageSize,
		TotalAmount: total,
	}), nil
}

// pagination applies defaults and rejects unsupported values.
func pagination(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, invalidArgument("page must be at least 1")
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if !slices.Contains(pageSizes, pageSize) {
		return 0, 0, invalidArgument("page_size must be one of %v", pageSizes)
	}
	return page, pageSize, nil
}

// matchesQuery reports whether the lowercased query occurs in the
// description, the payer's name or any participant's name.
func matchesQuery(e *models.Expense, r roster, query string) bool {
	if strings.Contains(strings.ToLower(e.Description), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.member(e.PayerID).DisplayName), query) {
		return true
	}
	for _, id := range e.ParticipantIDs {
		if strings.Contains(strings.ToLower(r.member(id).DisplayName), query) {
			return true
		}
	}
	return false
}

// GetBalances computes every household member's totals for an expense group,
// applies recorded payments, and suggests the transfers that settle up.
func (s *ExpenseService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	eg, err := expenseGroupFor(ctx, s.store, caller, req.Msg.ExpenseGroupID)
	if err != nil {
		return nil, err
	}
	members, users, err := s.household(ctx, eg.GroupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, eg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	payments, err := s.store.ListPayments(ctx, eg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	calcMembers := make([]calculator.Member, len(users))
	for i, u := range users {
		calcMembers[i] = calculator.Member{ID: u.ID, DisplayName: u.DisplayName}
	}

	// Stored lists are newest first; feed the calculator in logging order.
	total := decimal.Zero
	records := make([]calculator.ExpenseRecord, 0, len(expenses))
	for i := len(expenses) - 1; i >= 0; i-- {
		records = append(records, toRecord(expenses[i]))
		total = total.Add(expenses[i].Amount)
	}
	calcPayments := make([]calculator.Payment, 0, len(payments))
	for i := len(payments) - 1; i >= 0; i-- {
		calcPayments = append(calcPayments, toCalcPayment(payments[i]))
	}

	settlements, totals, err := balances(calcMembers, records, calcPayments)
	if err != nil {
		// Stored rows were validated on write, so this is corrupt data.
		s.logger.Error("GetBalances failed", "expense_group_id", eg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]api.MemberBalance, len(totals))
	for i, t := range totals {
		out[i] = toBalance(t)
	}
	transfers := make([]api.Transfer, len(settlements))
	for i, st := range settlements {
		transfers[i] = toTransfer(st, members)
	}

	s.logger.Debug("Balances computed",
		"expense_group_id", eg.ID,
		"expenses", len(records),
		"payments", len(calcPayments),
		"transfers", len(transfers),
	)
	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:      out,
		Settlements:   transfers,
		TotalExpenses: total,
		ExpenseCount:  len(records),
	}), nil
}

func balances(members []calculator.Member, records []calculator.ExpenseRecord, payments []calculator.Payment) ([]calculator.SettlementTransfer, []calculator.MemberTotals, error) {
	totals, err := calculator.ComputeTotals(members, records)
	if err != nil {
		return nil, nil, fmt.Errorf("compute totals: %w", err)
	}
	totals, err = calculator.ApplyPayments(totals, payments)
	if err != nil {
		return nil, nil, fmt.Errorf("apply payments: %w", err)
	}
	settlements, err := calculator.ComputeSettlements(totals)
	if err != nil {
		return nil, nil, fmt.Errorf("compute settlements: %w", err)
	}
	return settlements, totals, nil
}

// RecordPayment stores a repayment between two household members.
func (s *ExpenseService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	switch {
	case msg.FromUserID == "" || msg.ToUserID == "":
		return nil, invalidArgument("from_user_id and to_user_id are required")
	case msg.FromUserID == msg.ToUserID:
		return nil, invalidArgument("cannot record a payment to yourself")
	case msg.Amount.Sign() <= 0:
		return nil, invalidArgument("amount must be greater than zero")
	}

	eg, err := expenseGroupFor(ctx, s.store, caller, msg.ExpenseGroupID)
	if err != nil {
		return nil, err
	}
	members, _, err := s.household(ctx, eg.GroupID)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{msg.FromUserID, msg.ToUserID} {
		if _, ok := members[id]; !ok {
			return nil, toConnectError(&calculator.RecordError{MemberID: id, Err: calculator.ErrUnknownMember})
		}
	}

	payment := &models.Payment{
		ExpenseGroupID: eg.ID,
		FromUserID:     msg.FromUserID,
		ToUserID:       msg.ToUserID,
		Amount:         msg.Amount,
		Note:           strings.TrimSpace(msg.Note),
		CreatedBy:      caller.UserID,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		s.logger.Error("RecordPayment failed", "expense_group_id", eg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Payment recorded",
		"payment_id", payment.ID,
		"from", payment.FromUserID,
		"to", payment.ToUserID,
		"amount", payment.Amount.String(),
	)
	return connect.NewResponse(&api.RecordPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

func (s *ExpenseService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	eg, err := expenseGroupFor(ctx, s.store, caller, req.Msg.ExpenseGroupID)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListPayments(ctx, eg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

func (s *ExpenseService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.PaymentID == "" {
		return nil, invalidArgument("payment_id is required")
	}

	payment, err := s.store.GetPayment(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := expenseGroupFor(ctx, s.store, caller, payment.ExpenseGroupID); err != nil {
		return nil, err
	}
	if err := s.store.DeletePayment(ctx, payment.ID); err != nil {
		s.logger.Error("DeletePayment failed", "payment_id", payment.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Payment deleted", "payment_id", payment.ID)
	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}
