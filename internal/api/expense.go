package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const ExpenseServiceName = packageName + ".ExpenseService"

const (
	ExpenseServiceCreateExpenseProcedure = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceGetExpenseProcedure    = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseServiceUpdateExpenseProcedure = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServiceListExpensesProcedure  = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceGetBalancesProcedure   = "/" + ExpenseServiceName + "/GetBalances"
	ExpenseServiceRecordPaymentProcedure = "/" + ExpenseServiceName + "/RecordPayment"
	ExpenseServiceListPaymentsProcedure  = "/" + ExpenseServiceName + "/ListPayments"
	ExpenseServiceDeletePaymentProcedure = "/" + ExpenseServiceName + "/DeletePayment"
)

// ExpenseServiceHandler logs expenses and reports balances.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[DeletePaymentRequest]) (*connect.Response[DeletePaymentResponse], error)
}

func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	mux := http.NewServeMux()
	handle(mux, ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, o)
	handle(mux, ExpenseServiceGetExpenseProcedure, svc.GetExpense, o)
	handle(mux, ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, o)
	handle(mux, ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, o)
	handle(mux, ExpenseServiceListExpensesProcedure, svc.ListExpenses, o)
	handle(mux, ExpenseServiceGetBalancesProcedure, svc.GetBalances, o)
	handle(mux, ExpenseServiceRecordPaymentProcedure, svc.RecordPayment, o)
	handle(mux, ExpenseServiceListPaymentsProcedure, svc.ListPayments, o)
	handle(mux, ExpenseServiceDeletePaymentProcedure, svc.DeletePayment, o)
	return "/" + ExpenseServiceName + "/", mux
}

type ExpenseServiceClient struct {
	createExpense *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	getExpense    *connect.Client[GetExpenseRequest, GetExpenseResponse]
	updateExpense *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	listExpenses  *connect.Client[ListExpensesRequest, ListExpensesResponse]
	getBalances   *connect.Client[GetBalancesRequest, GetBalancesResponse]
	recordPayment *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	listPayments  *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
	deletePayment *connect.Client[DeletePaymentRequest, DeletePaymentResponse]
}

func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExpenseServiceClient {
	o := clientOptions(opts)
	return &ExpenseServiceClient{
		createExpense: newClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL, ExpenseServiceCreateExpenseProcedure, o),
		getExpense:    newClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL, ExpenseServiceGetExpenseProcedure, o),
		updateExpense: newClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL, ExpenseServiceUpdateExpenseProcedure, o),
		deleteExpense: newClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL, ExpenseServiceDeleteExpenseProcedure, o),
		listExpenses:  newClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL, ExpenseServiceListExpensesProcedure, o),
		getBalances:   newClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL, ExpenseServiceGetBalancesProcedure, o),
		recordPayment: newClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL, ExpenseServiceRecordPaymentProcedure, o),
		listPayments:  newClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL, ExpenseServiceListPaymentsProcedure, o),
		deletePayment: newClient[DeletePaymentRequest, DeletePaymentResponse](httpClient, baseURL, ExpenseServiceDeletePaymentProcedure, o),
	}
}

func (c *ExpenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) DeletePayment(ctx context.Context, req *connect.Request[DeletePaymentRequest]) (*connect.Response[DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}
