package api

import "github.com/shopspring/decimal"

// Amounts in requests are decimals and accept either a JSON number (12.5)
// or a numeric string ("12.5"). Amounts in responses are strings for stored
// values and rounded numbers for computed balances.

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	GroupID     string `json:"group_id"`
	CreatedAt   int64  `json:"created_at"`
}

type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type ExpenseGroup struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
}

type Expense struct {
	ID             string          `json:"id"`
	ExpenseGroupID string          `json:"expense_group_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Payer          Member          `json:"payer"`
	Participants   []Member        `json:"participants"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      int64           `json:"created_at"`
	// Date is the creation date in YYYY-MM-DD (UTC).
	Date string `json:"date"`
}

// MemberBalance is one member's totals, rounded to cents.
type MemberBalance struct {
	Member     Member  `json:"member"`
	Spent      float64 `json:"spent"`
	SharedCost float64 `json:"shared_cost"`
	NetBalance float64 `json:"net_balance"` // Positive = is owed
}

// Transfer is one suggested payment to settle up.
type Transfer struct {
	From   Member  `json:"from"`
	To     Member  `json:"to"`
	Amount float64 `json:"amount"`
}

type Payment struct {
	ID             string          `json:"id"`
	ExpenseGroupID string          `json:"expense_group_id"`
	FromUserID     string          `json:"from_user_id"`
	ToUserID       string          `json:"to_user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      int64           `json:"created_at"`
}

type DueGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
}

type Due struct {
	ID          string          `json:"id"`
	DueGroupID  string          `json:"due_group_id"`
	Amount      decimal.Decimal `json:"amount"`
	ToReceive   bool            `json:"to_receive"`
	Status      string          `json:"status"`
	Recipient   string          `json:"recipient"`
	Description string          `json:"description"`
	CreatedAt   int64           `json:"created_at"`
}

// DueSummary totals a due group. Total covers every due; the outstanding
// figures only count dues still in status "due".
type DueSummary struct {
	Total                decimal.Decimal `json:"total"`
	OutstandingToReceive decimal.Decimal `json:"outstanding_to_receive"`
	OutstandingToGive    decimal.Decimal `json:"outstanding_to_give"`
	NetOutstanding       decimal.Decimal `json:"net_outstanding"`
}

// Auth

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	GroupID     string `json:"group_id"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}
type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// Groups

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

// ListMembersRequest defaults to the caller's household.
type ListMembersRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

type CreateExpenseGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateExpenseGroupResponse struct {
	ExpenseGroup ExpenseGroup `json:"expense_group"`
}

type ListExpenseGroupsRequest struct{}

type ListExpenseGroupsResponse struct {
	ExpenseGroups []ExpenseGroup `json:"expense_groups"`
}

type GetExpenseGroupRequest struct {
	ExpenseGroupID string `json:"expense_group_id"`
}

type GetExpenseGroupResponse struct {
	ExpenseGroup ExpenseGroup `json:"expense_group"`
}

type DeleteExpenseGroupRequest struct {
	ExpenseGroupID string `json:"expense_group_id"`
}

type DeleteExpenseGroupResponse struct{}

// Expenses

type CreateExpenseRequest struct {
	ExpenseGroupID string          `json:"expense_group_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	PayerID        string          `json:"payer_id"`
	ParticipantIDs []string        `json:"participant_ids"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID      string          `json:"expense_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	PayerID        string          `json:"payer_id"`
	ParticipantIDs []string        `json:"participant_ids"`
}

type UpdateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	ExpenseGroupID string `json:"expense_group_id"`
	// Query matches description, payer name or participant names, case-insensitively.
	Query string `json:"query,omitempty"`
	// Date (YYYY-MM-DD) restricts results to expenses logged that day.
	Date     string `json:"date,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type ListExpensesResponse struct {
	Expenses   []Expense `json:"expenses"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int       `json:"total_count"`
	TotalPages int       `json:"total_pages"`
	// TotalAmount sums every expense of the group, ignoring filters.
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type GetBalancesRequest struct {
	ExpenseGroupID string `json:"expense_group_id"`
}

type GetBalancesResponse struct {
	Balances      []MemberBalance `json:"balances"`
	Settlements   []Transfer      `json:"settlements"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	ExpenseCount  int             `json:"expense_count"`
}

type RecordPaymentRequest struct {
	ExpenseGroupID string          `json:"expense_group_id"`
	FromUserID     string          `json:"from_user_id"`
	ToUserID       string          `json:"to_user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	ExpenseGroupID string `json:"expense_group_id"`
}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type DeletePaymentResponse struct{}

// Dues

type CreateDueGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateDueGroupResponse struct {
	DueGroup DueGroup `json:"due_group"`
}

type ListDueGroupsRequest struct{}

type ListDueGroupsResponse struct {
	DueGroups []DueGroup `json:"due_groups"`
}

type DeleteDueGroupRequest struct {
	DueGroupID string `json:"due_group_id"`
}

type DeleteDueGroupResponse struct{}

type AddDueRequest struct {
	DueGroupID  string          `json:"due_group_id"`
	Amount      decimal.Decimal `json:"amount"`
	ToReceive   bool            `json:"to_receive"`
	Recipient   string          `json:"recipient"`
	Description string          `json:"description,omitempty"`
}

type AddDueResponse struct {
	Due Due `json:"due"`
}

// UpdateDueRequest changes only the fields that are set.
type UpdateDueRequest struct {
	DueID       string           `json:"due_id"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	ToReceive   *bool            `json:"to_receive,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Recipient   *string          `json:"recipient,omitempty"`
	Description *string          `json:"description,omitempty"`
}

type UpdateDueResponse struct {
	Due Due `json:"due"`
}

type DeleteDueRequest struct {
	DueID string `json:"due_id"`
}

type DeleteDueResponse struct{}

type ListDuesRequest struct {
	DueGroupID string `json:"due_group_id"`
}

type ListDuesResponse struct {
	Dues    []Due      `json:"dues"`
	Summary DueSummary `json:"summary"`
}
