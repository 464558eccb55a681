package models

import "github.com/shopspring/decimal"

// Expense represents one logged purchase within an expense group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// ExpenseGroupID is the expense group this purchase was logged in.
	ExpenseGroupID string

	// Description is what was bought (e.g., "Milk", "Electricity bill").
	Description string

	// Amount is the full price paid.
	Amount decimal.Decimal

	// PayerID is the user who paid. The payer does not have to be a participant.
	PayerID string

	// ParticipantIDs are the users who share the cost equally.
	ParticipantIDs []string

	// CreatedBy is the user ID that logged the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was logged.
	CreatedAt int64
}

// Payment represents a repayment between members of an expense group,
// recorded to clear debts.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// ExpenseGroupID is the expense group whose balances this payment settles.
	ExpenseGroupID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Note is an optional description for the payment.
	Note string

	// CreatedBy is the user ID who recorded this payment.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
