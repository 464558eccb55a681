package models

// Group represents a household: the set of users who share expenses.
// Membership is implied by User.GroupID.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Flat 4B").
	Name string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// ExpenseGroup is a named ledger of expenses inside a household,
// e.g. "Groceries" or "Goa trip".
type ExpenseGroup struct {
	// ID is the unique identifier for the expense group (UUID format).
	ID string

	// GroupID is the household this expense group belongs to.
	GroupID string

	Name        string
	Description string

	// CreatedBy is the user ID that created the expense group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense group was created.
	CreatedAt int64
}
