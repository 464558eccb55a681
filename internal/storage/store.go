// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitroom/internal/models"
)

// ErrNotFound is returned (wrapped with the missing id) when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint would be violated.
var ErrConflict = errors.New("already exists")

// Store defines the interface for all persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	DueStore

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists registered accounts.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// ListUsersByGroup returns the household's members ordered by display name, then ID.
	ListUsersByGroup(ctx context.Context, groupID string) ([]*models.User, error)
}

// GroupStore persists households and their expense groups.
type GroupStore interface {
	// CreateGroup persists a new household. The ID and CreatedAt fields are
	// populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)

	CreateExpenseGroup(ctx context.Context, eg *models.ExpenseGroup) error
	GetExpenseGroup(ctx context.Context, id string) (*models.ExpenseGroup, error)
	ListExpenseGroups(ctx context.Context, groupID string) ([]*models.ExpenseGroup, error)
	// DeleteExpenseGroup removes the expense group with its expenses and payments.
	DeleteExpenseGroup(ctx context.Context, id string) error
}

// ExpenseStore persists expenses and recorded payments.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	// ListExpenses returns an expense group's expenses, newest first.
	ListExpenses(ctx context.Context, expenseGroupID string) ([]*models.Expense, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// ListPayments returns an expense group's payments, newest first.
	ListPayments(ctx context.Context, expenseGroupID string) ([]*models.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}

// DueStore persists private due ledgers.
type DueStore interface {
	CreateDueGroup(ctx context.Context, dg *models.DueGroup) error
	GetDueGroup(ctx context.Context, id string) (*models.DueGroup, error)
	// ListDueGroups returns the due groups owned by ownerID within a household.
	ListDueGroups(ctx context.Context, groupID, ownerID string) ([]*models.DueGroup, error)
	DeleteDueGroup(ctx context.Context, id string) error

	CreateDue(ctx context.Context, due *models.Due) error
	GetDue(ctx context.Context, id string) (*models.Due, error)
	UpdateDue(ctx context.Context, due *models.Due) error
	DeleteDue(ctx context.Context, id string) error
	// ListDues returns a due group's entries, newest first.
	ListDues(ctx context.Context, dueGroupID string) ([]*models.Due, error)
}
