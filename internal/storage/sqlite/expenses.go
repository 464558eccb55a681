package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitroom/internal/models"
	"github.com/mmynk/splitroom/internal/storage"
)

const expenseColumns = "id, expense_group_id, description, amount, payer_id, created_by, created_at"

// CreateExpense persists a new expense and its participants.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.ExpenseGroupID, expense.Description, expense.Amount.String(),
		expense.PayerID, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertParticipants(ctx, tx, expense.ID, expense.ParticipantIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadParticipants(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense replaces an expense's fields and participant list.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount = ?, payer_id = ? WHERE id = ?",
		expense.Description, expense.Amount.String(), expense.PayerID, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, expense.ID, expense.ParticipantIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "expenses", "expense", id)
}

// ListExpenses retrieves all expenses of an expense group, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, expenseGroupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE expense_group_id = ? ORDER BY created_at DESC, rowid DESC",
		expenseGroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if err := s.loadParticipants(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, expenseID string, participants []string) error {
	for i, userID := range participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, position) VALUES (?, ?, ?)",
			expenseID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

// loadParticipants fills ParticipantIDs for every expense in one query,
// keeping the order participants were stored in.
func (s *SQLiteStore) loadParticipants(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	args := make([]any, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		args[i] = e.ID
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, user_id FROM expense_participants WHERE expense_id IN ("+placeholders(len(args))+") ORDER BY expense_id, position",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, userID string
		if err := rows.Scan(&expenseID, &userID); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.ParticipantIDs = append(e.ParticipantIDs, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	err := row.Scan(&e.ID, &e.ExpenseGroupID, &e.Description, amountColumn{&e.Amount}, &e.PayerID, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
