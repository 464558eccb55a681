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

const paymentColumns = "id, expense_group_id, from_user_id, to_user_id, amount, note, created_by, created_at"

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var note any
	if payment.Note != "" {
		note = payment.Note
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		payment.ID, payment.ExpenseGroupID, payment.FromUserID, payment.ToUserID,
		payment.Amount.String(), note, payment.CreatedBy, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", paymentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPayments retrieves all payments for an expense group.
func (s *SQLiteStore) ListPayments(ctx context.Context, expenseGroupID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE expense_group_id = ? ORDER BY created_at DESC, rowid DESC",
		expenseGroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// DeletePayment removes a payment by ID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	return s.deleteByID(ctx, "payments", "payment", paymentID)
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	p := &models.Payment{}
	var note sql.NullString
	err := row.Scan(&p.ID, &p.ExpenseGroupID, &p.FromUserID, &p.ToUserID,
		amountColumn{&p.Amount}, &note, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if note.Valid {
		p.Note = note.String
	}
	return p, nil
}
