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

const (
	dueGroupColumns = "id, group_id, owner_id, name, description, created_at"
	dueColumns      = "id, due_group_id, amount, to_receive, status, recipient, description, created_at"
)

// CreateDueGroup persists a new due group.
func (s *SQLiteStore) CreateDueGroup(ctx context.Context, dg *models.DueGroup) error {
	if dg.ID == "" {
		dg.ID = uuid.New().String()
	}
	if dg.CreatedAt == 0 {
		dg.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO due_groups ("+dueGroupColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		dg.ID, dg.GroupID, dg.OwnerID, dg.Name, dg.Description, dg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert due group: %w", err)
	}
	return nil
}

// GetDueGroup retrieves a due group by ID.
func (s *SQLiteStore) GetDueGroup(ctx context.Context, id string) (*models.DueGroup, error) {
	dg := &models.DueGroup{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+dueGroupColumns+" FROM due_groups WHERE id = ?", id,
	).Scan(&dg.ID, &dg.GroupID, &dg.OwnerID, &dg.Name, &dg.Description, &dg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("due group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get due group: %w", err)
	}
	return dg, nil
}

// ListDueGroups retrieves the due groups one user owns in a household.
func (s *SQLiteStore) ListDueGroups(ctx context.Context, groupID, ownerID string) ([]*models.DueGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dueGroupColumns+" FROM due_groups WHERE group_id = ? AND owner_id = ? ORDER BY created_at DESC, rowid DESC",
		groupID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list due groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.DueGroup
	for rows.Next() {
		dg := &models.DueGroup{}
		if err := rows.Scan(&dg.ID, &dg.GroupID, &dg.OwnerID, &dg.Name, &dg.Description, &dg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan due group: %w", err)
		}
		groups = append(groups, dg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due groups: %w", err)
	}
	return groups, nil
}

// DeleteDueGroup removes a due group and, by cascade, its dues.
func (s *SQLiteStore) DeleteDueGroup(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "due_groups", "due group", id)
}

// CreateDue persists a new due. Status defaults to "due".
func (s *SQLiteStore) CreateDue(ctx context.Context, due *models.Due) error {
	if due.ID == "" {
		due.ID = uuid.New().String()
	}
	if due.CreatedAt == 0 {
		due.CreatedAt = time.Now().Unix()
	}
	if due.Status == "" {
		due.Status = models.DueStatusDue
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO dues ("+dueColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		due.ID, due.DueGroupID, due.Amount.String(), due.ToReceive, string(due.Status),
		due.Recipient, due.Description, due.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert due: %w", err)
	}
	return nil
}

// GetDue retrieves a due by ID.
func (s *SQLiteStore) GetDue(ctx context.Context, id string) (*models.Due, error) {
	due, err := scanDue(s.db.QueryRowContext(ctx, "SELECT "+dueColumns+" FROM dues WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("due %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get due: %w", err)
	}
	return due, nil
}

// UpdateDue overwrites the mutable fields of a due.
func (s *SQLiteStore) UpdateDue(ctx context.Context, due *models.Due) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE dues SET amount = ?, to_receive = ?, status = ?, recipient = ?, description = ?
		 WHERE id = ?`,
		due.Amount.String(), due.ToReceive, string(due.Status), due.Recipient, due.Description, due.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update due: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update due: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("due %s: %w", due.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteDue removes a due by ID.
func (s *SQLiteStore) DeleteDue(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "dues", "due", id)
}

// ListDues retrieves a due group's entries, newest first.
func (s *SQLiteStore) ListDues(ctx context.Context, dueGroupID string) ([]*models.Due, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dueColumns+" FROM dues WHERE due_group_id = ? ORDER BY created_at DESC, rowid DESC",
		dueGroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list dues: %w", err)
	}
	defer rows.Close()

	var dues []*models.Due
	for rows.Next() {
		due, err := scanDue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due: %w", err)
		}
		dues = append(dues, due)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dues: %w", err)
	}
	return dues, nil
}

func scanDue(row rowScanner) (*models.Due, error) {
	d := &models.Due{}
	var status string
	err := row.Scan(&d.ID, &d.DueGroupID, amountColumn{&d.Amount}, &d.ToReceive, &status, &d.Recipient, &d.Description, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Status = models.DueStatus(status)
	return d, nil
}
