// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitroom/internal/calculator"
	"github.com/mmynk/splitroom/internal/models"
	"github.com/mmynk/splitroom/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateGroup persists a new household.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
		group.ID, group.Name, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a household by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroups retrieves all households ordered by name.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM groups ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// CreateExpenseGroup persists a new expense group.
func (s *SQLiteStore) CreateExpenseGroup(ctx context.Context, eg *models.ExpenseGroup) error {
	if eg.ID == "" {
		eg.ID = uuid.New().String()
	}
	if eg.CreatedAt == 0 {
		eg.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expense_groups (id, group_id, name, description, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		eg.ID, eg.GroupID, eg.Name, eg.Description, eg.CreatedBy, eg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense group: %w", err)
	}
	return nil
}

// GetExpenseGroup retrieves an expense group by ID.
func (s *SQLiteStore) GetExpenseGroup(ctx context.Context, id string) (*models.ExpenseGroup, error) {
	eg := &models.ExpenseGroup{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, name, description, created_by, created_at
		 FROM expense_groups WHERE id = ?`,
		id,
	).Scan(&eg.ID, &eg.GroupID, &eg.Name, &eg.Description, &eg.CreatedBy, &eg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense group: %w", err)
	}
	return eg, nil
}

// ListExpenseGroups retrieves a household's expense groups, newest first.
func (s *SQLiteStore) ListExpenseGroups(ctx context.Context, groupID string) ([]*models.ExpenseGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, name, description, created_by, created_at
		 FROM expense_groups WHERE group_id = ? ORDER BY created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.ExpenseGroup
	for rows.Next() {
		eg := &models.ExpenseGroup{}
		if err := rows.Scan(&eg.ID, &eg.GroupID, &eg.Name, &eg.Description, &eg.CreatedBy, &eg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense group: %w", err)
		}
		groups = append(groups, eg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense groups: %w", err)
	}
	return groups, nil
}

// DeleteExpenseGroup removes an expense group. Expenses and payments cascade.
func (s *SQLiteStore) DeleteExpenseGroup(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "expense_groups", "expense group", id)
}

// deleteByID deletes one row and reports ErrNotFound when nothing matched.
// table is always a constant from this package.
func (s *SQLiteStore) deleteByID(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// amountColumn scans a stored amount, which the driver may hand back as
// TEXT, REAL or INTEGER depending on how the row was written.
type amountColumn struct {
	dst *decimal.Decimal
}

func (a amountColumn) Scan(src any) error {
	d, err := calculator.ParseAmount(src)
	if err != nil {
		return err
	}
	*a.dst = d
	return nil
}
