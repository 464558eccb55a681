package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitroom/internal/models"
	"github.com/mmynk/splitroom/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedHousehold creates a group with users alice and bob.
func seedHousehold(t *testing.T, store *SQLiteStore) (*models.Group, *models.User, *models.User) {
	t.Helper()
	ctx := context.Background()

	group := &models.Group{Name: "Flat 4B"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	alice := models.NewUser("alice@example.com", "Alice", "hash", group.ID)
	bob := models.NewUser("bob@example.com", "Bob", "hash", group.ID)
	for _, u := range []*models.User{alice, bob} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}
	return group, alice, bob
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		store, err := New(dbPath)
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		store.Close()
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, alice, _ := seedHousehold(t, store)

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.GroupID != group.ID {
			t.Errorf("got %+v, want id %s in group %s", got, alice.ID, group.ID)
		}
	})

	t.Run("missing user is ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate email is ErrConflict", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other Alice", "hash", group.ID)
		err := store.CreateUser(ctx, dup)
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("ListUsersByGroup orders by name", func(t *testing.T) {
		users, err := store.ListUsersByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListUsersByGroup failed: %v", err)
		}
		if len(users) != 2 || users[0].DisplayName != "Alice" || users[1].DisplayName != "Bob" {
			t.Errorf("unexpected users: %+v", users)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, alice, bob := seedHousehold(t, store)

	eg := &models.ExpenseGroup{GroupID: group.ID, Name: "Groceries", Description: "Weekly shop", CreatedBy: alice.ID}
	if err := store.CreateExpenseGroup(ctx, eg); err != nil {
		t.Fatalf("CreateExpenseGroup failed: %v", err)
	}

	expense := &models.Expense{
		ExpenseGroupID: eg.ID,
		Description:    "Milk",
		Amount:         decimal.RequireFromString("4.50"),
		PayerID:        alice.ID,
		ParticipantIDs: []string{bob.ID, alice.ID},
		CreatedBy:      alice.ID,
	}

	t.Run("CreateExpense generates ID", func(t *testing.T) {
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}
		if expense.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetExpense keeps amount and participant order", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(expense.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, expense.Amount)
		}
		if len(got.ParticipantIDs) != 2 || got.ParticipantIDs[0] != bob.ID || got.ParticipantIDs[1] != alice.ID {
			t.Errorf("Participants mismatch: got %v", got.ParticipantIDs)
		}
	})

	t.Run("UpdateExpense replaces participants", func(t *testing.T) {
		expense.Description = "Oat milk"
		expense.Amount = decimal.RequireFromString("6")
		expense.ParticipantIDs = []string{alice.ID}
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Description != "Oat milk" || !got.Amount.Equal(decimal.NewFromInt(6)) || len(got.ParticipantIDs) != 1 {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("UpdateExpense missing is ErrNotFound", func(t *testing.T) {
		err := store.UpdateExpense(ctx, &models.Expense{ID: "ghost", Amount: decimal.NewFromInt(1)})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListExpenses newest first with participants", func(t *testing.T) {
		second := &models.Expense{
			ExpenseGroupID: eg.ID,
			Description:    "Bread",
			Amount:         decimal.RequireFromString("2.25"),
			PayerID:        bob.ID,
			ParticipantIDs: []string{alice.ID, bob.ID},
			CreatedBy:      bob.ID,
			CreatedAt:      expense.CreatedAt + 60,
		}
		if err := store.CreateExpense(ctx, second); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		list, err := store.ListExpenses(ctx, eg.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(list))
		}
		if list[0].ID != second.ID {
			t.Errorf("expected newest expense first, got %s", list[0].Description)
		}
		if len(list[0].ParticipantIDs) != 2 || len(list[1].ParticipantIDs) != 1 {
			t.Errorf("participants not loaded: %v / %v", list[0].ParticipantIDs, list[1].ParticipantIDs)
		}
	})

	t.Run("payments round trip", func(t *testing.T) {
		p := &models.Payment{
			ExpenseGroupID: eg.ID,
			FromUserID:     bob.ID,
			ToUserID:       alice.ID,
			Amount:         decimal.RequireFromString("3.00"),
			CreatedBy:      bob.ID,
		}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		got, err := store.GetPayment(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPayment failed: %v", err)
		}
		if got.Note != "" || !got.Amount.Equal(decimal.NewFromInt(3)) {
			t.Errorf("unexpected payment: %+v", got)
		}
		list, err := store.ListPayments(ctx, eg.ID)
		if err != nil || len(list) != 1 {
			t.Fatalf("ListPayments = %v, %v", list, err)
		}
		if err := store.DeletePayment(ctx, p.ID); err != nil {
			t.Fatalf("DeletePayment failed: %v", err)
		}
		if err := store.DeletePayment(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteExpenseGroup cascades", func(t *testing.T) {
		if err := store.DeleteExpenseGroup(ctx, eg.ID); err != nil {
			t.Fatalf("DeleteExpenseGroup failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected expense to be deleted with its group, got %v", err)
		}
	})
}

func TestDues(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, alice, bob := seedHousehold(t, store)

	dg := &models.DueGroup{GroupID: group.ID, OwnerID: alice.ID, Name: "Office", Description: "Lunch money"}
	if err := store.CreateDueGroup(ctx, dg); err != nil {
		t.Fatalf("CreateDueGroup failed: %v", err)
	}

	t.Run("ListDueGroups filters by owner", func(t *testing.T) {
		mine, err := store.ListDueGroups(ctx, group.ID, alice.ID)
		if err != nil || len(mine) != 1 {
			t.Fatalf("ListDueGroups(alice) = %v, %v", mine, err)
		}
		theirs, err := store.ListDueGroups(ctx, group.ID, bob.ID)
		if err != nil || len(theirs) != 0 {
			t.Fatalf("ListDueGroups(bob) = %v, %v", theirs, err)
		}
	})

	due := &models.Due{DueGroupID: dg.ID, Amount: decimal.NewFromInt(200), ToReceive: true, Recipient: "Ravi"}

	t.Run("CreateDue defaults status", func(t *testing.T) {
		if err := store.CreateDue(ctx, due); err != nil {
			t.Fatalf("CreateDue failed: %v", err)
		}
		got, err := store.GetDue(ctx, due.ID)
		if err != nil {
			t.Fatalf("GetDue failed: %v", err)
		}
		if got.Status != models.DueStatusDue || !got.ToReceive || got.Recipient != "Ravi" {
			t.Errorf("unexpected due: %+v", got)
		}
	})

	t.Run("UpdateDue marks paid", func(t *testing.T) {
		due.Status = models.DueStatusPaid
		if err := store.UpdateDue(ctx, due); err != nil {
			t.Fatalf("UpdateDue failed: %v", err)
		}
		list, err := store.ListDues(ctx, dg.ID)
		if err != nil || len(list) != 1 {
			t.Fatalf("ListDues = %v, %v", list, err)
		}
		if list[0].Status != models.DueStatusPaid {
			t.Errorf("status = %s, want paid", list[0].Status)
		}
	})

	t.Run("DeleteDueGroup cascades", func(t *testing.T) {
		if err := store.DeleteDueGroup(ctx, dg.ID); err != nil {
			t.Fatalf("DeleteDueGroup failed: %v", err)
		}
		if _, err := store.GetDue(ctx, due.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected due to be deleted, got %v", err)
		}
	})
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestAmountColumn(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    string
		wantErr bool
	}{
		{name: "text", src: "12.30", want: "12.3"},
		{name: "blob", src: []byte("7.05"), want: "7.05"},
		{name: "real", src: 4.5, want: "4.5"},
		{name: "integer", src: int64(90), want: "90"},
		{name: "null", src: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got decimal.Decimal
			err := amountColumn{&got}.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan(%v) error = %v, wantErr %v", tt.src, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Scan(%v) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}
