package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func abc() []Member {
	return []Member{
		{ID: "A", DisplayName: "Alice"},
		{ID: "B", DisplayName: "Bob"},
		{ID: "C", DisplayName: "Charlie"},
	}
}

func assertClose(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		members  []Member
		expenses []ExpenseRecord
		want     map[string][3]float64 // spent, shared, net
	}{
		{
			name:     "no expenses",
			members:  abc(),
			expenses: nil,
			want: map[string][3]float64{
				"A": {0, 0, 0},
				"B": {0, 0, 0},
				"C": {0, 0, 0},
			},
		},
		{
			name:    "one expense split three ways",
			members: abc(),
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 90, PayerID: "A", ParticipantIDs: []string{"A", "B", "C"}},
			},
			want: map[string][3]float64{
				"A": {90, 30, 60},
				"B": {0, 30, -30},
				"C": {0, 30, -30},
			},
		},
		{
			name:    "two expenses between two people",
			members: abc()[:2],
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 100, PayerID: "A", ParticipantIDs: []string{"A", "B"}},
				{ID: "e2", Amount: 50, PayerID: "B", ParticipantIDs: []string{"A", "B"}},
			},
			want: map[string][3]float64{
				"A": {100, 75, 25},
				"B": {50, 75, -25},
			},
		},
		{
			name:    "payer outside participants gains no shared cost",
			members: abc(),
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 40, PayerID: "C", ParticipantIDs: []string{"A", "B"}},
			},
			want: map[string][3]float64{
				"A": {0, 20, -20},
				"B": {0, 20, -20},
				"C": {40, 0, 40},
			},
		},
		{
			name:    "payer only participant",
			members: abc(),
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 12.5, PayerID: "B", ParticipantIDs: []string{"B"}},
			},
			want: map[string][3]float64{
				"A": {0, 0, 0},
				"B": {12.5, 12.5, 0},
				"C": {0, 0, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := ComputeTotals(tt.members, tt.expenses)
			if err != nil {
				t.Fatalf("ComputeTotals() error = %v", err)
			}
			if len(totals) != len(tt.members) {
				t.Fatalf("got %d totals, want %d", len(totals), len(tt.members))
			}
			for i, got := range totals {
				if got.MemberID != tt.members[i].ID {
					t.Errorf("totals[%d].MemberID = %s, want %s", i, got.MemberID, tt.members[i].ID)
				}
				want := tt.want[got.MemberID]
				assertClose(t, got.MemberID+" spent", got.Spent, want[0])
				assertClose(t, got.MemberID+" shared", got.SharedCost, want[1])
				assertClose(t, got.MemberID+" net", got.NetBalance, want[2])
			}
			if sum := NetSum(totals); math.Abs(sum) > Epsilon {
				t.Errorf("net balances sum to %v, want 0", sum)
			}
		})
	}
}

func TestComputeTotalsErrors(t *testing.T) {
	tests := []struct {
		name    string
		members []Member
		expense ExpenseRecord
		wantErr error
	}{
		{
			name:    "empty participants",
			members: abc(),
			expense: ExpenseRecord{ID: "e1", Amount: 10, PayerID: "A"},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "zero amount",
			members: abc(),
			expense: ExpenseRecord{ID: "e1", Amount: 0, PayerID: "A", ParticipantIDs: []string{"A"}},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "negative amount",
			members: abc(),
			expense: ExpenseRecord{ID: "e1", Amount: -5, PayerID: "A", ParticipantIDs: []string{"A"}},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "NaN amount",
			members: abc(),
			expense: ExpenseRecord{ID: "e1", Amount: math.NaN(), PayerID: "A", ParticipantIDs: []string{"A"}},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "duplicate participant",
			members: abc(),
			expense: ExpenseRecord{ID: "e1", Amount: 10, PayerID: "A", ParticipantIDs: []string{"A", "A"}},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "unknown payer",
			members: abc(),
			expense: ExpenseRecord{ID: "e1", Amount: 10, PayerID: "Z", ParticipantIDs: []string{"A"}},
			wantErr: ErrUnknownMember,
		},
		{
			name:    "unknown participant",
			members: abc(),
			expense: ExpenseRecord{ID: "e1", Amount: 10, PayerID: "A", ParticipantIDs: []string{"A", "Z"}},
			wantErr: ErrUnknownMember,
		},
		{
			name:    "duplicate member",
			members: append(abc(), Member{ID: "A", DisplayName: "Alice again"}),
			expense: ExpenseRecord{ID: "e1", Amount: 10, PayerID: "A", ParticipantIDs: []string{"A"}},
			wantErr: ErrDuplicateMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := ExpenseRecord{ID: "ok", Amount: 30, PayerID: "B", ParticipantIDs: []string{"A", "B"}}
			_, err := ComputeTotals(tt.members, []ExpenseRecord{valid, tt.expense})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ComputeTotals() error = %v, want %v", err, tt.wantErr)
			}
			var recErr *RecordError
			if !errors.As(err, &recErr) {
				t.Fatalf("expected *RecordError, got %T", err)
			}
		})
	}
}

func TestRecordErrorMessage(t *testing.T) {
	_, err := ComputeTotals(abc(), []ExpenseRecord{
		{ID: "e7", Amount: 10, PayerID: "A", ParticipantIDs: []string{"Q"}},
	})
	want := `record e7: unknown member "Q"`
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestApplyPayments(t *testing.T) {
	totals, err := ComputeTotals(abc(), []ExpenseRecord{
		{ID: "e1", Amount: 90, PayerID: "A", ParticipantIDs: []string{"A", "B", "C"}},
	})
	if err != nil {
		t.Fatalf("ComputeTotals() error = %v", err)
	}

	got, err := ApplyPayments(totals, []Payment{{ID: "p1", From: "B", To: "A", Amount: 30}})
	if err != nil {
		t.Fatalf("ApplyPayments() error = %v", err)
	}

	assertClose(t, "A net", got[0].NetBalance, 30)
	assertClose(t, "B net", got[1].NetBalance, 0)
	assertClose(t, "C net", got[2].NetBalance, -30)
	assertClose(t, "B spent", got[1].Spent, 0)

	// input untouched
	assertClose(t, "original A net", totals[0].NetBalance, 60)

	if math.Abs(NetSum(got)) > Epsilon {
		t.Errorf("payments broke zero-sum: %v", NetSum(got))
	}

	t.Run("rejects bad payments", func(t *testing.T) {
		bad := []struct {
			p       Payment
			wantErr error
		}{
			{Payment{ID: "p", From: "A", To: "A", Amount: 5}, ErrInvalidRecord},
			{Payment{ID: "p", From: "A", To: "B", Amount: 0}, ErrInvalidRecord},
			{Payment{ID: "p", From: "Z", To: "B", Amount: 5}, ErrUnknownMember},
			{Payment{ID: "p", From: "A", To: "Z", Amount: 5}, ErrUnknownMember},
		}
		for _, b := range bad {
			if _, err := ApplyPayments(totals, []Payment{b.p}); !errors.Is(err, b.wantErr) {
				t.Errorf("ApplyPayments(%+v) error = %v, want %v", b.p, err, b.wantErr)
			}
		}
	})
}

// randomGroup builds a reproducible set of members and expenses.
func randomGroup(r *rand.Rand) ([]Member, []ExpenseRecord) {
	n := 2 + r.Intn(7)
	members := make([]Member, n)
	for i := range members {
		members[i] = Member{ID: fmt.Sprintf("m%d", i), DisplayName: fmt.Sprintf("Member %d", i)}
	}

	expenses := make([]ExpenseRecord, r.Intn(30))
	for i := range expenses {
		perm := r.Perm(n)
		k := 1 + r.Intn(n)
		participants := make([]string, k)
		for j := 0; j < k; j++ {
			participants[j] = members[perm[j]].ID
		}
		expenses[i] = ExpenseRecord{
			ID:             fmt.Sprintf("e%d", i),
			Amount:         float64(1+r.Intn(100000)) / 100,
			PayerID:        members[r.Intn(n)].ID,
			ParticipantIDs: participants,
		}
	}
	return members, expenses
}

func TestComputeTotalsZeroSum(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		members, expenses := randomGroup(r)
		totals, err := ComputeTotals(members, expenses)
		if err != nil {
			t.Fatalf("case %d: ComputeTotals() error = %v", i, err)
		}
		if sum := NetSum(totals); math.Abs(sum) > Epsilon {
			t.Fatalf("case %d: net balances sum to %v", i, sum)
		}

		again, err := ComputeTotals(members, expenses)
		if err != nil {
			t.Fatalf("case %d: second ComputeTotals() error = %v", i, err)
		}
		if !reflect.DeepEqual(totals, again) {
			t.Fatalf("case %d: ComputeTotals not idempotent", i)
		}
	}
}
