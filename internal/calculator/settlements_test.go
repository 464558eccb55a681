package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestComputeSettlements(t *testing.T) {
	tests := []struct {
		name     string
		members  []Member
		expenses []ExpenseRecord
		want     []SettlementTransfer
	}{
		{
			name:     "no expenses",
			members:  abc(),
			expenses: nil,
			want:     nil,
		},
		{
			name:    "one payer, two debtors with equal balances",
			members: abc(),
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 90, PayerID: "A", ParticipantIDs: []string{"A", "B", "C"}},
			},
			want: []SettlementTransfer{
				{From: "B", To: "A", Amount: 30},
				{From: "C", To: "A", Amount: 30},
			},
		},
		{
			name:    "two people offset each other",
			members: abc()[:2],
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 100, PayerID: "A", ParticipantIDs: []string{"A", "B"}},
				{ID: "e2", Amount: 50, PayerID: "B", ParticipantIDs: []string{"A", "B"}},
			},
			want: []SettlementTransfer{
				{From: "B", To: "A", Amount: 25},
			},
		},
		{
			name:    "largest debtor is matched first",
			members: abc(),
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 60, PayerID: "A", ParticipantIDs: []string{"B", "C"}},
				{ID: "e2", Amount: 20, PayerID: "B", ParticipantIDs: []string{"C"}},
			},
			// A +60, B -30+20 = -10, C -30-20 = -50
			want: []SettlementTransfer{
				{From: "C", To: "A", Amount: 50},
				{From: "B", To: "A", Amount: 10},
			},
		},
		{
			name:    "fully offsetting expenses need no transfers",
			members: abc()[:2],
			expenses: []ExpenseRecord{
				{ID: "e1", Amount: 10, PayerID: "A", ParticipantIDs: []string{"B"}},
				{ID: "e2", Amount: 10, PayerID: "B", ParticipantIDs: []string{"A"}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := ComputeTotals(tt.members, tt.expenses)
			if err != nil {
				t.Fatalf("ComputeTotals() error = %v", err)
			}
			got, err := ComputeSettlements(totals)
			if err != nil {
				t.Fatalf("ComputeSettlements() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To {
					t.Errorf("transfer %d = %s->%s, want %s->%s", i, got[i].From, got[i].To, tt.want[i].From, tt.want[i].To)
				}
				if math.Abs(got[i].Amount-tt.want[i].Amount) > Epsilon {
					t.Errorf("transfer %d amount = %v, want %v", i, got[i].Amount, tt.want[i].Amount)
				}
			}
		})
	}
}

func TestComputeSettlementsTieBreakFollowsInputOrder(t *testing.T) {
	totals := []MemberTotals{
		{MemberID: "z", NetBalance: -10},
		{MemberID: "y", NetBalance: 10},
		{MemberID: "x", NetBalance: -10},
		{MemberID: "w", NetBalance: 10},
	}
	got, err := ComputeSettlements(totals)
	if err != nil {
		t.Fatalf("ComputeSettlements() error = %v", err)
	}
	want := []SettlementTransfer{
		{From: "z", To: "y", Amount: 10},
		{From: "x", To: "w", Amount: 10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeSettlements() = %+v, want %+v", got, want)
	}
}

func TestComputeSettlementsIgnoresNoise(t *testing.T) {
	totals := []MemberTotals{
		{MemberID: "a", NetBalance: 0.004},
		{MemberID: "b", NetBalance: -0.004},
	}
	got, err := ComputeSettlements(totals)
	if err != nil {
		t.Fatalf("ComputeSettlements() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no transfers for sub-epsilon balances, got %+v", got)
	}
}

func TestComputeSettlementsUnbalanced(t *testing.T) {
	totals := []MemberTotals{
		{MemberID: "a", NetBalance: 10},
		{MemberID: "b", NetBalance: -5},
	}
	if _, err := ComputeSettlements(totals); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("ComputeSettlements() error = %v, want ErrUnbalanced", err)
	}
}

// assertSettled fails unless every transfer is positive, no member pays
// themselves, and applying the transfers leaves each balance within Epsilon.
func assertSettled(t *testing.T, label string, totals []MemberTotals, transfers []SettlementTransfer) {
	t.Helper()
	remaining := make(map[string]float64, len(totals))
	for _, tot := range totals {
		remaining[tot.MemberID] = tot.NetBalance
	}
	for _, tr := range transfers {
		if tr.From == tr.To {
			t.Fatalf("%s: self transfer %+v", label, tr)
		}
		if tr.Amount <= 0 {
			t.Fatalf("%s: non-positive transfer %+v", label, tr)
		}
		remaining[tr.From] += tr.Amount
		remaining[tr.To] -= tr.Amount
	}
	for id, bal := range remaining {
		if math.Abs(bal) > Epsilon {
			t.Fatalf("%s: member %s left with %v after settlement", label, id, bal)
		}
	}
}

func TestComputeSettlementsSmallSharesAddUp(t *testing.T) {
	members := []Member{{ID: "m0"}, {ID: "m1"}, {ID: "m2"}, {ID: "m3"}, {ID: "m4"}}
	expenses := []ExpenseRecord{
		{ID: "e1", Amount: 0.04, PayerID: "m3", ParticipantIDs: []string{"m0", "m1", "m2", "m3", "m4"}},
	}
	totals, err := ComputeTotals(members, expenses)
	if err != nil {
		t.Fatalf("ComputeTotals() error = %v", err)
	}
	transfers, err := ComputeSettlements(totals)
	if err != nil {
		t.Fatalf("ComputeSettlements() error = %v", err)
	}
	if len(transfers) == 0 {
		t.Fatal("expected m3 to be paid back, got no transfers")
	}
	for _, tr := range transfers {
		if tr.To != "m3" {
			t.Errorf("unexpected transfer %+v, only m3 is owed", tr)
		}
	}
	assertSettled(t, "0.04 split five ways", totals, transfers)
}

func TestComputeSettlementsLeftoverCoveredByRemainders(t *testing.T) {
	totals := []MemberTotals{
		{MemberID: "c1", NetBalance: 1.009},
		{MemberID: "c2", NetBalance: 1.009},
		{MemberID: "c3", NetBalance: 1.009},
		{MemberID: "d1", NetBalance: -1},
		{MemberID: "d2", NetBalance: -1},
		{MemberID: "d3", NetBalance: -1},
		{MemberID: "d4", NetBalance: -0.027},
	}
	transfers, err := ComputeSettlements(totals)
	if err != nil {
		t.Fatalf("ComputeSettlements() error = %v", err)
	}
	assertSettled(t, "three remainders", totals, transfers)
}

func TestComputeSettlementsTinyExpenses(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i++ {
		n := 3 + r.Intn(8)
		members := make([]Member, n)
		all := make([]string, n)
		for j := range members {
			members[j] = Member{ID: fmt.Sprintf("m%d", j)}
			all[j] = members[j].ID
		}
		expenses := make([]ExpenseRecord, 1+r.Intn(3))
		for j := range expenses {
			expenses[j] = ExpenseRecord{
				ID:             fmt.Sprintf("e%d", j),
				Amount:         float64(1+r.Intn(10)) / 100,
				PayerID:        all[r.Intn(n)],
				ParticipantIDs: all,
			}
		}
		totals, err := ComputeTotals(members, expenses)
		if err != nil {
			t.Fatalf("case %d: ComputeTotals() error = %v", i, err)
		}
		transfers, err := ComputeSettlements(totals)
		if err != nil {
			t.Fatalf("case %d: ComputeSettlements() error = %v", i, err)
		}
		assertSettled(t, fmt.Sprintf("case %d", i), totals, transfers)
	}
}

func TestComputeSettlementsClearsBalances(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		members, expenses := randomGroup(r)
		totals, err := ComputeTotals(members, expenses)
		if err != nil {
			t.Fatalf("case %d: ComputeTotals() error = %v", i, err)
		}
		transfers, err := ComputeSettlements(totals)
		if err != nil {
			t.Fatalf("case %d: ComputeSettlements() error = %v", i, err)
		}
		assertSettled(t, fmt.Sprintf("case %d", i), totals, transfers)

		again, err := ComputeSettlements(totals)
		if err != nil {
			t.Fatalf("case %d: second ComputeSettlements() error = %v", i, err)
		}
		if !reflect.DeepEqual(transfers, again) {
			t.Fatalf("case %d: ComputeSettlements not deterministic", i)
		}
	}
}
