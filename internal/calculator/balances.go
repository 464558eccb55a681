// Package calculator computes per-member balances for shared expenses and
// the transfers that settle them. It does no I/O and is safe for concurrent use.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Epsilon is the balance magnitude, in currency units, below which a member
// counts as settled. Repeated float division leaves noise below this.
const Epsilon = 0.01

var (
	// ErrInvalidRecord is returned for a structurally broken expense or payment.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrUnknownMember is returned when a record references an id outside the member set.
	ErrUnknownMember = errors.New("unknown member")
	// ErrDuplicateMember is returned when the member set lists an id twice.
	ErrDuplicateMember = errors.New("duplicate member")
	// ErrUnbalanced is returned when net balances do not sum to zero.
	ErrUnbalanced = errors.New("net balances do not sum to zero")
)

// RecordError describes which record and member caused a computation to fail.
// It unwraps to one of the sentinel errors above.
type RecordError struct {
	RecordID string
	MemberID string
	Reason   string
	Err      error
}

func (e *RecordError) Error() string {
	msg := e.Err.Error()
	if e.RecordID != "" {
		msg = fmt.Sprintf("record %s: %s", e.RecordID, msg)
	}
	if e.MemberID != "" {
		msg = fmt.Sprintf("%s %q", msg, e.MemberID)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

func (e *RecordError) Unwrap() error { return e.Err }

// Member is a participant eligible to pay or share expenses.
type Member struct {
	ID          string
	DisplayName string
}

// ExpenseRecord is one logged purchase with the minimal information needed
// for balance calculations.
type ExpenseRecord struct {
	ID             string
	Amount         float64
	PayerID        string
	ParticipantIDs []string
	Timestamp      time.Time
}

// Payment is a recorded repayment from one member to another.
type Payment struct {
	ID     string
	From   string
	To     string
	Amount float64
}

// MemberTotals is the computed balance information for one member.
type MemberTotals struct {
	MemberID    string
	DisplayName string
	Spent       float64 // Sum of amounts this member paid
	SharedCost  float64 // Sum of this member's shares
	NetBalance  float64 // Positive = is owed, Negative = owes
}

// ValidateExpense checks the structural rules of a single expense record
// without reference to a member set.
func ValidateExpense(e ExpenseRecord) error {
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount <= 0 {
		return &RecordError{RecordID: e.ID, Reason: "amount must be positive", Err: ErrInvalidRecord}
	}
	if e.PayerID == "" {
		return &RecordError{RecordID: e.ID, Reason: "payer required", Err: ErrInvalidRecord}
	}
	if len(e.ParticipantIDs) == 0 {
		return &RecordError{RecordID: e.ID, Reason: "at least one participant required", Err: ErrInvalidRecord}
	}
	seen := make(map[string]bool, len(e.ParticipantIDs))
	for _, p := range e.ParticipantIDs {
		if seen[p] {
			return &RecordError{RecordID: e.ID, MemberID: p, Reason: "participant listed twice", Err: ErrInvalidRecord}
		}
		seen[p] = true
	}
	return nil
}

// ComputeTotals aggregates spent, shared cost and net balance per member.
//
// Algorithm:
//   - share = amount / participant count (no rounding)
//   - payer.Spent += amount
//   - every participant.SharedCost += share
//   - for participants other than the payer, share moves from the
//     participant's net balance to the payer's
//
// A payer who is not a participant gains no shared cost. Any invalid record
// or unknown member id fails the whole computation; nothing is skipped.
// Results are returned in the order of members.
func ComputeTotals(members []Member, expenses []ExpenseRecord) ([]MemberTotals, error) {
	totals, index, err := newTotals(members)
	if err != nil {
		return nil, err
	}

	for _, e := range expenses {
		if err := ValidateExpense(e); err != nil {
			return nil, err
		}

		payer, ok := index[e.PayerID]
		if !ok {
			return nil, &RecordError{RecordID: e.ID, MemberID: e.PayerID, Err: ErrUnknownMember}
		}
		for _, p := range e.ParticipantIDs {
			if _, ok := index[p]; !ok {
				return nil, &RecordError{RecordID: e.ID, MemberID: p, Err: ErrUnknownMember}
			}
		}

		share := e.Amount / float64(len(e.ParticipantIDs))
		totals[payer].Spent += e.Amount

		for _, p := range e.ParticipantIDs {
			i := index[p]
			totals[i].SharedCost += share
			if i != payer {
				totals[payer].NetBalance += share
				totals[i].NetBalance -= share
			}
		}
	}

	return totals, nil
}

// ApplyPayments returns a copy of totals with recorded payments applied.
// A payment from A to B raises A's net balance and lowers B's by the amount;
// spent and shared cost are unchanged.
func ApplyPayments(totals []MemberTotals, payments []Payment) ([]MemberTotals, error) {
	out := make([]MemberTotals, len(totals))
	copy(out, totals)

	index := make(map[string]int, len(out))
	for i, t := range out {
		index[t.MemberID] = i
	}

	for _, p := range payments {
		if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
			return nil, &RecordError{RecordID: p.ID, Reason: "amount must be positive", Err: ErrInvalidRecord}
		}
		if p.From == p.To {
			return nil, &RecordError{RecordID: p.ID, MemberID: p.From, Reason: "payment to self", Err: ErrInvalidRecord}
		}
		from, ok := index[p.From]
		if !ok {
			return nil, &RecordError{RecordID: p.ID, MemberID: p.From, Err: ErrUnknownMember}
		}
		to, ok := index[p.To]
		if !ok {
			return nil, &RecordError{RecordID: p.ID, MemberID: p.To, Err: ErrUnknownMember}
		}
		out[from].NetBalance += p.Amount
		out[to].NetBalance -= p.Amount
	}

	return out, nil
}

// NetSum returns the sum of all net balances. It is zero, within float
// tolerance, for anything produced by ComputeTotals or ApplyPayments.
func NetSum(totals []MemberTotals) float64 {
	var sum float64
	for _, t := range totals {
		sum += t.NetBalance
	}
	return sum
}

func newTotals(members []Member) ([]MemberTotals, map[string]int, error) {
	totals := make([]MemberTotals, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		if _, exists := index[m.ID]; exists {
			return nil, nil, &RecordError{MemberID: m.ID, Err: ErrDuplicateMember}
		}
		index[m.ID] = i
		totals[i] = MemberTotals{MemberID: m.ID, DisplayName: m.DisplayName}
	}
	return totals, index, nil
}
