package calculator

import (
	"fmt"
	"math"
)

// SettlementTransfer is one suggested payment from a debtor to a creditor.
type SettlementTransfer struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount float64
}

// dustFloor is the float noise below which a leftover counts as zero.
const dustFloor = 1e-9

type position struct {
	memberID string
	amount   float64 // Always positive
	order    int     // Index in totals
}

// ComputeSettlements produces transfers that clear every net balance in
// totals, using greedy matching of the largest creditor with the largest
// debtor. Balances within Epsilon of zero count as settled.
//
// Small balances can add up to a large one on the other side, as when a
// tiny expense is split among many members. Once the greedy pass runs out
// of partners, any balance still above Epsilon is cleared down to zero
// against the opposite side's sub-Epsilon balances, largest first. If a
// balance above Epsilon survives that too, ErrUnbalanced is returned.
//
// Ties between equal balances go to the member that appears first in totals,
// so the output is deterministic for a given input order.
func ComputeSettlements(totals []MemberTotals) ([]SettlementTransfer, error) {
	if sum := NetSum(totals); math.Abs(sum) > Epsilon {
		return nil, fmt.Errorf("%w: residual %.4f", ErrUnbalanced, sum)
	}

	var creditors, debtors []position
	var creditDust, debtDust []position
	for i, t := range totals {
		switch {
		case t.NetBalance > Epsilon:
			creditors = append(creditors, position{memberID: t.MemberID, amount: t.NetBalance, order: i})
		case t.NetBalance < -Epsilon:
			debtors = append(debtors, position{memberID: t.MemberID, amount: -t.NetBalance, order: i})
		case t.NetBalance > dustFloor:
			creditDust = append(creditDust, position{memberID: t.MemberID, amount: t.NetBalance, order: i})
		case t.NetBalance < -dustFloor:
			debtDust = append(debtDust, position{memberID: t.MemberID, amount: -t.NetBalance, order: i})
		}
	}

	var transfers []SettlementTransfer
	for len(creditors) > 0 && len(debtors) > 0 {
		c := largest(creditors)
		d := largest(debtors)

		amount := math.Min(creditors[c].amount, debtors[d].amount)
		transfers = append(transfers, SettlementTransfer{
			From:   debtors[d].memberID,
			To:     creditors[c].memberID,
			Amount: amount,
		})

		creditors[c].amount -= amount
		debtors[d].amount -= amount

		if creditors[c].amount < Epsilon {
			creditDust = appendDust(creditDust, creditors[c])
			creditors = remove(creditors, c)
		}
		if debtors[d].amount < Epsilon {
			debtDust = appendDust(debtDust, debtors[d])
			debtors = remove(debtors, d)
		}
	}

	for _, c := range creditors {
		for c.amount > dustFloor && len(debtDust) > 0 {
			d := largest(debtDust)
			amount := math.Min(c.amount, debtDust[d].amount)
			transfers = addTransfer(transfers, debtDust[d].memberID, c.memberID, amount)
			c.amount -= amount
			if debtDust[d].amount -= amount; debtDust[d].amount <= dustFloor {
				debtDust = remove(debtDust, d)
			}
		}
		if c.amount >= Epsilon {
			return nil, fmt.Errorf("%w: member %s still owed %.4f", ErrUnbalanced, c.memberID, c.amount)
		}
	}
	for _, d := range debtors {
		for d.amount > dustFloor && len(creditDust) > 0 {
			c := largest(creditDust)
			amount := math.Min(d.amount, creditDust[c].amount)
			transfers = addTransfer(transfers, d.memberID, creditDust[c].memberID, amount)
			d.amount -= amount
			if creditDust[c].amount -= amount; creditDust[c].amount <= dustFloor {
				creditDust = remove(creditDust, c)
			}
		}
		if d.amount >= Epsilon {
			return nil, fmt.Errorf("%w: member %s still owes %.4f", ErrUnbalanced, d.memberID, d.amount)
		}
	}

	return transfers, nil
}

// largest returns the index of the biggest position, preferring the member
// earliest in totals on ties.
func largest(ps []position) int {
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].amount > ps[best].amount ||
			(ps[i].amount == ps[best].amount && ps[i].order < ps[best].order) {
			best = i
		}
	}
	return best
}

func remove(ps []position, i int) []position {
	return append(ps[:i], ps[i+1:]...)
}

func appendDust(ps []position, p position) []position {
	if p.amount > dustFloor {
		return append(ps, p)
	}
	return ps
}

// addTransfer merges into an existing transfer between the same pair.
func addTransfer(ts []SettlementTransfer, from, to string, amount float64) []SettlementTransfer {
	for i := range ts {
		if ts[i].From == from && ts[i].To == to {
			ts[i].Amount += amount
			return ts
		}
	}
	return append(ts, SettlementTransfer{From: from, To: to, Amount: amount})
}
