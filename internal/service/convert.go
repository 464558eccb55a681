package service

import (
	"time"

	"github.com/mmynk/splitroom/internal/api"
	"github.com/mmynk/splitroom/internal/calculator"
	"github.com/mmynk/splitroom/internal/models"
)

const dateLayout = "2006-01-02"

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		GroupID:     u.GroupID,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) api.Group {
	return api.Group{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt}
}

func toAPIExpenseGroup(eg *models.ExpenseGroup) api.ExpenseGroup {
	return api.ExpenseGroup{
		ID:          eg.ID,
		GroupID:     eg.GroupID,
		Name:        eg.Name,
		Description: eg.Description,
		CreatedBy:   eg.CreatedBy,
		CreatedAt:   eg.CreatedAt,
	}
}

// roster indexes a household's members by ID.
type roster map[string]*models.User

func newRoster(users []*models.User) roster {
	r := make(roster, len(users))
	for _, u := range users {
		r[u.ID] = u
	}
	return r
}

// member resolves an ID to its display form. Unknown IDs keep the ID as name.
func (r roster) member(id string) api.Member {
	if u, ok := r[id]; ok {
		return api.Member{ID: u.ID, DisplayName: u.DisplayName}
	}
	return api.Member{ID: id, DisplayName: id}
}

func toAPIExpense(e *models.Expense, r roster) api.Expense {
	participants := make([]api.Member, len(e.ParticipantIDs))
	for i, id := range e.ParticipantIDs {
		participants[i] = r.member(id)
	}
	return api.Expense{
		ID:             e.ID,
		ExpenseGroupID: e.ExpenseGroupID,
		Description:    e.Description,
		Amount:         e.Amount,
		Payer:          r.member(e.PayerID),
		Participants:   participants,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
		Date:           expenseDate(e),
	}
}

// expenseDate is the UTC calendar date an expense was logged.
func expenseDate(e *models.Expense) string {
	return time.Unix(e.CreatedAt, 0).UTC().Format(dateLayout)
}

func toAPIPayment(p *models.Payment) api.Payment {
	return api.Payment{
		ID:             p.ID,
		ExpenseGroupID: p.ExpenseGroupID,
		FromUserID:     p.FromUserID,
		ToUserID:       p.ToUserID,
		Amount:         p.Amount,
		Note:           p.Note,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
	}
}

func toAPIDueGroup(dg *models.DueGroup) api.DueGroup {
	return api.DueGroup{
		ID:          dg.ID,
		Name:        dg.Name,
		Description: dg.Description,
		CreatedAt:   dg.CreatedAt,
	}
}

func toAPIDue(d *models.Due) api.Due {
	return api.Due{
		ID:          d.ID,
		DueGroupID:  d.DueGroupID,
		Amount:      d.Amount,
		ToReceive:   d.ToReceive,
		Status:      string(d.Status),
		Recipient:   d.Recipient,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// toRecord converts a stored expense into the calculator's input.
func toRecord(e *models.Expense) calculator.ExpenseRecord {
	return calculator.ExpenseRecord{
		ID:             e.ID,
		Amount:         calculator.ToFloat(e.Amount),
		PayerID:        e.PayerID,
		ParticipantIDs: e.ParticipantIDs,
		Timestamp:      time.Unix(e.CreatedAt, 0),
	}
}

func toCalcPayment(p *models.Payment) calculator.Payment {
	return calculator.Payment{
		ID:     p.ID,
		From:   p.FromUserID,
		To:     p.ToUserID,
		Amount: calculator.ToFloat(p.Amount),
	}
}

func toBalance(t calculator.MemberTotals) api.MemberBalance {
	return api.MemberBalance{
		Member:     api.Member{ID: t.MemberID, DisplayName: t.DisplayName},
		Spent:      calculator.Round(t.Spent),
		SharedCost: calculator.Round(t.SharedCost),
		NetBalance: calculator.Round(t.NetBalance),
	}
}

func toTransfer(s calculator.SettlementTransfer, r roster) api.Transfer {
	return api.Transfer{
		From:   r.member(s.From),
		To:     r.member(s.To),
		Amount: calculator.Round(s.Amount),
	}
}
