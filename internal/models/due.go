package models

import "github.com/shopspring/decimal"

// DueStatus is the settlement state of a Due.
type DueStatus string

const (
	DueStatusDue  DueStatus = "due"
	DueStatusPaid DueStatus = "paid"
)

// Valid reports whether s is a known status.
func (s DueStatus) Valid() bool {
	return s == DueStatusDue || s == DueStatusPaid
}

// DueGroup is a private ledger of money lent to or borrowed from people
// outside the household. Only its owner can see it.
type DueGroup struct {
	ID          string
	GroupID     string
	OwnerID     string
	Name        string
	Description string
	CreatedAt   int64
}

// Due is one lent or borrowed amount in a due group.
type Due struct {
	ID         string
	DueGroupID string
	Amount     decimal.Decimal

	// ToReceive is true when the owner lent the money, false when they borrowed it.
	ToReceive bool

	Status DueStatus

	// Recipient is the outside party, free text.
	Recipient   string
	Description string
	CreatedAt   int64
}
