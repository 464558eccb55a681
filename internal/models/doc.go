// Package models defines the core domain models for splitroom.
//
// # Models
//
//   - User: Registered account; belongs to exactly one household Group
//   - Group: Household of users who share expenses (chosen at sign-up)
//   - ExpenseGroup: A ledger of shared purchases inside a household
//   - Expense: One logged purchase with a payer and participants
//   - Payment: A recorded repayment between two members of an expense group
//   - DueGroup: A private ledger of money lent to or borrowed from outsiders
//   - Due: One entry in a due group
//
// # Design Principles
//
// 1. **Exact money**: Amounts are decimal.Decimal; float arithmetic happens only
// inside the balance calculator
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 3. **Explicit ownership**: Every row names the household or owner it belongs to,
// so services can authorize against the caller in the request context
package models
