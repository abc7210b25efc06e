package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a recurring monthly obligation (fixed or variable).
type Expense struct {
	ID        string
	UserID    string
	Name      string
	Amount    decimal.Decimal
	IsFixed   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewExpense validates the fields and builds an Expense. No Expense reaches
// storage without passing through here or through the update whitelist.
func NewExpense(id, userID, name string, amount decimal.Decimal, isFixed bool, now time.Time) (*Expense, error) {
	name, err := ValidateText(name, "name", MaxTextLength)
	if err != nil {
		return nil, err
	}

	if err := ValidateAmount(amount, false); err != nil {
		return nil, err
	}

	return &Expense{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Amount:    amount,
		IsFixed:   isFixed,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TotalExpenses sums the amounts of a set of expenses.
func TotalExpenses(expenses []*Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
