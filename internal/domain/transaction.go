package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryIncome marks money-in transactions. They are logged but excluded
// from spending sums and never adjust the fixed pool.
const CategoryIncome = "income"

// Transaction represents a completed, immutable spending event. Transactions
// are created and deleted, never mutated.
type Transaction struct {
	ID          string
	UserID      string
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Category    string
	CreatedAt   time.Time
}

// NewTransaction validates the fields and builds a Transaction.
func NewTransaction(id, userID string, date time.Time, amount decimal.Decimal, description, category string, now time.Time) (*Transaction, error) {
	description, err := ValidateText(description, "description", MaxTextLength)
	if err != nil {
		return nil, err
	}

	if category != "" {
		category, err = ValidateText(category, "category", MaxTextLength)
		if err != nil {
			return nil, err
		}
	}

	if err := ValidateAmount(amount, false); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = now
	}

	return &Transaction{
		ID:          id,
		UserID:      userID,
		Date:        date.UTC(),
		Amount:      amount,
		Description: description,
		Category:    category,
		CreatedAt:   now,
	}, nil
}

// IsIncome reports whether the transaction records money in rather than spending.
func (t *Transaction) IsIncome() bool {
	return t.Category == CategoryIncome
}

// SumSpending totals the amounts of the given transactions, skipping income.
func SumSpending(transactions []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.IsIncome() {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}
