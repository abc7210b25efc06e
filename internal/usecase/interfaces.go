package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
)

// ExpenseRepository defines data access for expenses. Every operation is
// scoped to the owning user.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, userID, id string) (*domain.Expense, error)
	List(ctx context.Context, userID string) ([]*domain.Expense, error)
	Update(ctx context.Context, userID, id string, fields ExpenseUpdate) (*domain.Expense, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	ReplaceAll(ctx context.Context, userID string, expenses []*domain.Expense) error
}

// ExpenseUpdate is the fixed whitelist of updatable expense fields. Nil
// pointers leave the stored value untouched.
type ExpenseUpdate struct {
	Name    *string
	Amount  *decimal.Decimal
	IsFixed *bool
}

// TransactionFilter narrows a transaction listing. Zero values mean
// unfiltered.
type TransactionFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
	Limit    int
	Offset   int
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error)
	List(ctx context.Context, userID string, filter TransactionFilter) ([]*domain.Transaction, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	// SumSpending totals transaction amounts in [from, to], excluding income.
	SumSpending(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)
}

// ConfigRepository defines data access for the budget configuration. Save
// replaces the configuration wholesale; there is no partial-update path.
type ConfigRepository interface {
	Save(ctx context.Context, config *domain.BudgetConfig) error
	Get(ctx context.Context, userID string) (*domain.BudgetConfig, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// NumberCache caches computed budget results per user. Writes through the
// use cases invalidate it.
type NumberCache interface {
	Get(key string) (*domain.BudgetResult, bool)
	Set(key string, result *domain.BudgetResult)
	Delete(key string)
}
