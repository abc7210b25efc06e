package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// ExpenseUseCase handles expense business logic.
type ExpenseUseCase struct {
	expenseRepo ExpenseRepository
	idGen       IDGenerator
	cache       NumberCache
	metrics     *metrics.Metrics
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(expenseRepo ExpenseRepository, idGen IDGenerator, cache NumberCache, metrics *metrics.Metrics) *ExpenseUseCase {
	return &ExpenseUseCase{
		expenseRepo: expenseRepo,
		idGen:       idGen,
		cache:       cache,
		metrics:     metrics,
	}
}

// CreateExpenseInput represents input for creating an expense.
type CreateExpenseInput struct {
	UserID  string
	Name    string
	Amount  decimal.Decimal
	IsFixed bool
}

// CreateExpense validates and persists a new expense.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	expense, err := domain.NewExpense(uc.idGen.Generate(), input.UserID, input.Name, input.Amount, input.IsFixed, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	uc.invalidate(input.UserID)

	if uc.metrics != nil {
		uc.metrics.ExpensesCreated.Inc()
	}

	return expense, nil
}

// GetExpense retrieves an expense by ID.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, userID, id string) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, userID, id)
}

// ListExpenses lists all expenses for a user in insertion order.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, userID string) ([]*domain.Expense, error) {
	return uc.expenseRepo.List(ctx, userID)
}

// UpdateExpense applies a partial update. Unset fields are left untouched;
// an invalid field fails the whole update with nothing written.
func (uc *ExpenseUseCase) UpdateExpense(ctx context.Context, userID, id string, fields ExpenseUpdate) (*domain.Expense, error) {
	if fields.Name != nil {
		name, err := domain.ValidateText(*fields.Name, "name", domain.MaxTextLength)
		if err != nil {
			return nil, err
		}
		fields.Name = &name
	}

	if fields.Amount != nil {
		if err := domain.ValidateAmount(*fields.Amount, false); err != nil {
			return nil, err
		}
	}

	expense, err := uc.expenseRepo.Update(ctx, userID, id, fields)
	if err != nil {
		return nil, err
	}

	uc.invalidate(userID)

	return expense, nil
}

// DeleteExpense removes an expense. Deleting an absent ID is not an error;
// the boolean reports whether a row was removed.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, userID, id string) (bool, error) {
	deleted, err := uc.expenseRepo.Delete(ctx, userID, id)
	if err != nil {
		return false, err
	}

	if deleted {
		uc.invalidate(userID)
		if uc.metrics != nil {
			uc.metrics.ExpensesDeleted.Inc()
		}
	}

	return deleted, nil
}

// ReplaceExpensesInput is the validated-row contract handed over by the
// import collaborator.
type ReplaceExpensesInput struct {
	UserID string
	Rows   []CreateExpenseInput
}

// ReplaceExpenses atomically replaces the full expense set. A failure on any
// row leaves the prior state fully intact.
func (uc *ExpenseUseCase) ReplaceExpenses(ctx context.Context, input ReplaceExpensesInput) ([]*domain.Expense, error) {
	now := time.Now().UTC()

	expenses := make([]*domain.Expense, 0, len(input.Rows))
	for _, row := range input.Rows {
		expense, err := domain.NewExpense(uc.idGen.Generate(), input.UserID, row.Name, row.Amount, row.IsFixed, now)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	if err := uc.expenseRepo.ReplaceAll(ctx, input.UserID, expenses); err != nil {
		return nil, err
	}

	uc.invalidate(input.UserID)

	return expenses, nil
}

func (uc *ExpenseUseCase) invalidate(userID string) {
	if uc.cache != nil {
		uc.cache.Delete(userID)
	}
}
