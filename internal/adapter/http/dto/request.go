package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/usecase"
)

// ConfigureBudgetRequest replaces the budget configuration wholesale.
type ConfigureBudgetRequest struct {
	Mode               string           `json:"mode"`
	MonthlyIncome      *decimal.Decimal `json:"monthly_income,omitempty"`
	DaysUntilPaycheck  int              `json:"days_until_paycheck,omitempty"`
	NextPaycheck       *time.Time       `json:"next_paycheck,omitempty"`
	TotalMoney         *decimal.Decimal `json:"total_money,omitempty"`
	TargetEndDate      *time.Time       `json:"target_end_date,omitempty"`
	DailySpendingLimit *decimal.Decimal `json:"daily_spending_limit,omitempty"`
}

// ToUseCaseInput converts to use case input scoped to the authenticated user.
func (r *ConfigureBudgetRequest) ToUseCaseInput(userID string) usecase.ConfigureInput {
	input := usecase.ConfigureInput{
		UserID:            userID,
		Mode:              domain.Mode(r.Mode),
		DaysUntilPaycheck: r.DaysUntilPaycheck,
		NextPaycheck:      r.NextPaycheck,
		TargetEndDate:     r.TargetEndDate,
	}
	if r.MonthlyIncome != nil {
		input.MonthlyIncome = *r.MonthlyIncome
	}
	if r.TotalMoney != nil {
		input.TotalMoney = *r.TotalMoney
	}
	if r.DailySpendingLimit != nil {
		input.DailySpendingLimit = *r.DailySpendingLimit
	}
	return input
}

// CreateExpenseRequest represents a request to create a recurring expense.
type CreateExpenseRequest struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	IsFixed bool            `json:"is_fixed"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput(userID string) usecase.CreateExpenseInput {
	return usecase.CreateExpenseInput{
		UserID:  userID,
		Name:    r.Name,
		Amount:  r.Amount,
		IsFixed: r.IsFixed,
	}
}

// UpdateExpenseRequest carries a partial expense update. Absent fields keep
// their stored values.
type UpdateExpenseRequest struct {
	Name    *string          `json:"name,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	IsFixed *bool            `json:"is_fixed,omitempty"`
}

// ToUpdate converts to the repository field set.
func (r *UpdateExpenseRequest) ToUpdate() usecase.ExpenseUpdate {
	return usecase.ExpenseUpdate{
		Name:    r.Name,
		Amount:  r.Amount,
		IsFixed: r.IsFixed,
	}
}

// ReplaceExpensesRequest atomically replaces the whole expense set.
type ReplaceExpensesRequest struct {
	Expenses []CreateExpenseRequest `json:"expenses"`
}

// ToUseCaseInput converts to use case input.
func (r *ReplaceExpensesRequest) ToUseCaseInput(userID string) usecase.ReplaceExpensesInput {
	rows := make([]usecase.CreateExpenseInput, len(r.Expenses))
	for i, e := range r.Expenses {
		rows[i] = e.ToUseCaseInput(userID)
	}
	return usecase.ReplaceExpensesInput{
		UserID: userID,
		Rows:   rows,
	}
}

// CreateTransactionRequest records a spending (or income) event.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(userID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		UserID:      userID,
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
	}
}
