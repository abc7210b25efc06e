package dto

import (
	"time"

	"github.com/mvr/thenumber/internal/domain"
)

// BudgetNumberResponse is the daily budget number. All amounts are rendered
// with two decimal places; the exact values live in the domain result and
// rounding happens only here.
type BudgetNumberResponse struct {
	Mode       string `json:"mode"`
	DailyLimit string `json:"daily_limit"`

	TotalIncome    string `json:"total_income,omitempty"`
	TotalExpenses  string `json:"total_expenses"`
	RemainingMoney string `json:"remaining_money,omitempty"`
	DaysRemaining  int    `json:"days_remaining,omitempty"`
	IsDeficit      bool   `json:"is_deficit,omitempty"`
	DeficitAmount  string `json:"deficit_amount,omitempty"`

	TotalMoney        string `json:"total_money,omitempty"`
	DailyExpenseShare string `json:"daily_expense_share,omitempty"`
	OutOfMoney        bool   `json:"out_of_money,omitempty"`
	ExpiredTarget     bool   `json:"expired_target,omitempty"`
	Unbounded         bool   `json:"unbounded,omitempty"`
	DaysMoneyWillLast int64  `json:"days_money_will_last,omitempty"`

	SpentToday         string  `json:"spent_today"`
	RemainingToday     string  `json:"remaining_today"`
	IsOverBudget       bool    `json:"is_over_budget"`
	AdjustedDailyLimit *string `json:"adjusted_daily_limit,omitempty"`
}

// BudgetNumberFromDomain converts a calculation result to a response.
func BudgetNumberFromDomain(r *domain.BudgetResult) *BudgetNumberResponse {
	resp := &BudgetNumberResponse{
		Mode:              string(r.Mode),
		DailyLimit:        r.DailyLimit.StringFixed(2),
		TotalExpenses:     r.TotalExpenses.StringFixed(2),
		DaysRemaining:     r.DaysRemaining,
		IsDeficit:         r.IsDeficit,
		OutOfMoney:        r.OutOfMoney,
		ExpiredTarget:     r.ExpiredTarget,
		Unbounded:         r.Unbounded,
		DaysMoneyWillLast: r.DaysMoneyWillLast,
		SpentToday:        r.SpentToday.StringFixed(2),
		RemainingToday:    r.RemainingToday.StringFixed(2),
		IsOverBudget:      r.IsOverBudget,
	}

	switch r.Mode {
	case domain.ModePaycheck:
		resp.TotalIncome = r.TotalIncome.StringFixed(2)
		resp.RemainingMoney = r.RemainingMoney.StringFixed(2)
		if r.IsDeficit {
			resp.DeficitAmount = r.DeficitAmount.StringFixed(2)
		}
	case domain.ModeFixedPool:
		resp.TotalMoney = r.TotalMoney.StringFixed(2)
		resp.DailyExpenseShare = r.DailyExpenseShare.StringFixed(2)
	}

	if r.AdjustedDailyLimit != nil {
		adjusted := r.AdjustedDailyLimit.StringFixed(2)
		resp.AdjustedDailyLimit = &adjusted
	}

	return resp
}

// ConfigResponse represents the stored budget configuration.
type ConfigResponse struct {
	Mode               string     `json:"mode"`
	MonthlyIncome      string     `json:"monthly_income,omitempty"`
	DaysUntilPaycheck  int        `json:"days_until_paycheck,omitempty"`
	NextPaycheck       *time.Time `json:"next_paycheck,omitempty"`
	TotalMoney         string     `json:"total_money,omitempty"`
	TargetEndDate      *time.Time `json:"target_end_date,omitempty"`
	DailySpendingLimit string     `json:"daily_spending_limit,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ConfigFromDomain converts a budget configuration to a response.
func ConfigFromDomain(c *domain.BudgetConfig) *ConfigResponse {
	resp := &ConfigResponse{
		Mode:      string(c.Mode),
		UpdatedAt: c.UpdatedAt,
	}

	switch c.Mode {
	case domain.ModePaycheck:
		resp.MonthlyIncome = c.MonthlyIncome.StringFixed(2)
		resp.DaysUntilPaycheck = c.DaysUntilPaycheck
		resp.NextPaycheck = c.NextPaycheck
	case domain.ModeFixedPool:
		resp.TotalMoney = c.TotalMoney.StringFixed(2)
		resp.TargetEndDate = c.TargetEndDate
		if !c.DailySpendingLimit.IsZero() {
			resp.DailySpendingLimit = c.DailySpendingLimit.StringFixed(2)
		}
	}

	return resp
}

// ExpenseResponse represents a recurring expense in API responses.
type ExpenseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	IsFixed   bool      `json:"is_fixed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:        e.ID,
		Name:      e.Name,
		Amount:    e.Amount.StringFixed(2),
		IsFixed:   e.IsFixed,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// ListExpensesResponse wraps an expense listing with its exact total.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    string             `json:"total"`
}

// TransactionResponse represents a logged transaction.
type TransactionResponse struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Date:        t.Date,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a transaction listing with the paging that
// was actually applied, so a clamped limit is visible to the caller.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// DeleteResponse reports whether a delete removed anything. The operation is
// idempotent either way.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
