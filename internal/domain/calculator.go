package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// daysPerMonth prorates monthly recurring costs over exact day counts. It is
// only ever used to spread expenses, never to count calendar days.
var daysPerMonth = decimal.NewFromInt(30)

// BudgetResult is the full calculation output. All intermediate arithmetic is
// exact decimal; rounding to two digits happens at the presentation boundary.
type BudgetResult struct {
	Mode       Mode
	DailyLimit decimal.Decimal

	// Paycheck mode
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	RemainingMoney decimal.Decimal
	DaysRemaining  int
	IsDeficit      bool
	DeficitAmount  decimal.Decimal

	// Fixed-pool mode
	TotalMoney        decimal.Decimal
	DailyExpenseShare decimal.Decimal
	OutOfMoney        bool
	ExpiredTarget     bool
	Unbounded         bool
	DaysMoneyWillLast int64

	// Today's-spending adjustment
	SpentToday         decimal.Decimal
	RemainingToday     decimal.Decimal
	IsOverBudget       bool
	AdjustedDailyLimit *decimal.Decimal
}

// CalculatePaycheck computes the daily limit for paycheck mode. Division by a
// non-positive day count is never attempted.
func CalculatePaycheck(income decimal.Decimal, days int, totalExpenses decimal.Decimal) (*BudgetResult, error) {
	if err := ValidateAmount(income, true); err != nil {
		return nil, err
	}

	if err := ValidateDays(days); err != nil {
		return nil, err
	}

	remaining := income.Sub(totalExpenses)
	isDeficit := remaining.IsNegative()

	daily := remaining.Div(decimal.NewFromInt(int64(days)))
	deficit := decimal.Zero
	if isDeficit {
		daily = decimal.Zero
		deficit = remaining.Neg()
	}

	return &BudgetResult{
		Mode:           ModePaycheck,
		DailyLimit:     daily,
		TotalIncome:    income,
		TotalExpenses:  totalExpenses,
		RemainingMoney: remaining,
		DaysRemaining:  days,
		IsDeficit:      isDeficit,
		DeficitAmount:  deficit,
	}, nil
}

// FixedPoolInput selects the fixed-pool sub-policy: exactly one of
// TargetEndDate or DailySpendingLimit, as enforced by BudgetConfig.Validate.
type FixedPoolInput struct {
	TotalMoney         decimal.Decimal
	MonthlyExpenses    decimal.Decimal
	TargetEndDate      *time.Time
	DailySpendingLimit decimal.Decimal
	Today              time.Time
}

// CalculateFixedPool computes the daily limit for fixed-pool mode.
func CalculateFixedPool(in FixedPoolInput) (*BudgetResult, error) {
	result := &BudgetResult{
		Mode:          ModeFixedPool,
		TotalMoney:    in.TotalMoney,
		TotalExpenses: in.MonthlyExpenses,
		DailyLimit:    decimal.Zero,
	}

	// An exhausted or overdrawn pool short-circuits before any division.
	if !in.TotalMoney.IsPositive() {
		result.OutOfMoney = true
		return result, nil
	}

	result.DailyExpenseShare = in.MonthlyExpenses.Div(daysPerMonth)

	switch {
	case in.TargetEndDate != nil:
		days := DaysBetween(in.Today, *in.TargetEndDate)
		result.DaysRemaining = days

		if days <= 0 {
			result.ExpiredTarget = true
			return result, nil
		}

		// Multiply before dividing so an exactly-exhausted pool comes out
		// at exactly zero.
		projected := in.MonthlyExpenses.Mul(decimal.NewFromInt(int64(days))).Div(daysPerMonth)
		remaining := in.TotalMoney.Sub(projected)
		result.RemainingMoney = remaining

		daily := remaining.Div(decimal.NewFromInt(int64(days)))
		if daily.IsNegative() {
			daily = decimal.Zero
		}
		result.DailyLimit = daily

	default:
		result.DailyLimit = in.DailySpendingLimit
		result.RemainingMoney = in.TotalMoney.Sub(in.MonthlyExpenses)

		if in.DailySpendingLimit.IsPositive() {
			result.DaysMoneyWillLast = result.RemainingMoney.Div(in.DailySpendingLimit).Floor().IntPart()
			if result.DaysMoneyWillLast < 0 {
				result.DaysMoneyWillLast = 0
			}
			result.DaysRemaining = int(result.DaysMoneyWillLast)
		} else {
			// Never propagate a raw infinity to the caller.
			result.Unbounded = true
		}
	}

	return result, nil
}

// ApplyTodaySpending folds today's transaction total into a result. When the
// user is over budget and days remain, an adjusted daily budget spreading the
// overspend across the rest of the period is exposed alongside the original
// limit, never in place of it.
func ApplyTodaySpending(result *BudgetResult, spentToday decimal.Decimal) {
	result.SpentToday = spentToday
	result.RemainingToday = result.DailyLimit.Sub(spentToday)
	result.IsOverBudget = result.RemainingToday.IsNegative()

	if !result.IsOverBudget {
		return
	}

	remainingDays := result.DaysRemaining - 1
	if remainingDays <= 0 {
		return
	}

	overspend := result.RemainingToday.Neg()
	adjusted := result.RemainingMoney.Sub(overspend).Div(decimal.NewFromInt(int64(remainingDays)))
	if adjusted.IsNegative() {
		adjusted = decimal.Zero
	}

	result.AdjustedDailyLimit = &adjusted
}
