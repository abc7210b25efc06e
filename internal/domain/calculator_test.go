package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculatePaycheck(t *testing.T) {
	t.Parallel()

	t.Run("exact division of remaining money", func(t *testing.T) {
		result, err := CalculatePaycheck(d("5000"), 15, d("2000"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.DailyLimit.Equal(d("200")) {
			t.Errorf("expected daily limit 200, got %s", result.DailyLimit)
		}
		if result.IsDeficit {
			t.Error("expected no deficit")
		}
		if !result.RemainingMoney.Equal(d("3000")) {
			t.Errorf("expected remaining 3000, got %s", result.RemainingMoney)
		}
	})

	t.Run("expenses equal income", func(t *testing.T) {
		result, err := CalculatePaycheck(d("3000"), 10, d("3000"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.DailyLimit.IsZero() {
			t.Errorf("expected zero daily limit, got %s", result.DailyLimit)
		}
		if result.IsDeficit {
			t.Error("zero remaining is not a deficit")
		}
	})

	t.Run("deficit when expenses exceed income", func(t *testing.T) {
		result, err := CalculatePaycheck(d("2000"), 10, d("2500"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.DailyLimit.IsZero() {
			t.Errorf("expected zero daily limit, got %s", result.DailyLimit)
		}
		if !result.IsDeficit {
			t.Error("expected deficit")
		}
		if !result.DeficitAmount.Equal(d("500")) {
			t.Errorf("expected deficit amount 500, got %s", result.DeficitAmount)
		}
	})

	t.Run("non-positive days rejected", func(t *testing.T) {
		for _, days := range []int{0, -1} {
			if _, err := CalculatePaycheck(d("5000"), days, d("1000")); !errors.Is(err, ErrInvalidDays) {
				t.Errorf("days=%d: expected ErrInvalidDays, got %v", days, err)
			}
		}
	})

	t.Run("days over a year rejected", func(t *testing.T) {
		if _, err := CalculatePaycheck(d("5000"), 366, d("1000")); !errors.Is(err, ErrTooManyDays) {
			t.Errorf("expected ErrTooManyDays, got %v", err)
		}
	})

	t.Run("cent precision survives division", func(t *testing.T) {
		result, err := CalculatePaycheck(d("100.10"), 3, d("0.10"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// (100.10 - 0.10) / 3 with no binary-float drift.
		want := d("100").Div(d("3"))
		if !result.DailyLimit.Equal(want) {
			t.Errorf("expected %s, got %s", want, result.DailyLimit)
		}
	})
}

func TestCalculateFixedPool_TargetDate(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("funds exactly exhausted at target", func(t *testing.T) {
		target := today.AddDate(0, 0, 150)
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney:      d("10000"),
			MonthlyExpenses: d("2000"),
			TargetEndDate:   &target,
			Today:           today,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.DaysRemaining != 150 {
			t.Errorf("expected 150 days, got %d", result.DaysRemaining)
		}
		if !result.DailyLimit.IsZero() {
			t.Errorf("expected zero daily limit, got %s", result.DailyLimit)
		}
	})

	t.Run("surplus over projected expenses", func(t *testing.T) {
		target := today.AddDate(0, 0, 30)
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney:      d("4000"),
			MonthlyExpenses: d("1000"),
			TargetEndDate:   &target,
			Today:           today,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 4000 - 1000*30/30 = 3000, spread over 30 days.
		if !result.DailyLimit.Equal(d("100")) {
			t.Errorf("expected daily limit 100, got %s", result.DailyLimit)
		}
	})

	t.Run("calendar days across february", func(t *testing.T) {
		feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		target := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney:    d("2800"),
			TargetEndDate: &target,
			Today:         feb,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 2026 is not a leap year: exactly 28 days, not 30.
		if result.DaysRemaining != 28 {
			t.Errorf("expected 28 days, got %d", result.DaysRemaining)
		}
		if !result.DailyLimit.Equal(d("100")) {
			t.Errorf("expected daily limit 100, got %s", result.DailyLimit)
		}
	})

	t.Run("expired target flags instead of dividing", func(t *testing.T) {
		past := today.AddDate(0, 0, -1)
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney:    d("1000"),
			TargetEndDate: &past,
			Today:         today,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.ExpiredTarget {
			t.Error("expected expired target flag")
		}
		if !result.DailyLimit.IsZero() {
			t.Errorf("expected zero daily limit, got %s", result.DailyLimit)
		}
	})
}

func TestCalculateFixedPool_DailyLimit(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("user cap passed through", func(t *testing.T) {
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney:         d("3050"),
			MonthlyExpenses:    d("1000"),
			DailySpendingLimit: d("200"),
			Today:              today,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.DailyLimit.Equal(d("200")) {
			t.Errorf("expected daily limit 200, got %s", result.DailyLimit)
		}

		// floor((3050-1000)/200) = floor(10.25) = 10
		if result.DaysMoneyWillLast != 10 {
			t.Errorf("expected 10 days, got %d", result.DaysMoneyWillLast)
		}
	})

	t.Run("zero cap flags unbounded instead of infinity", func(t *testing.T) {
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney: d("1000"),
			Today:      today,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.Unbounded {
			t.Error("expected unbounded flag")
		}
	})

	t.Run("out of money short-circuits", func(t *testing.T) {
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney:         decimal.Zero,
			DailySpendingLimit: d("50"),
			Today:              today,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.OutOfMoney {
			t.Error("expected out of money flag")
		}
		if !result.DailyLimit.IsZero() {
			t.Errorf("expected zero daily limit, got %s", result.DailyLimit)
		}
	})

	t.Run("overdrawn pool reports out of money", func(t *testing.T) {
		result, err := CalculateFixedPool(FixedPoolInput{
			TotalMoney:         d("-1"),
			DailySpendingLimit: d("50"),
			Today:              today,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.OutOfMoney {
			t.Error("expected out of money flag")
		}
		if !result.DailyLimit.IsZero() {
			t.Errorf("expected zero daily limit, got %s", result.DailyLimit)
		}
	})
}

func TestApplyTodaySpending(t *testing.T) {
	t.Parallel()

	t.Run("under budget", func(t *testing.T) {
		result, err := CalculatePaycheck(d("5000"), 15, d("2000"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ApplyTodaySpending(result, d("50"))

		if !result.RemainingToday.Equal(d("150")) {
			t.Errorf("expected remaining 150, got %s", result.RemainingToday)
		}
		if result.IsOverBudget {
			t.Error("expected not over budget")
		}
		if result.AdjustedDailyLimit != nil {
			t.Error("no adjustment expected while under budget")
		}
	})

	t.Run("over budget exposes both values", func(t *testing.T) {
		result, err := CalculatePaycheck(d("5000"), 15, d("2000"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ApplyTodaySpending(result, d("250"))

		if !result.IsOverBudget {
			t.Error("expected over budget")
		}
		if !result.RemainingToday.Equal(d("-50")) {
			t.Errorf("expected remaining -50, got %s", result.RemainingToday)
		}
		if result.AdjustedDailyLimit == nil {
			t.Fatal("expected adjusted daily limit")
		}
		// Original number must still be visible next to the adjustment.
		if !result.DailyLimit.Equal(d("200")) {
			t.Errorf("original daily limit must be preserved, got %s", result.DailyLimit)
		}
		// (3000 - 50) / 14
		want := d("2950").Div(d("14"))
		if !result.AdjustedDailyLimit.Equal(want) {
			t.Errorf("expected adjusted %s, got %s", want, result.AdjustedDailyLimit)
		}
	})

	t.Run("no adjustment on last day", func(t *testing.T) {
		result, err := CalculatePaycheck(d("100"), 1, d("0"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ApplyTodaySpending(result, d("150"))

		if !result.IsOverBudget {
			t.Error("expected over budget")
		}
		if result.AdjustedDailyLimit != nil {
			t.Error("no remaining days to spread the overspend across")
		}
	})
}
