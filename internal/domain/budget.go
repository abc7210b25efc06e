package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Mode identifies the budgeting model in effect.
type Mode string

const (
	ModeUnconfigured Mode = ""
	ModePaycheck     Mode = "paycheck"
	ModeFixedPool    Mode = "fixed_pool"
)

// BudgetConfig is the single-user budget configuration. It is replaced
// wholesale by one configure operation; there is no partial-update path.
type BudgetConfig struct {
	UserID string
	Mode   Mode

	// Paycheck mode
	MonthlyIncome     decimal.Decimal
	DaysUntilPaycheck int
	NextPaycheck      *time.Time

	// Fixed-pool mode
	TotalMoney         decimal.Decimal
	TargetEndDate      *time.Time
	DailySpendingLimit decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the configuration against the invariants of its mode.
// today is the caller's current date, used to derive paycheck countdowns and
// to reject past target dates.
func (c *BudgetConfig) Validate(today time.Time) error {
	switch c.Mode {
	case ModePaycheck:
		if err := ValidateAmount(c.MonthlyIncome, false); err != nil {
			return err
		}

		days := c.DaysUntilPaycheck
		if days == 0 && c.NextPaycheck != nil {
			days = DaysBetween(today, *c.NextPaycheck)
		}
		if err := ValidateDays(days); err != nil {
			return err
		}

	case ModeFixedPool:
		if err := ValidateAmount(c.TotalMoney, false); err != nil {
			return err
		}

		hasTarget := c.TargetEndDate != nil
		hasLimit := !c.DailySpendingLimit.IsZero()
		if hasTarget == hasLimit {
			return ErrAmbiguousPolicy
		}

		if hasTarget && DaysBetween(today, *c.TargetEndDate) <= 0 {
			return ErrTargetInPast
		}

		if hasLimit {
			if err := ValidateAmount(c.DailySpendingLimit, false); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	return nil
}

// EffectiveDays returns the countdown denominator for paycheck mode,
// preferring an explicit day count over a derived one.
func (c *BudgetConfig) EffectiveDays(today time.Time) int {
	if c.DaysUntilPaycheck > 0 {
		return c.DaysUntilPaycheck
	}
	if c.NextPaycheck != nil {
		return DaysBetween(today, *c.NextPaycheck)
	}
	return 0
}

// DaysBetween counts whole calendar days from a to b, using real dates
// rather than a 30-day-per-month approximation.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()

	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	return int(end.Sub(start).Hours() / 24)
}
