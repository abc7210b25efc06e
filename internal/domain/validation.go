package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTextLength        = 200
	MaxDaysUntilPaycheck = 365
	MaxAmountString      = "10000000" // $10 million
)

// MaxAmount is the largest amount accepted on any write path.
var MaxAmount = decimal.RequireFromString(MaxAmountString)

// ValidateAmount validates a money amount shared by every write path.
// Zero is rejected unless allowZero is set.
func ValidateAmount(amount decimal.Decimal, allowZero bool) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}

	if amount.IsZero() && !allowZero {
		return ErrZeroAmount
	}

	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxAmountString)
	}

	return nil
}

// ValidateText trims and validates a free-text field. The returned string is
// the trimmed value that must be persisted.
func ValidateText(value, field string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = MaxTextLength
	}

	value = strings.TrimSpace(value)

	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyField, field)
	}

	if len(value) > maxLength {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrTextTooLong, field, maxLength)
	}

	return value, nil
}

// ValidateDays validates a day count used as a division denominator.
func ValidateDays(days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	if days > MaxDaysUntilPaycheck {
		return fmt.Errorf("%w: maximum is %d", ErrTooManyDays, MaxDaysUntilPaycheck)
	}

	return nil
}
