package domain

import "errors"

var (
	// Validation errors (caller-recoverable)
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrZeroAmount      = errors.New("amount must be positive")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrEmptyField      = errors.New("field cannot be empty")
	ErrTextTooLong     = errors.New("field exceeds maximum length")
	ErrInvalidDays     = errors.New("days must be positive")
	ErrTooManyDays     = errors.New("days exceeds maximum allowed")
	ErrInvalidMode     = errors.New("invalid budget mode")
	ErrTargetInPast    = errors.New("target end date must be in the future")
	ErrAmbiguousPolicy = errors.New("exactly one of target end date or daily spending limit must be set")

	// Configuration errors
	ErrNotConfigured = errors.New("budget mode not configured")

	// Not-found errors
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrConfigNotFound      = errors.New("budget configuration not found")

	// Store errors (fatal for the store instance or that read)
	ErrKeyMissing    = errors.New("encryption key missing or malformed")
	ErrDecryptFailed = errors.New("stored data cannot be decrypted")

	// Transient contention
	ErrRetryExhausted = errors.New("storage busy: retries exhausted")

	// Authentication errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// IsValidation reports whether err belongs to the caller-recoverable
// validation class of the error taxonomy.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNegativeAmount, ErrZeroAmount, ErrAmountTooLarge,
		ErrEmptyField, ErrTextTooLong,
		ErrInvalidDays, ErrTooManyDays,
		ErrInvalidMode, ErrTargetInPast, ErrAmbiguousPolicy,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
