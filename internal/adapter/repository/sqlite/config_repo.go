package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// ConfigRepository implements usecase.ConfigRepository. The whole
// configuration is stored as one encrypted payload per user; Save replaces
// it wholesale, matching the single configure transition.
type ConfigRepository struct {
	db      *sql.DB
	cipher  *FieldCipher
	retrier *Retrier
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(db *sql.DB, cipher *FieldCipher, m *metrics.Metrics) *ConfigRepository {
	return &ConfigRepository{
		db:      db,
		cipher:  cipher,
		retrier: NewRetrier(m),
	}
}

// configPayload is the encrypted-at-rest shape of a BudgetConfig. Amounts
// are serialized as decimal strings to keep them exact.
type configPayload struct {
	Mode               domain.Mode `json:"mode"`
	MonthlyIncome      string      `json:"monthly_income,omitempty"`
	DaysUntilPaycheck  int         `json:"days_until_paycheck,omitempty"`
	NextPaycheck       *time.Time  `json:"next_paycheck,omitempty"`
	TotalMoney         string      `json:"total_money,omitempty"`
	TargetEndDate      *time.Time  `json:"target_end_date,omitempty"`
	DailySpendingLimit string      `json:"daily_spending_limit,omitempty"`
}

// Save upserts the configuration for a user.
func (r *ConfigRepository) Save(ctx context.Context, config *domain.BudgetConfig) error {
	payload, err := json.Marshal(configPayload{
		Mode:               config.Mode,
		MonthlyIncome:      config.MonthlyIncome.String(),
		DaysUntilPaycheck:  config.DaysUntilPaycheck,
		NextPaycheck:       config.NextPaycheck,
		TotalMoney:         config.TotalMoney.String(),
		TargetEndDate:      config.TargetEndDate,
		DailySpendingLimit: config.DailySpendingLimit.String(),
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	encrypted, err := r.cipher.Encrypt(string(payload))
	if err != nil {
		return err
	}

	return r.retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO budget_configs (user_id, payload, created_at, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET
			     payload = excluded.payload,
			     updated_at = excluded.updated_at`,
			config.UserID, encrypted,
			formatTime(config.CreatedAt), formatTime(config.UpdatedAt),
		)
		return err
	})
}

// Get retrieves and decrypts the configuration for a user.
func (r *ConfigRepository) Get(ctx context.Context, userID string) (*domain.BudgetConfig, error) {
	var encrypted, createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT payload, created_at, updated_at FROM budget_configs WHERE user_id = ?`,
		userID,
	).Scan(&encrypted, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, err
	}

	raw, err := r.cipher.Decrypt(encrypted)
	if err != nil {
		return nil, err
	}

	var payload configPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: stored config is not valid JSON", domain.ErrDecryptFailed)
	}

	config := &domain.BudgetConfig{
		UserID:            userID,
		Mode:              payload.Mode,
		DaysUntilPaycheck: payload.DaysUntilPaycheck,
		NextPaycheck:      payload.NextPaycheck,
		TargetEndDate:     payload.TargetEndDate,
	}

	if config.MonthlyIncome, err = parseStoredDecimal(payload.MonthlyIncome); err != nil {
		return nil, err
	}
	if config.TotalMoney, err = parseStoredDecimal(payload.TotalMoney); err != nil {
		return nil, err
	}
	if config.DailySpendingLimit, err = parseStoredDecimal(payload.DailySpendingLimit); err != nil {
		return nil, err
	}

	if config.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if config.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return config, nil
}

func parseStoredDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: stored amount is not a decimal", domain.ErrDecryptFailed)
	}

	return d, nil
}
