package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// ConfigUseCase handles budget configuration.
type ConfigUseCase struct {
	configRepo ConfigRepository
	cache      NumberCache
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewConfigUseCase creates a new ConfigUseCase.
func NewConfigUseCase(configRepo ConfigRepository, cache NumberCache, metrics *metrics.Metrics) *ConfigUseCase {
	return &ConfigUseCase{
		configRepo: configRepo,
		cache:      cache,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ConfigureInput represents the single wholesale configure operation.
type ConfigureInput struct {
	UserID             string
	Mode               domain.Mode
	MonthlyIncome      decimal.Decimal
	DaysUntilPaycheck  int
	NextPaycheck       *time.Time
	TotalMoney         decimal.Decimal
	TargetEndDate      *time.Time
	DailySpendingLimit decimal.Decimal
}

// Configure validates and replaces the budget configuration wholesale.
func (uc *ConfigUseCase) Configure(ctx context.Context, input ConfigureInput) (*domain.BudgetConfig, error) {
	now := uc.now()

	config := &domain.BudgetConfig{
		UserID:             input.UserID,
		Mode:               input.Mode,
		MonthlyIncome:      input.MonthlyIncome,
		DaysUntilPaycheck:  input.DaysUntilPaycheck,
		NextPaycheck:       input.NextPaycheck,
		TotalMoney:         input.TotalMoney,
		TargetEndDate:      input.TargetEndDate,
		DailySpendingLimit: input.DailySpendingLimit,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := config.Validate(now); err != nil {
		return nil, err
	}

	if err := uc.configRepo.Save(ctx, config); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Delete(input.UserID)
	}

	if uc.metrics != nil {
		uc.metrics.BudgetConfigured.WithLabelValues(string(config.Mode)).Inc()
	}

	return config, nil
}

// GetConfig retrieves the current configuration.
func (uc *ConfigUseCase) GetConfig(ctx context.Context, userID string) (*domain.BudgetConfig, error) {
	return uc.configRepo.Get(ctx, userID)
}
