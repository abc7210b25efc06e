package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// BudgetUseCase computes "The Number": the daily spending limit derived from
// the current configuration, expenses and today's transactions.
type BudgetUseCase struct {
	configRepo  ConfigRepository
	expenseRepo ExpenseRepository
	txRepo      TransactionRepository
	cache       NumberCache
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(configRepo ConfigRepository, expenseRepo ExpenseRepository, txRepo TransactionRepository, cache NumberCache, metrics *metrics.Metrics) *BudgetUseCase {
	return &BudgetUseCase{
		configRepo:  configRepo,
		expenseRepo: expenseRepo,
		txRepo:      txRepo,
		cache:       cache,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetNumber recomputes the daily spending limit from current rows. Aggregates
// are never stored, so the result can never drift from the underlying data.
func (uc *BudgetUseCase) GetNumber(ctx context.Context, userID string) (*domain.BudgetResult, error) {
	if uc.cache != nil {
		if result, ok := uc.cache.Get(userID); ok {
			if uc.metrics != nil {
				uc.metrics.CacheHits.Inc()
			}
			return result, nil
		}
		if uc.metrics != nil {
			uc.metrics.CacheMisses.Inc()
		}
	}

	config, err := uc.configRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return nil, domain.ErrNotConfigured
		}
		return nil, err
	}

	expenses, err := uc.expenseRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalExpenses := domain.TotalExpenses(expenses)

	now := uc.now()

	var result *domain.BudgetResult
	switch config.Mode {
	case domain.ModePaycheck:
		result, err = domain.CalculatePaycheck(config.MonthlyIncome, config.EffectiveDays(now), totalExpenses)
	case domain.ModeFixedPool:
		result, err = domain.CalculateFixedPool(domain.FixedPoolInput{
			TotalMoney:         config.TotalMoney,
			MonthlyExpenses:    totalExpenses,
			TargetEndDate:      config.TargetEndDate,
			DailySpendingLimit: config.DailySpendingLimit,
			Today:              now,
		})
	default:
		return nil, domain.ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("calculate budget: %w", err)
	}

	from, to := dayBounds(now)
	spentToday, err := uc.txRepo.SumSpending(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	domain.ApplyTodaySpending(result, spentToday)

	if uc.metrics != nil {
		uc.metrics.BudgetCalculations.WithLabelValues(string(config.Mode)).Inc()
		if result.IsDeficit {
			uc.metrics.BudgetDeficits.Inc()
		}
	}

	if uc.cache != nil {
		uc.cache.Set(userID, result)
	}

	return result, nil
}
