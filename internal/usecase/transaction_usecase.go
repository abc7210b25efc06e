package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
)

// Listing page bounds. A request above MaxListLimit is clamped, never
// rejected; NormalizeFilter reports what was actually applied.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// TransactionUseCase handles spending-transaction business logic.
type TransactionUseCase struct {
	txRepo  TransactionRepository
	idGen   IDGenerator
	cache   NumberCache
	metrics *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(txRepo TransactionRepository, idGen IDGenerator, cache NumberCache, metrics *metrics.Metrics) *TransactionUseCase {
	return &TransactionUseCase{
		txRepo:  txRepo,
		idGen:   idGen,
		cache:   cache,
		metrics: metrics,
	}
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	UserID      string
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        *time.Time
}

// CreateTransaction validates and records a spending event.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()

	date := now
	if input.Date != nil {
		date = *input.Date
	}

	transaction, err := domain.NewTransaction(uc.idGen.Generate(), input.UserID, date, input.Amount, input.Description, input.Category, now)
	if err != nil {
		return nil, err
	}

	if err := uc.txRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Delete(input.UserID)
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
	}

	return transaction, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, userID, id)
}

// NormalizeFilter applies the listing page bounds. The returned filter is
// what the query will actually run with, so callers can echo it back.
func NormalizeFilter(filter TransactionFilter) TransactionFilter {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}

// ListTransactions lists transactions, newest first, with optional date-range
// and category filters. Paging runs through NormalizeFilter; the returned
// filter carries the limit and offset that were applied.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*domain.Transaction, TransactionFilter, error) {
	filter = NormalizeFilter(filter)
	transactions, err := uc.txRepo.List(ctx, userID, filter)
	return transactions, filter, err
}

// DeleteTransaction removes a transaction. Idempotent: deleting an absent ID
// reports false, never an error.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, userID, id string) (bool, error) {
	deleted, err := uc.txRepo.Delete(ctx, userID, id)
	if err != nil {
		return false, err
	}

	if deleted && uc.cache != nil {
		uc.cache.Delete(userID)
	}

	return deleted, nil
}

// TodaySpending sums today's transactions, income excluded.
func (uc *TransactionUseCase) TodaySpending(ctx context.Context, userID string, now time.Time) (decimal.Decimal, error) {
	from, to := dayBounds(now)
	return uc.txRepo.SumSpending(ctx, userID, from, to)
}

// dayBounds returns the UTC start and end of the day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
