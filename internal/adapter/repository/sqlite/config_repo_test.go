package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
)

func TestConfigRepositorySaveAndGet(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewConfigRepository(db, cipher, nil)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	config := &domain.BudgetConfig{
		UserID:            testUserID,
		Mode:              domain.ModePaycheck,
		MonthlyIncome:     decimal.RequireFromString("5000"),
		DaysUntilPaycheck: 15,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repo.Save(ctx, config); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Mode != domain.ModePaycheck {
		t.Errorf("mode = %q, want paycheck", got.Mode)
	}
	if !got.MonthlyIncome.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("income = %s, want 5000", got.MonthlyIncome)
	}
	if got.DaysUntilPaycheck != 15 {
		t.Errorf("days = %d, want 15", got.DaysUntilPaycheck)
	}
}

func TestConfigRepositorySaveReplacesWholesale(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewConfigRepository(db, cipher, nil)
	ctx := context.Background()

	now := time.Now().UTC()
	first := &domain.BudgetConfig{
		UserID:            testUserID,
		Mode:              domain.ModePaycheck,
		MonthlyIncome:     decimal.RequireFromString("5000"),
		DaysUntilPaycheck: 15,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := &domain.BudgetConfig{
		UserID:             testUserID,
		Mode:               domain.ModeFixedPool,
		TotalMoney:         decimal.RequireFromString("3000"),
		DailySpendingLimit: decimal.RequireFromString("200"),
		CreatedAt:          now,
		UpdatedAt:          now.Add(time.Hour),
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := repo.Get(ctx, testUserID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Mode != domain.ModeFixedPool {
		t.Errorf("mode = %q, want fixed_pool", got.Mode)
	}
	// Nothing from the previous mode survives the switch.
	if !got.MonthlyIncome.IsZero() || got.DaysUntilPaycheck != 0 {
		t.Errorf("paycheck fields leaked through: income=%s days=%d", got.MonthlyIncome, got.DaysUntilPaycheck)
	}
	if !got.DailySpendingLimit.Equal(decimal.RequireFromString("200")) {
		t.Errorf("daily limit = %s, want 200", got.DailySpendingLimit)
	}
}

func TestConfigRepositoryGetMissing(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewConfigRepository(db, cipher, nil)

	if _, err := repo.Get(context.Background(), "nobody"); !errors.Is(err, domain.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestConfigRepositoryCorruptPayload(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewConfigRepository(db, cipher, nil)
	ctx := context.Background()

	now := time.Now().UTC()
	config := &domain.BudgetConfig{
		UserID:             testUserID,
		Mode:               domain.ModeFixedPool,
		TotalMoney:         decimal.RequireFromString("1000"),
		DailySpendingLimit: decimal.RequireFromString("50"),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := repo.Save(ctx, config); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Valid ciphertext of invalid JSON still fails closed.
	garbage, err := cipher.Encrypt("{not json")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE budget_configs SET payload = ? WHERE user_id = ?", garbage, testUserID); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	if _, err := repo.Get(ctx, testUserID); !errors.Is(err, domain.ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}
