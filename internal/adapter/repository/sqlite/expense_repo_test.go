package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	infrasqlite "github.com/mvr/thenumber/internal/infrastructure/sqlite"
	"github.com/mvr/thenumber/internal/usecase"
)

const testUserID = "user-1"

func setupTestDB(t *testing.T) (*sql.DB, *FieldCipher) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := infrasqlite.RunMigrations(dbPath); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	db, err := infrasqlite.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cipher, err := NewFieldCipher(testKey(t), nil)
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	return db, cipher
}

func mustExpense(t *testing.T, id, name, amount string, isFixed bool) *domain.Expense {
	t.Helper()
	expense, err := domain.NewExpense(id, testUserID, name, decimal.RequireFromString(amount), isFixed, time.Now().UTC())
	if err != nil {
		t.Fatalf("new expense: %v", err)
	}
	return expense
}

func TestExpenseRepositoryRoundTrip(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewExpenseRepository(db, cipher, nil)
	ctx := context.Background()

	created := mustExpense(t, "exp-1", "Rent", "850.50", true)
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, testUserID, "exp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Name != "Rent" {
		t.Errorf("name = %q, want Rent", got.Name)
	}
	if !got.Amount.Equal(decimal.RequireFromString("850.50")) {
		t.Errorf("amount = %s, want 850.50", got.Amount)
	}
	if !got.IsFixed {
		t.Error("is_fixed not preserved")
	}
}

func TestExpenseRepositoryEncryptsAtRest(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewExpenseRepository(db, cipher, nil)
	ctx := context.Background()

	if err := repo.Create(ctx, mustExpense(t, "exp-1", "Netflix", "15.99", false)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var storedName, storedAmount string
	err := db.QueryRowContext(ctx, "SELECT name, amount FROM expenses WHERE id = ?", "exp-1").
		Scan(&storedName, &storedAmount)
	if err != nil {
		t.Fatalf("raw select: %v", err)
	}

	if storedName == "Netflix" {
		t.Error("name stored in plaintext")
	}
	if storedAmount == "15.99" {
		t.Error("amount stored in plaintext")
	}
}

func TestExpenseRepositoryDecimalSum(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewExpenseRepository(db, cipher, nil)
	ctx := context.Background()

	if err := repo.Create(ctx, mustExpense(t, "exp-1", "First", "10.10", true)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, mustExpense(t, "exp-2", "Second", "20.20", true)); err != nil {
		t.Fatalf("create: %v", err)
	}

	expenses, err := repo.List(ctx, testUserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	total := domain.TotalExpenses(expenses)
	if !total.Equal(decimal.RequireFromString("30.30")) {
		t.Errorf("total = %s, want exactly 30.30", total)
	}
}

func TestExpenseRepositoryUpdate(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewExpenseRepository(db, cipher, nil)
	ctx := context.Background()

	if err := repo.Create(ctx, mustExpense(t, "exp-1", "Gym", "40.00", true)); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("partial update", func(t *testing.T) {
		amount := decimal.RequireFromString("55.00")
		updated, err := repo.Update(ctx, testUserID, "exp-1", usecase.ExpenseUpdate{Amount: &amount})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !updated.Amount.Equal(amount) {
			t.Errorf("amount = %s, want 55.00", updated.Amount)
		}
		if updated.Name != "Gym" {
			t.Errorf("name changed unexpectedly to %q", updated.Name)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		name := "Other"
		_, err := repo.Update(ctx, testUserID, "missing", usecase.ExpenseUpdate{Name: &name})
		if !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Fatalf("expected ErrExpenseNotFound, got %v", err)
		}
	})

	t.Run("other user cannot update", func(t *testing.T) {
		name := "Hijacked"
		_, err := repo.Update(ctx, "user-2", "exp-1", usecase.ExpenseUpdate{Name: &name})
		if !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Fatalf("expected ErrExpenseNotFound, got %v", err)
		}
	})
}

func TestExpenseRepositoryDeleteIdempotent(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewExpenseRepository(db, cipher, nil)
	ctx := context.Background()

	if err := repo.Create(ctx, mustExpense(t, "exp-1", "One-off", "5.00", false)); err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := repo.Delete(ctx, testUserID, "exp-1")
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if !deleted {
		t.Error("first delete should report true")
	}

	deleted, err = repo.Delete(ctx, testUserID, "exp-1")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("second delete should report false")
	}
}

func TestExpenseRepositoryReplaceAll(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewExpenseRepository(db, cipher, nil)
	ctx := context.Background()

	if err := repo.Create(ctx, mustExpense(t, "old-1", "Old", "1.00", true)); err != nil {
		t.Fatalf("create: %v", err)
	}

	replacement := []*domain.Expense{
		mustExpense(t, "new-1", "Rent", "800.00", true),
		mustExpense(t, "new-2", "Food", "300.00", false),
	}
	if err := repo.ReplaceAll(ctx, testUserID, replacement); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	expenses, err := repo.List(ctx, testUserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses after replace, got %d", len(expenses))
	}
	for _, e := range expenses {
		if e.ID == "old-1" {
			t.Error("previous expense survived replace")
		}
	}
}

func TestExpenseRepositoryCorruptCiphertext(t *testing.T) {
	db, cipher := setupTestDB(t)
	repo := NewExpenseRepository(db, cipher, nil)
	ctx := context.Background()

	if err := repo.Create(ctx, mustExpense(t, "exp-1", "Rent", "850.00", true)); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := db.ExecContext(ctx, "UPDATE expenses SET name = ? WHERE id = ?", "bm90LXJlYWwtY2lwaGVydGV4dA==", "exp-1")
	if err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	if _, err := repo.GetByID(ctx, testUserID, "exp-1"); !errors.Is(err, domain.ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}
