package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/usecase"
	"github.com/mvr/thenumber/internal/usecase/mocks"
)

func TestExpenseUseCase_CreateExpense(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateExpenseInput
		wantErr     error
		expectError bool
	}{
		{
			name: "valid expense",
			input: usecase.CreateExpenseInput{
				UserID:  "user1",
				Name:    "Rent",
				Amount:  decimal.RequireFromString("1500"),
				IsFixed: true,
			},
		},
		{
			name: "negative amount rejected",
			input: usecase.CreateExpenseInput{
				UserID: "user1",
				Name:   "Rent",
				Amount: decimal.RequireFromString("-1"),
			},
			wantErr:     domain.ErrNegativeAmount,
			expectError: true,
		},
		{
			name: "empty name rejected",
			input: usecase.CreateExpenseInput{
				UserID: "user1",
				Name:   "   ",
				Amount: decimal.RequireFromString("10"),
			},
			wantErr:     domain.ErrEmptyField,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockExpenseRepository()
			cache := mocks.NewMockNumberCache()
			uc := usecase.NewExpenseUseCase(repo, mocks.NewMockIDGenerator(), cache, nil)

			expense, err := uc.CreateExpense(context.Background(), tt.input)

			if tt.expectError {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if expense.ID == "" {
				t.Error("expected generated ID")
			}
			if cache.Deletes != 1 {
				t.Errorf("expected cache invalidation, got %d deletes", cache.Deletes)
			}
		})
	}
}

func TestExpenseUseCase_UpdateExpense(t *testing.T) {
	ctx := context.Background()

	newRepoWithExpense := func(t *testing.T) (*mocks.MockExpenseRepository, *usecase.ExpenseUseCase, string) {
		t.Helper()
		repo := mocks.NewMockExpenseRepository()
		uc := usecase.NewExpenseUseCase(repo, mocks.NewMockIDGenerator(), mocks.NewMockNumberCache(), nil)
		expense, err := uc.CreateExpense(ctx, usecase.CreateExpenseInput{
			UserID: "user1",
			Name:   "Utilities",
			Amount: decimal.RequireFromString("200"),
		})
		if err != nil {
			t.Fatalf("seed expense: %v", err)
		}
		return repo, uc, expense.ID
	}

	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		_, uc, id := newRepoWithExpense(t)

		amount := decimal.RequireFromString("250.50")
		updated, err := uc.UpdateExpense(ctx, "user1", id, usecase.ExpenseUpdate{Amount: &amount})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !updated.Amount.Equal(amount) {
			t.Errorf("expected amount %s, got %s", amount, updated.Amount)
		}
		if updated.Name != "Utilities" {
			t.Errorf("name must be untouched, got %q", updated.Name)
		}
	})

	t.Run("invalid amount rejected before repository", func(t *testing.T) {
		_, uc, id := newRepoWithExpense(t)

		bad := decimal.RequireFromString("-5")
		_, err := uc.UpdateExpense(ctx, "user1", id, usecase.ExpenseUpdate{Amount: &bad})
		if !errors.Is(err, domain.ErrNegativeAmount) {
			t.Fatalf("expected ErrNegativeAmount, got %v", err)
		}

		// Row must be unchanged.
		got, err := uc.GetExpense(ctx, "user1", id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Amount.Equal(decimal.RequireFromString("200")) {
			t.Errorf("expected unchanged amount 200, got %s", got.Amount)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, uc, _ := newRepoWithExpense(t)

		name := "Other"
		_, err := uc.UpdateExpense(ctx, "user1", "missing", usecase.ExpenseUpdate{Name: &name})
		if !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Fatalf("expected ErrExpenseNotFound, got %v", err)
		}
	})

	t.Run("other user's row is invisible", func(t *testing.T) {
		_, uc, id := newRepoWithExpense(t)

		name := "Other"
		_, err := uc.UpdateExpense(ctx, "user2", id, usecase.ExpenseUpdate{Name: &name})
		if !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Fatalf("expected ErrExpenseNotFound, got %v", err)
		}
	})
}

func TestExpenseUseCase_DeleteExpense(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewExpenseUseCase(mocks.NewMockExpenseRepository(), mocks.NewMockIDGenerator(), mocks.NewMockNumberCache(), nil)

	expense, err := uc.CreateExpense(ctx, usecase.CreateExpenseInput{
		UserID: "user1",
		Name:   "Gym",
		Amount: decimal.RequireFromString("40"),
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	first, err := uc.DeleteExpense(ctx, "user1", expense.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.DeleteExpense(ctx, "user1", expense.ID)
	if err != nil {
		t.Fatalf("second delete must not error: %v", err)
	}

	if !first || second {
		t.Errorf("expected (true, false), got (%v, %v)", first, second)
	}
}

func TestExpenseUseCase_ReplaceExpenses(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the full set", func(t *testing.T) {
		uc := usecase.NewExpenseUseCase(mocks.NewMockExpenseRepository(), mocks.NewMockIDGenerator(), mocks.NewMockNumberCache(), nil)

		if _, err := uc.CreateExpense(ctx, usecase.CreateExpenseInput{UserID: "user1", Name: "Old", Amount: decimal.RequireFromString("1")}); err != nil {
			t.Fatalf("seed: %v", err)
		}

		_, err := uc.ReplaceExpenses(ctx, usecase.ReplaceExpensesInput{
			UserID: "user1",
			Rows: []usecase.CreateExpenseInput{
				{Name: "Rent", Amount: decimal.RequireFromString("1500"), IsFixed: true},
				{Name: "Food", Amount: decimal.RequireFromString("300")},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expenses, err := uc.ListExpenses(ctx, "user1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(expenses))
		}
	})

	t.Run("one bad row writes nothing", func(t *testing.T) {
		repo := mocks.NewMockExpenseRepository()
		uc := usecase.NewExpenseUseCase(repo, mocks.NewMockIDGenerator(), mocks.NewMockNumberCache(), nil)

		repo.ReplaceAllFunc = func(ctx context.Context, userID string, expenses []*domain.Expense) error {
			t.Fatal("repository must not be reached with an invalid row")
			return nil
		}

		_, err := uc.ReplaceExpenses(ctx, usecase.ReplaceExpensesInput{
			UserID: "user1",
			Rows: []usecase.CreateExpenseInput{
				{Name: "Rent", Amount: decimal.RequireFromString("1500")},
				{Name: "", Amount: decimal.RequireFromString("300")},
			},
		})
		if !errors.Is(err, domain.ErrEmptyField) {
			t.Fatalf("expected ErrEmptyField, got %v", err)
		}
	})
}
