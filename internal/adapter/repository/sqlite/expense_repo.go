package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
	"github.com/mvr/thenumber/internal/usecase"
)

// timeLayout is the storage format for timestamps and transaction dates. The
// fractional second is zero-padded to full width, so lexical order on the
// text column matches chronological order and date columns stay indexable as
// plain text. RFC3339Nano would trim trailing zeros and break that property
// at whole-second boundaries.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime normalizes to UTC before formatting so every stored timestamp
// carries the same fixed-width "Z" suffix.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ExpenseRepository implements usecase.ExpenseRepository with field-level
// encryption of name and amount.
type ExpenseRepository struct {
	db      *sql.DB
	cipher  *FieldCipher
	retrier *Retrier
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db *sql.DB, cipher *FieldCipher, m *metrics.Metrics) *ExpenseRepository {
	return &ExpenseRepository{
		db:      db,
		cipher:  cipher,
		retrier: NewRetrier(m),
	}
}

// Create persists a validated expense.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	name, err := r.cipher.Encrypt(expense.Name)
	if err != nil {
		return err
	}

	amount, err := r.cipher.Encrypt(expense.Amount.String())
	if err != nil {
		return err
	}

	return r.retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO expenses (id, user_id, name, amount, is_fixed, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.UserID, name, amount, expense.IsFixed,
			formatTime(expense.CreatedAt), formatTime(expense.UpdatedAt),
		)
		return err
	})
}

// GetByID retrieves and decrypts an expense.
func (r *ExpenseRepository) GetByID(ctx context.Context, userID, id string) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, amount, is_fixed, created_at, updated_at
		 FROM expenses WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	expense, err := r.scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	return expense, nil
}

// List returns all expenses for a user in insertion order.
func (r *ExpenseRepository) List(ctx context.Context, userID string) ([]*domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount, is_fixed, created_at, updated_at
		 FROM expenses WHERE user_id = ? ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// Update applies a partial update. Column identifiers come only from the
// fixed whitelist below; request data is bound exclusively as values.
func (r *ExpenseRepository) Update(ctx context.Context, userID, id string, fields usecase.ExpenseUpdate) (*domain.Expense, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if fields.Name != nil {
		name, err := r.cipher.Encrypt(*fields.Name)
		if err != nil {
			return nil, err
		}
		set = append(set, "name = ?")
		args = append(args, name)
	}

	if fields.Amount != nil {
		amount, err := r.cipher.Encrypt(fields.Amount.String())
		if err != nil {
			return nil, err
		}
		set = append(set, "amount = ?")
		args = append(args, amount)
	}

	if fields.IsFixed != nil {
		set = append(set, "is_fixed = ?")
		args = append(args, *fields.IsFixed)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, userID, id)
	}

	set = append(set, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id, userID)

	query := "UPDATE expenses SET " + strings.Join(set, ", ") + " WHERE id = ? AND user_id = ?"

	var affected int64
	err := r.retrier.Do(ctx, func() error {
		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return nil, domain.ErrExpenseNotFound
	}

	return r.GetByID(ctx, userID, id)
}

// Delete removes an expense by ID. Idempotent: the boolean reports whether a
// row was removed.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	var affected int64
	err := r.retrier.Do(ctx, func() error {
		result, err := r.db.ExecContext(ctx,
			`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ReplaceAll swaps the full expense set for a user inside one transaction.
// A failure on any row rolls the whole operation back.
func (r *ExpenseRepository) ReplaceAll(ctx context.Context, userID string, expenses []*domain.Expense) error {
	return r.retrier.Do(ctx, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = ?`, userID); err != nil {
			return err
		}

		for _, expense := range expenses {
			name, err := r.cipher.Encrypt(expense.Name)
			if err != nil {
				return err
			}
			amount, err := r.cipher.Encrypt(expense.Amount.String())
			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO expenses (id, user_id, name, amount, is_fixed, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				expense.ID, expense.UserID, name, amount, expense.IsFixed,
				formatTime(expense.CreatedAt), formatTime(expense.UpdatedAt),
			); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ExpenseRepository) scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		expense              domain.Expense
		encName, encAmount   string
		createdAt, updatedAt string
	)

	if err := row.Scan(&expense.ID, &expense.UserID, &encName, &encAmount, &expense.IsFixed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	name, err := r.cipher.Decrypt(encName)
	if err != nil {
		return nil, err
	}
	expense.Name = name

	amountStr, err := r.cipher.Decrypt(encAmount)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("%w: stored amount is not a decimal", domain.ErrDecryptFailed)
	}
	expense.Amount = amount

	expense.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	expense.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &expense, nil
}
