package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/infrastructure/metrics"
	"github.com/mvr/thenumber/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Amount,
// description and category are encrypted; the date stays plaintext so the
// (user_id, date) index keeps range scans sub-linear. Category filtering
// goes through a keyed blind index for the same reason.
type TransactionRepository struct {
	db      *sql.DB
	cipher  *FieldCipher
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB, cipher *FieldCipher, m *metrics.Metrics) *TransactionRepository {
	return &TransactionRepository{
		db:      db,
		cipher:  cipher,
		retrier: NewRetrier(m),
	}
}

// Create persists a validated transaction.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	amount, err := r.cipher.Encrypt(transaction.Amount.String())
	if err != nil {
		return err
	}

	description, err := r.cipher.Encrypt(transaction.Description)
	if err != nil {
		return err
	}

	var category, categoryIdx sql.NullString
	if transaction.Category != "" {
		enc, err := r.cipher.Encrypt(transaction.Category)
		if err != nil {
			return err
		}
		category = sql.NullString{String: enc, Valid: true}
		categoryIdx = sql.NullString{String: r.cipher.BlindIndex(transaction.Category), Valid: true}
	}

	return r.retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO transactions (id, user_id, date, amount, description, category, category_idx, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			transaction.ID, transaction.UserID, formatTime(transaction.Date),
			amount, description, category, categoryIdx,
			formatTime(transaction.CreatedAt),
		)
		return err
	})
}

// GetByID retrieves and decrypts a transaction.
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, amount, description, category, created_at
		 FROM transactions WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	transaction, err := r.scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return transaction, nil
}

// List returns transactions newest first. Filters narrow by date range and
// category; the query text is fixed, only values are bound.
func (r *TransactionRepository) List(ctx context.Context, userID string, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT id, user_id, date, amount, description, category, created_at
	 FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if filter.From != nil {
		query += " AND date >= ?"
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		query += " AND date <= ?"
		args = append(args, formatTime(*filter.To))
	}
	if filter.Category != "" {
		query += " AND category_idx = ?"
		args = append(args, r.cipher.BlindIndex(filter.Category))
	}

	query += " ORDER BY date DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

// Delete removes a transaction by ID, idempotently.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	var affected int64
	err := r.retrier.Do(ctx, func() error {
		result, err := r.db.ExecContext(ctx,
			`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
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

// SumSpending totals amounts in [from, to], excluding income. Amounts are
// ciphertext, so the index narrows the rows and the sum happens after
// decryption, in exact decimal.
func (r *TransactionRepository) SumSpending(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount, category FROM transactions
		 WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, formatTime(from), formatTime(to),
	)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var encAmount string
		var encCategory sql.NullString
		if err := rows.Scan(&encAmount, &encCategory); err != nil {
			return decimal.Zero, err
		}

		if encCategory.Valid {
			category, err := r.cipher.Decrypt(encCategory.String)
			if err != nil {
				return decimal.Zero, err
			}
			if category == domain.CategoryIncome {
				continue
			}
		}

		amountStr, err := r.cipher.Decrypt(encAmount)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: stored amount is not a decimal", domain.ErrDecryptFailed)
		}

		total = total.Add(amount)
	}

	return total, rows.Err()
}

func (r *TransactionRepository) scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		transaction        domain.Transaction
		date, createdAt    string
		encAmount, encDesc string
		encCategory        sql.NullString
	)

	if err := row.Scan(&transaction.ID, &transaction.UserID, &date, &encAmount, &encDesc, &encCategory, &createdAt); err != nil {
		return nil, err
	}

	amountStr, err := r.cipher.Decrypt(encAmount)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("%w: stored amount is not a decimal", domain.ErrDecryptFailed)
	}
	transaction.Amount = amount

	transaction.Description, err = r.cipher.Decrypt(encDesc)
	if err != nil {
		return nil, err
	}

	if encCategory.Valid {
		transaction.Category, err = r.cipher.Decrypt(encCategory.String)
		if err != nil {
			return nil, err
		}
	}

	transaction.Date, err = time.Parse(timeLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	transaction.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &transaction, nil
}
