package testutil

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	adaptershttp "github.com/mvr/thenumber/internal/adapter/http"
	"github.com/mvr/thenumber/internal/adapter/http/handler"
	sqliterepo "github.com/mvr/thenumber/internal/adapter/repository/sqlite"
	"github.com/mvr/thenumber/internal/cache"
	"github.com/mvr/thenumber/internal/domain"
	infrasqlite "github.com/mvr/thenumber/internal/infrastructure/sqlite"
	"github.com/mvr/thenumber/internal/usecase"
)

// TestEnv wires the full stack against a throwaway database. Requests run
// as the fixed local user, exactly like a deployment with auth disabled.
type TestEnv struct {
	DB     *sql.DB
	Router http.Handler
	Cipher *sqliterepo.FieldCipher

	t *testing.T
}

// NewTestEnv builds the stack on a fresh temp-dir database with a random
// encryption key.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := infrasqlite.RunMigrations(dbPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := infrasqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cipher, err := sqliterepo.NewFieldCipher(RandomKey(t), nil)
	if err != nil {
		t.Fatalf("failed to build cipher: %v", err)
	}

	expenseRepo := sqliterepo.NewExpenseRepository(db, cipher, nil)
	txRepo := sqliterepo.NewTransactionRepository(db, cipher, nil)
	configRepo := sqliterepo.NewConfigRepository(db, cipher, nil)
	idGen := sqliterepo.NewULIDGenerator()
	numberCache := cache.NewLRU[*domain.BudgetResult](16, time.Minute)

	budgetUC := usecase.NewBudgetUseCase(configRepo, expenseRepo, txRepo, numberCache, nil)
	configUC := usecase.NewConfigUseCase(configRepo, numberCache, nil)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, idGen, numberCache, nil)
	transactionUC := usecase.NewTransactionUseCase(txRepo, idGen, numberCache, nil)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		BudgetHandler:      handler.NewBudgetHandler(budgetUC, configUC),
		ExpenseHandler:     handler.NewExpenseHandler(expenseUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		HealthHandler:      handler.NewHealthHandler(db),
		Logger:             zerolog.Nop(),
	})

	return &TestEnv{
		DB:     db,
		Router: router,
		Cipher: cipher,
		t:      t,
	}
}

// RandomKey returns a fresh base64-encoded 32-byte key.
func RandomKey(t *testing.T) string {
	t.Helper()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Do runs a request through the router and returns the recorder.
func (e *TestEnv) Do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals a recorded JSON response body into out.
func (e *TestEnv) Decode(rec *httptest.ResponseRecorder, out any) {
	e.t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		e.t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
