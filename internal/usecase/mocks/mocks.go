package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvr/thenumber/internal/domain"
	"github.com/mvr/thenumber/internal/usecase"
)

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense
	order    []string

	CreateFunc     func(ctx context.Context, expense *domain.Expense) error
	GetByIDFunc    func(ctx context.Context, userID, id string) (*domain.Expense, error)
	ListFunc       func(ctx context.Context, userID string) ([]*domain.Expense, error)
	UpdateFunc     func(ctx context.Context, userID, id string, fields usecase.ExpenseUpdate) (*domain.Expense, error)
	DeleteFunc     func(ctx context.Context, userID, id string) (bool, error)
	ReplaceAllFunc func(ctx context.Context, userID string, expenses []*domain.Expense) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		expenses: make(map[string]*domain.Expense),
	}
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	m.order = append(m.order, expense.ID)
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, userID, id string) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok && e.UserID == userID {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) List(ctx context.Context, userID string) ([]*domain.Expense, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Expense
	for _, id := range m.order {
		if e, ok := m.expenses[id]; ok && e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockExpenseRepository) Update(ctx context.Context, userID, id string, fields usecase.ExpenseUpdate) (*domain.Expense, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, fields)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	if fields.Name != nil {
		e.Name = *fields.Name
	}
	if fields.Amount != nil {
		e.Amount = *fields.Amount
	}
	if fields.IsFixed != nil {
		e.IsFixed = *fields.IsFixed
	}
	return e, nil
}

func (m *MockExpenseRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.expenses[id]; ok && e.UserID == userID {
		delete(m.expenses, id)
		return true, nil
	}
	return false, nil
}

func (m *MockExpenseRepository) ReplaceAll(ctx context.Context, userID string, expenses []*domain.Expense) error {
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, userID, expenses)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.expenses {
		if e.UserID == userID {
			delete(m.expenses, id)
		}
	}
	for _, e := range expenses {
		m.expenses[e.ID] = e
		m.order = append(m.order, e.ID)
	}
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc      func(ctx context.Context, transaction *domain.Transaction) error
	GetByIDFunc     func(ctx context.Context, userID, id string) (*domain.Transaction, error)
	ListFunc        func(ctx context.Context, userID string, filter usecase.TransactionFilter) ([]*domain.Transaction, error)
	DeleteFunc      func(ctx context.Context, userID, id string) (bool, error)
	SumSpendingFunc func(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[transaction.ID] = transaction
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, userID string, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.transactions[id]; ok && t.UserID == userID {
		delete(m.transactions, id)
		return true, nil
	}
	return false, nil
}

func (m *MockTransactionRepository) SumSpending(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	if m.SumSpendingFunc != nil {
		return m.SumSpendingFunc(ctx, userID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, t := range m.transactions {
		if t.UserID != userID || t.IsIncome() {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total, nil
}

// MockConfigRepository is a mock implementation of ConfigRepository.
type MockConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]*domain.BudgetConfig

	SaveFunc func(ctx context.Context, config *domain.BudgetConfig) error
	GetFunc  func(ctx context.Context, userID string) (*domain.BudgetConfig, error)
}

func NewMockConfigRepository() *MockConfigRepository {
	return &MockConfigRepository{
		configs: make(map[string]*domain.BudgetConfig),
	}
}

func (m *MockConfigRepository) Save(ctx context.Context, config *domain.BudgetConfig) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, config)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[config.UserID] = config
	return nil
}

func (m *MockConfigRepository) Get(ctx context.Context, userID string) (*domain.BudgetConfig, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.configs[userID]; ok {
		return c, nil
	}
	return nil, domain.ErrConfigNotFound
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("mock-id-%d", m.next)
}

// MockNumberCache is a mock implementation of NumberCache.
type MockNumberCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.BudgetResult

	Deletes int
}

func NewMockNumberCache() *MockNumberCache {
	return &MockNumberCache{
		entries: make(map[string]*domain.BudgetResult),
	}
}

func (m *MockNumberCache) Get(key string) (*domain.BudgetResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.entries[key]
	return r, ok
}

func (m *MockNumberCache) Set(key string, result *domain.BudgetResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = result
}

func (m *MockNumberCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	m.Deletes++
}
