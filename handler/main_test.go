// handler/main_test.go
package handler

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"nfc-transactions-api/logger"
	"nfc-transactions-api/model"
	"nfc-transactions-api/repository"

	"github.com/stretchr/testify/mock"
)

// TestMain sets up the logger for the handler package tests.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockTransactionRepository is a mock for repository.ITransactionRepository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) CreateTransaction(tx *sql.Tx, tr *model.Transaction) error {
	args := m.Called(tx, tr)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionByID(id int64) (*model.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(filter *repository.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountTransactions(filter *repository.TransactionFilter) (int64, error) {
	args := m.Called(filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) GetRecentNFCTransactions(limit int) ([]*model.Transaction, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SummarizeTransactions(start, end time.Time) (*model.TransactionSummary, error) {
	args := m.Called(start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionSummary), args.Error(1)
}
