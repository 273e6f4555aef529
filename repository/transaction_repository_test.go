package repository

import (
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"nfc-transactions-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var transactionRowColumns = []string{
	"id", "transaction_id", "amount", "currency", "type", "status",
	"merchant_name", "category", "nfc_data", "transaction_date", "created_at", "updated_at",
}

func TestTransactionRepository_CreateTransaction(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)
	now := time.Now().UTC()

	t.Run("success without nfc data", func(t *testing.T) {
		merchant := "Coffee Shop"
		transaction := &model.Transaction{
			TransactionID:   "TXN_abc123_1718000000",
			Amount:          decimal.RequireFromString("99.99"),
			Currency:        "USD",
			Type:            model.TypeDebit,
			Status:          model.StatusCompleted,
			MerchantName:    &merchant,
			TransactionDate: now,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
			WithArgs(
				"TXN_abc123_1718000000",
				"99.99",
				"USD",
				"debit",
				"completed",
				"Coffee Shop",
				nil,
				nil,
				now,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(42, now, now))

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = repo.CreateTransaction(tx, transaction)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), transaction.ID)
		assert.Equal(t, now, transaction.CreatedAt)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("nfc data is stored as json", func(t *testing.T) {
		nfc := &model.NFCData{CardID: "CARD_123456789", TerminalID: "TERM_987654", SignalStrength: -45}
		nfcJSON, _ := json.Marshal(nfc)
		transaction := &model.Transaction{
			TransactionID:   "TXN_def456_1718000001",
			Amount:          decimal.RequireFromString("149.99"),
			Currency:        "USD",
			Type:            model.TypeDebit,
			Status:          model.StatusCompleted,
			NFCData:         nfc,
			TransactionDate: now,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
			WithArgs(
				"TXN_def456_1718000001",
				"149.99",
				"USD",
				"debit",
				"completed",
				nil,
				nil,
				nfcJSON,
				now,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(43, now, now))

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = repo.CreateTransaction(tx, transaction)
		assert.NoError(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("constraint violation surfaces the error", func(t *testing.T) {
		transaction := &model.Transaction{
			TransactionID:   "TXN_dup_1718000002",
			Amount:          decimal.RequireFromString("10.00"),
			Currency:        "EUR",
			Type:            model.TypeCredit,
			Status:          model.StatusPending,
			TransactionDate: now,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
			WillReturnError(sql.ErrConnDone)

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = repo.CreateTransaction(tx, transaction)
		assert.Error(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_GetTransactionByID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)
	now := time.Now().UTC()

	t.Run("found with nfc data", func(t *testing.T) {
		nfcJSON := []byte(`{"card_id":"CARD_123","terminal_id":"TERM_456","signal_strength":-45}`)
		rows := sqlmock.NewRows(transactionRowColumns).AddRow(
			7, "TXN_abc_1718000000", "149.99", "USD", "debit", "completed",
			"NFC Test Store", "shopping", nfcJSON, now, now, now,
		)
		dbMock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		transaction, err := repo.GetTransactionByID(7)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), transaction.ID)
		assert.Equal(t, "149.99", transaction.Amount.String())
		assert.NotNil(t, transaction.NFCData)
		assert.Equal(t, "CARD_123", transaction.NFCData.CardID)
		assert.Equal(t, -45, transaction.NFCData.SignalStrength)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("nullable columns scan to nil", func(t *testing.T) {
		rows := sqlmock.NewRows(transactionRowColumns).AddRow(
			8, "TXN_def_1718000001", "10.50", "EUR", "credit", "pending",
			nil, nil, nil, now, now, now,
		)
		dbMock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE id = $1")).
			WithArgs(int64(8)).
			WillReturnRows(rows)

		transaction, err := repo.GetTransactionByID(8)
		assert.NoError(t, err)
		assert.Nil(t, transaction.MerchantName)
		assert.Nil(t, transaction.Category)
		assert.Nil(t, transaction.NFCData)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta("FROM transactions WHERE id = $1")).
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		transaction, err := repo.GetTransactionByID(999)
		assert.Nil(t, transaction)
		assert.Equal(t, sql.ErrNoRows, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ListTransactions(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)
	now := time.Now().UTC()
	credit := model.TypeCredit

	filter := &TransactionFilter{Type: &credit, Limit: 20, Offset: 0}

	rows := sqlmock.NewRows(transactionRowColumns).
		AddRow(2, "TXN_b_1718000001", "25.00", "USD", "credit", "completed", nil, nil, nil, now, now, now).
		AddRow(1, "TXN_a_1718000000", "100.00", "USD", "credit", "pending", nil, nil, nil, now.Add(-time.Hour), now, now)

	dbMock.ExpectQuery(regexp.QuoteMeta("WHERE type = $1 ORDER BY transaction_date DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs("credit", 20, 0).
		WillReturnRows(rows)

	transactions, err := repo.ListTransactions(filter)
	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, model.TypeCredit, transactions[0].Type)
	assert.Equal(t, "25", transactions[0].Amount.String())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTransactionRepository_CountTransactions(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)

	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions WHERE nfc_data IS NOT NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	total, err := repo.CountTransactions(&TransactionFilter{NFCOnly: true})
	assert.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTransactionRepository_GetRecentNFCTransactions(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)
	now := time.Now().UTC()
	nfcJSON := []byte(`{"card_id":"CARD_123","terminal_id":"TERM_456","signal_strength":-30}`)

	rows := sqlmock.NewRows(transactionRowColumns).
		AddRow(5, "TXN_e_1718000004", "12.00", "USD", "debit", "completed", nil, nil, nfcJSON, now, now, now)

	dbMock.ExpectQuery(regexp.QuoteMeta("WHERE nfc_data IS NOT NULL")).
		WithArgs(10).
		WillReturnRows(rows)

	transactions, err := repo.GetRecentNFCTransactions(10)
	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.NotNil(t, transactions[0].NFCData)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTransactionRepository_SummarizeTransactions(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTransactionRepository(db)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"count", "total", "credit", "debit", "nfc", "pending", "completed", "failed",
	}).AddRow(3, "175.00", "100.00", "75.00", 1, 1, 2, 0)

	dbMock.ExpectQuery(regexp.QuoteMeta("WHERE transaction_date BETWEEN $1 AND $2")).
		WithArgs(start, end).
		WillReturnRows(rows)

	summary, err := repo.SummarizeTransactions(start, end)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalTransactions)
	assert.True(t, summary.CreditAmount.Add(summary.DebitAmount).Equal(summary.TotalAmount))
	assert.Equal(t, summary.TotalTransactions,
		summary.PendingTransactions+summary.CompletedTransactions+summary.FailedTransactions)
	assert.Equal(t, int64(1), summary.NFCTransactions)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
