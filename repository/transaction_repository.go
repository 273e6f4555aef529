package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nfc-transactions-api/logger"
	"nfc-transactions-api/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for transaction database operations.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error
	GetTransactionByID(id int64) (*model.Transaction, error)
	ListTransactions(filter *TransactionFilter) ([]*model.Transaction, error)
	CountTransactions(filter *TransactionFilter) (int64, error)
	GetRecentNFCTransactions(limit int) ([]*model.Transaction, error)
	SummarizeTransactions(start, end time.Time) (*model.TransactionSummary, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionColumns = `id, transaction_id, amount, currency, type, status, merchant_name, category, nfc_data, transaction_date, created_at, updated_at`

// CreateTransaction inserts a new transaction row inside the given database
// transaction. The unique constraint on transaction_id is the only guard
// against concurrent creates racing on the same identifier.
func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": transaction.TransactionID,
		"type":           transaction.Type,
		"amount":         transaction.Amount.String(),
	})
	log.Info("Executing query to create a new transaction")

	var nfcArg interface{}
	if transaction.NFCData != nil {
		data, err := json.Marshal(transaction.NFCData)
		if err != nil {
			return fmt.Errorf("could not encode nfc_data: %w", err)
		}
		nfcArg = data
	}

	query := `INSERT INTO transactions (transaction_id, amount, currency, type, status, merchant_name, category, nfc_data, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query,
		transaction.TransactionID,
		transaction.Amount,
		transaction.Currency,
		transaction.Type,
		transaction.Status,
		transaction.MerchantName,
		transaction.Category,
		nfcArg,
		transaction.TransactionDate,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// GetTransactionByID retrieves a single transaction by its surrogate key.
func (r *TransactionRepository) GetTransactionByID(id int64) (*model.Transaction, error) {
	log := logger.Log.WithField("id", id)
	log.Info("Executing query to get transaction by ID")

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	transaction, err := scanTransaction(r.DB.QueryRow(query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute query for transaction by ID")
		}
		return nil, err
	}
	return transaction, nil
}

// ListTransactions retrieves the filtered page of transactions, ordered by
// transaction_date descending with id descending as the tie-break.
func (r *TransactionRepository) ListTransactions(filter *TransactionFilter) ([]*model.Transaction, error) {
	where, args := filter.whereClause()

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY transaction_date DESC, id DESC` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	log := logger.Log.WithField("filters", filter.describe())
	log.Info("Executing query to list transactions")

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list transactions query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// CountTransactions returns the total number of rows matching the filter,
// ignoring pagination.
func (r *TransactionRepository) CountTransactions(filter *TransactionFilter) (int64, error) {
	where, args := filter.whereClause()

	query := `SELECT COUNT(*) FROM transactions` + where

	var total int64
	if err := r.DB.QueryRow(query, args...).Scan(&total); err != nil {
		logger.Log.WithError(err).Error("Failed to execute count transactions query")
		return 0, err
	}
	return total, nil
}

// GetRecentNFCTransactions retrieves the most recent NFC-originated rows.
func (r *TransactionRepository) GetRecentNFCTransactions(limit int) ([]*model.Transaction, error) {
	log := logger.Log.WithField("limit", limit)
	log.Info("Executing query to get recent NFC transactions")

	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE nfc_data IS NOT NULL
		ORDER BY transaction_date DESC, id DESC
		LIMIT $1`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute recent NFC transactions query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// SummarizeTransactions aggregates counts and decimal-safe sums over the
// date-bounded subset in a single round trip.
func (r *TransactionRepository) SummarizeTransactions(start, end time.Time) (*model.TransactionSummary, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"start_date": start,
		"end_date":   end,
	})
	log.Info("Executing query to summarize transactions")

	query := `SELECT
		COUNT(*),
		COALESCE(SUM(amount), 0),
		COALESCE(SUM(amount) FILTER (WHERE type = 'credit'), 0),
		COALESCE(SUM(amount) FILTER (WHERE type = 'debit'), 0),
		COUNT(*) FILTER (WHERE nfc_data IS NOT NULL),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'failed')
	FROM transactions
	WHERE transaction_date BETWEEN $1 AND $2`

	var summary model.TransactionSummary
	err := r.DB.QueryRow(query, start, end).Scan(
		&summary.TotalTransactions,
		&summary.TotalAmount,
		&summary.CreditAmount,
		&summary.DebitAmount,
		&summary.NFCTransactions,
		&summary.PendingTransactions,
		&summary.CompletedTransactions,
		&summary.FailedTransactions,
	)
	if err != nil {
		log.WithError(err).Error("Failed to execute summarize transactions query")
		return nil, err
	}
	return &summary, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		t            model.Transaction
		amount       decimal.Decimal
		merchantName sql.NullString
		category     sql.NullString
		nfcRaw       []byte
	)

	err := row.Scan(
		&t.ID,
		&t.TransactionID,
		&amount,
		&t.Currency,
		&t.Type,
		&t.Status,
		&merchantName,
		&category,
		&nfcRaw,
		&t.TransactionDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Amount = amount
	if merchantName.Valid {
		t.MerchantName = &merchantName.String
	}
	if category.Valid {
		t.Category = &category.String
	}
	if len(nfcRaw) > 0 {
		var nfc model.NFCData
		if err := json.Unmarshal(nfcRaw, &nfc); err != nil {
			return nil, fmt.Errorf("could not decode nfc_data: %w", err)
		}
		t.NFCData = &nfc
	}
	return &t, nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search input.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
