package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"nfc-transactions-api/logger"
	"nfc-transactions-api/model"
	"nfc-transactions-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const (
	// DefaultPerPage applies when the caller does not specify a page size.
	DefaultPerPage = 20
	// MaxPerPage caps requested page sizes to keep result sets bounded.
	MaxPerPage = 100

	recentNFCLimit    = 10
	recentNFCCacheKey = "transactions:nfc:recent"
	recentNFCCacheTTL = 10 * time.Minute
)

// TransactionService implements the business operations over the single
// transactions table. The cache client is optional; a nil cache disables the
// cache-aside path without changing observable behavior.
type TransactionService struct {
	db    *sql.DB
	repo  repository.ITransactionRepository
	cache ICacheClient
}

func NewTransactionService(db *sql.DB, repo repository.ITransactionRepository, cache ICacheClient) *TransactionService {
	return &TransactionService{
		db:    db,
		repo:  repo,
		cache: cache,
	}
}

// ListTransactionsParams carries the validated query parameters of the list
// endpoint. Date bounds only apply when both are present.
type ListTransactionsParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *model.TransactionType
	Status    *model.TransactionStatus
	NFCOnly   bool
	Search    string
	Page      int
	PerPage   int
}

// CreateTransaction validates nothing itself: the request has already passed
// the declarative field validation. It generates the business identifier and
// persists the row inside a single database transaction.
func (s *TransactionService) CreateTransaction(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error) {
	transaction := &model.Transaction{
		TransactionID:   newTransactionID(),
		Amount:          req.Amount.Round(2),
		Currency:        req.Currency,
		Type:            req.Type,
		Status:          req.Status,
		MerchantName:    req.MerchantName,
		Category:        req.Category,
		NFCData:         req.NFCData,
		TransactionDate: req.TransactionDate,
	}

	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": transaction.TransactionID,
		"type":           transaction.Type,
		"status":         transaction.Status,
	})
	log.Info("Starting transaction creation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	// A new NFC row makes the cached recent-NFC view stale.
	if transaction.NFCData != nil && s.cache != nil {
		s.cache.Del(ctx, recentNFCCacheKey)
	}

	log.Info("Transaction created successfully")
	return transaction, nil
}

// ListTransactions returns the filtered, ordered page together with the
// pagination envelope fields.
func (s *TransactionService) ListTransactions(params ListTransactionsParams) (*model.PaginatedTransactions, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	filter := &repository.TransactionFilter{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Type:      params.Type,
		Status:    params.Status,
		NFCOnly:   params.NFCOnly,
		Search:    params.Search,
		Limit:     perPage,
		Offset:    (page - 1) * perPage,
	}

	total, err := s.repo.CountTransactions(filter)
	if err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListTransactions(filter)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return &model.PaginatedTransactions{
		Data:        transactions,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}, nil
}

// GetTransaction retrieves a single transaction by its surrogate identifier.
func (s *TransactionService) GetTransaction(id int64) (*model.Transaction, error) {
	transaction, err := s.repo.GetTransactionByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetRecentNFCTransactions returns the up-to-10 most recent NFC-originated
// rows, utilizing a cache-aside strategy when a cache client is configured.
func (s *TransactionService) GetRecentNFCTransactions(ctx context.Context) ([]*model.Transaction, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, recentNFCCacheKey).Result()
		if err == nil {
			var transactions []*model.Transaction
			if err := json.Unmarshal([]byte(cached), &transactions); err == nil {
				return transactions, nil
			}
		}
	}

	transactions, err := s.repo.GetRecentNFCTransactions(recentNFCLimit)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(transactions); err == nil {
			s.cache.Set(ctx, recentNFCCacheKey, data, recentNFCCacheTTL)
		}
	}

	return transactions, nil
}

// GetSummary aggregates the transactions inside the given window. Missing
// bounds default to the current calendar month, computed in UTC.
func (s *TransactionService) GetSummary(start, end *time.Time) (*model.TransactionSummary, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	from := monthStart
	if start != nil {
		from = *start
	}
	to := monthEnd
	if end != nil {
		to = *end
	}

	summary, err := s.repo.SummarizeTransactions(from, to)
	if err != nil {
		return nil, err
	}

	summary.TotalAmount = summary.TotalAmount.Round(2)
	summary.CreditAmount = summary.CreditAmount.Round(2)
	summary.DebitAmount = summary.DebitAmount.Round(2)
	return summary, nil
}

// newTransactionID generates the business identifier. A random token plus the
// creation epoch makes collisions vanishingly unlikely; the database unique
// constraint catches the rest.
func newTransactionID() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TXN_%s_%d", token, time.Now().Unix())
}
