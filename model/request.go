// file: model/request.go

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for recording a transaction.
// The validation tags are the single declarative source of the field
// constraints, shared by the creation endpoint and any future update path.
type CreateTransactionRequest struct {
	Amount          decimal.Decimal   `json:"amount" validate:"required,gt=0,lte=999999.99"`
	Currency        string            `json:"currency" validate:"required,len=3,alpha,uppercase"`
	Type            TransactionType   `json:"type" validate:"required,oneof=debit credit"`
	Status          TransactionStatus `json:"status" validate:"required,oneof=pending completed failed"`
	MerchantName    *string           `json:"merchant_name" validate:"omitempty,max=255"`
	Category        *string           `json:"category" validate:"omitempty,max=100"`
	NFCData         *NFCData          `json:"nfc_data" validate:"omitempty"`
	TransactionDate time.Time         `json:"transaction_date" validate:"required"`
}

// PaginatedTransactions is the list-endpoint envelope.
type PaginatedTransactions struct {
	Data        []*Transaction `json:"data"`
	CurrentPage int            `json:"current_page"`
	LastPage    int            `json:"last_page"`
	PerPage     int            `json:"per_page"`
	Total       int64          `json:"total"`
}

// TransactionSummary aggregates the transactions inside a date window.
// Amounts are decimal-safe sums rounded to two places.
type TransactionSummary struct {
	TotalTransactions     int64           `json:"total_transactions"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	CreditAmount          decimal.Decimal `json:"credit_amount"`
	DebitAmount           decimal.Decimal `json:"debit_amount"`
	NFCTransactions       int64           `json:"nfc_transactions"`
	PendingTransactions   int64           `json:"pending_transactions"`
	CompletedTransactions int64           `json:"completed_transactions"`
	FailedTransactions    int64           `json:"failed_transactions"`
}
