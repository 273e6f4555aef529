package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// NFCData holds the metadata of a contactless tap. Its presence on a
// transaction marks the transaction as NFC-originated; a stored value is
// always the full object, never a partial one.
type NFCData struct {
	CardID         string `json:"card_id" validate:"required,max=100"`
	TerminalID     string `json:"terminal_id" validate:"required,max=50"`
	SignalStrength int    `json:"signal_strength" validate:"min=-100,max=0"`
}

// Transaction is a single immutable payment record. Rows are created through
// the store endpoint and never updated or deleted by the API surface.
type Transaction struct {
	ID              int64             `json:"id"`
	TransactionID   string            `json:"transaction_id"`
	Amount          decimal.Decimal   `json:"amount"`
	Currency        string            `json:"currency"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	MerchantName    *string           `json:"merchant_name"`
	Category        *string           `json:"category"`
	NFCData         *NFCData          `json:"nfc_data"`
	TransactionDate time.Time         `json:"transaction_date"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
