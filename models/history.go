package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of balance change
type TransactionType string

const (
	TransactionTypeBought  TransactionType = "bought"
	TransactionTypeSold    TransactionType = "sold"
	TransactionTypeDeposit TransactionType = "deposit"
)

// HistoryEntry is an immutable record of one executed trade. Shares is a
// signed delta: positive for a buy, negative for a sell. Price is the quote
// price at execution time.
type HistoryEntry struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Symbol    string          `db:"symbol"`
	Name      string          `db:"name"`
	Shares    int64           `db:"shares"`
	Price     decimal.Decimal `db:"price"`
	Type      TransactionType `db:"type"`
	CreatedAt time.Time       `db:"created_at"`
}
