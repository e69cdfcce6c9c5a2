package testutil

import (
	"time"

	"tradesim/models"

	"github.com/shopspring/decimal"
)

// CreateTestHolding creates a holding with default values
func CreateTestHolding(userID int64, symbol string, shares int64) *models.Holding {
	now := time.Now()
	return &models.Holding{
		UserID:    userID,
		Symbol:    symbol,
		Name:      symbol + " Inc",
		Shares:    shares,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestHistoryEntry creates a purchase history entry with default values
func CreateTestHistoryEntry(userID int64, symbol string, shares int64, price string) *models.HistoryEntry {
	entryType := models.TransactionTypeBought
	if shares < 0 {
		entryType = models.TransactionTypeSold
	}
	return &models.HistoryEntry{
		UserID: userID,
		Symbol: symbol,
		Name:   symbol + " Inc",
		Shares: shares,
		Price:  decimal.RequireFromString(price),
		Type:   entryType,
	}
}

// Cash returns a decimal cash amount for test fixtures
func Cash(amount string) decimal.Decimal {
	return decimal.RequireFromString(amount)
}
