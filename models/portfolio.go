package models

import (
	"github.com/shopspring/decimal"
)

// TradeResult is the confirmation returned after a successful buy or sell
type TradeResult struct {
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Shares     int64           `json:"shares"`
	Total      decimal.Decimal `json:"total"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// PortfolioEntry is one holding valued at the current quote price
type PortfolioEntry struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

// PortfolioSummary is a point-in-time valuation of a user's portfolio.
// NetWorth is cash plus the market value of all holdings; it is computed
// on demand and never persisted.
type PortfolioSummary struct {
	Entries  []PortfolioEntry `json:"entries"`
	Cash     decimal.Decimal  `json:"cash"`
	NetWorth decimal.Decimal  `json:"net_worth"`
}

// Empty reports whether the user holds no shares at all. An empty portfolio
// is a valid state, not an error.
func (s *PortfolioSummary) Empty() bool {
	return len(s.Entries) == 0
}
