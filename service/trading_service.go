package service

import (
	"context"
	"fmt"

	"tradesim/events"
	"tradesim/models"

	"github.com/shopspring/decimal"
)

type tradingService struct {
	uowFactory UnitOfWorkFactory
	quotes     QuoteProvider
}

// NewTradingService creates a new trading service
func NewTradingService(uowFactory UnitOfWorkFactory, quotes QuoteProvider) TradingService {
	return &tradingService{
		uowFactory: uowFactory,
		quotes:     quotes,
	}
}

// Buy purchases shares of a symbol at the current quote price.
// The holding upsert, history append and balance update happen inside one
// transaction with the user row locked, so concurrent operations on the same
// user serialize and never observe a half-applied trade.
func (s *tradingService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*models.TradeResult, error) {
	if shares <= 0 {
		return nil, ErrInvalidQuantity
	}

	// Resolve the quote before opening the transaction so a slow provider
	// can never hold row locks
	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to look up quote for %q: %w", symbol, err)
	}
	if quote == nil {
		return nil, ErrUnknownSymbol
	}

	total := quote.Price.Mul(decimal.NewFromInt(shares))

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.Cash.LessThan(total) {
		return nil, ErrInsufficientFunds
	}
	newCash := user.Cash.Sub(total)

	holding, err := uow.HoldingRepository().GetByUserAndSymbol(ctx, userID, quote.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	if holding == nil {
		holding = &models.Holding{
			UserID: userID,
			Symbol: quote.Symbol,
			Name:   quote.Name,
			Shares: shares,
		}
		if err := uow.HoldingRepository().Create(ctx, holding); err != nil {
			return nil, fmt.Errorf("failed to create holding: %w", err)
		}
	} else {
		if err := uow.HoldingRepository().UpdateShares(ctx, userID, quote.Symbol, holding.Shares+shares); err != nil {
			return nil, fmt.Errorf("failed to update holding: %w", err)
		}
	}

	entry := &models.HistoryEntry{
		UserID: userID,
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Shares: shares,
		Price:  quote.Price,
		Type:   models.TransactionTypeBought,
	}
	if err := RecordTrade(ctx, uow, entry, user.Cash, newCash); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().UpdateCash(ctx, userID, newCash); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TradeResult{
		Symbol:     quote.Symbol,
		Name:       quote.Name,
		Price:      quote.Price,
		Shares:     shares,
		Total:      total,
		NewBalance: newCash,
	}, nil
}

// Sell sells shares from an existing holding at the current quote price.
// A holding whose share count reaches zero is deleted outright rather than
// left as an empty row.
func (s *tradingService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*models.TradeResult, error) {
	if shares <= 0 {
		return nil, ErrInvalidQuantity
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to look up quote for %q: %w", symbol, err)
	}
	if quote == nil {
		return nil, ErrUnknownSymbol
	}

	total := quote.Price.Mul(decimal.NewFromInt(shares))

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	holding, err := uow.HoldingRepository().GetByUserAndSymbol(ctx, userID, quote.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	if holding == nil || holding.Shares < shares {
		return nil, ErrInsufficientShares
	}

	newCash := user.Cash.Add(total)

	remaining := holding.Shares - shares
	if remaining <= 0 {
		if err := uow.HoldingRepository().Delete(ctx, userID, quote.Symbol); err != nil {
			return nil, fmt.Errorf("failed to delete holding: %w", err)
		}
	} else {
		if err := uow.HoldingRepository().UpdateShares(ctx, userID, quote.Symbol, remaining); err != nil {
			return nil, fmt.Errorf("failed to update holding: %w", err)
		}
	}

	entry := &models.HistoryEntry{
		UserID: userID,
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Shares: -shares,
		Price:  quote.Price,
		Type:   models.TransactionTypeSold,
	}
	if err := RecordTrade(ctx, uow, entry, user.Cash, newCash); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().UpdateCash(ctx, userID, newCash); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TradeResult{
		Symbol:     quote.Symbol,
		Name:       quote.Name,
		Price:      quote.Price,
		Shares:     shares,
		Total:      total,
		NewBalance: newCash,
	}, nil
}

// Deposit adds cash to a user's balance. Deposits do not produce history
// entries; the trade history records trades only.
func (s *tradingService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return decimal.Zero, ErrUserNotFound
	}

	newCash := user.Cash.Add(amount)
	if err := uow.UserRepository().UpdateCash(ctx, userID, newCash); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		OldBalance:      user.Cash,
		NewBalance:      newCash,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeDeposit,
	})

	if err := uow.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newCash, nil
}

// PortfolioSummary values all holdings at current quote prices. Pure read;
// an empty portfolio is a valid summary, not an error.
func (s *tradingService) PortfolioSummary(ctx context.Context, userID int64) (*models.PortfolioSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	holdings, err := uow.HoldingRepository().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}

	// Release the read transaction before talking to the quote provider
	if err := uow.Rollback(); err != nil {
		return nil, fmt.Errorf("failed to release transaction: %w", err)
	}

	summary := &models.PortfolioSummary{
		Entries:  make([]models.PortfolioEntry, 0, len(holdings)),
		Cash:     user.Cash,
		NetWorth: user.Cash,
	}

	for _, holding := range holdings {
		quote, err := s.quotes.Lookup(ctx, holding.Symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to look up quote for %q: %w", holding.Symbol, err)
		}
		if quote == nil {
			// A held symbol the provider no longer recognizes
			return nil, fmt.Errorf("held symbol %q: %w", holding.Symbol, ErrUnknownSymbol)
		}

		value := quote.Price.Mul(decimal.NewFromInt(holding.Shares))
		summary.Entries = append(summary.Entries, models.PortfolioEntry{
			Symbol: holding.Symbol,
			Name:   quote.Name,
			Shares: holding.Shares,
			Price:  quote.Price,
			Value:  value,
		})
		summary.NetWorth = summary.NetWorth.Add(value)
	}

	return summary, nil
}

// History returns the user's trade history, most recent first. An empty
// slice is a valid result.
func (s *tradingService) History(ctx context.Context, userID int64) ([]*models.HistoryEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.HistoryRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return entries, nil
}
