package service

import (
	"context"
	"fmt"

	"tradesim/events"
	"tradesim/models"

	"github.com/shopspring/decimal"
)

// RecordTrade appends the history entry for an executed trade and stages the
// events describing it on the unit of work's bus. This is the single entry
// point for history writes, so every committed trade carries exactly one
// entry and its matching events.
func RecordTrade(ctx context.Context, uow UnitOfWork, entry *models.HistoryEntry, oldCash, newCash decimal.Decimal) error {
	if err := uow.HistoryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}

	total := entry.Price.Mul(decimal.NewFromInt(entry.Shares)).Abs()

	uow.EventBus().Publish(events.TradeExecutedEvent{
		UserID:          entry.UserID,
		Symbol:          entry.Symbol,
		Shares:          entry.Shares,
		Price:           entry.Price,
		Total:           total,
		TransactionType: entry.Type,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          entry.UserID,
		OldBalance:      oldCash,
		NewBalance:      newCash,
		ChangeAmount:    newCash.Sub(oldCash),
		TransactionType: entry.Type,
	})

	return nil
}
