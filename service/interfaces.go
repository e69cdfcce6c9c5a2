package service

import (
	"context"

	"tradesim/events"
	"tradesim/models"

	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByIDForUpdate retrieves a user by ID and locks the row until the
	// enclosing transaction ends, serializing operations on the same user
	GetByIDForUpdate(ctx context.Context, userID int64) (*models.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create creates a new user with the starting cash balance
	Create(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (*models.User, error)

	// UpdateCash sets a user's cash balance
	UpdateCash(ctx context.Context, userID int64, newCash decimal.Decimal) error

	// UpdatePasswordHash sets a user's credential hash
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
}

// HoldingRepository defines the interface for holding data access
type HoldingRepository interface {
	// GetByUserAndSymbol retrieves a user's holding for one symbol
	GetByUserAndSymbol(ctx context.Context, userID int64, symbol string) (*models.Holding, error)

	// GetAllByUser returns all holdings for a user ordered by symbol
	GetAllByUser(ctx context.Context, userID int64) ([]*models.Holding, error)

	// Create creates a new holding row
	Create(ctx context.Context, holding *models.Holding) error

	// UpdateShares sets the share count of an existing holding
	UpdateShares(ctx context.Context, userID int64, symbol string, newShares int64) error

	// Delete removes a holding row, scoped to (user, symbol)
	Delete(ctx context.Context, userID int64, symbol string) error
}

// HistoryRepository defines the interface for trade history tracking
type HistoryRepository interface {
	// Record appends a history entry
	Record(ctx context.Context, entry *models.HistoryEntry) error

	// GetByUser returns all history entries for a user, most recent first
	GetByUser(ctx context.Context, userID int64) ([]*models.HistoryEntry, error)
}

// QuoteProvider defines the interface for external price lookups.
// Lookup returns (nil, nil) when the symbol does not exist; a non-nil error
// indicates a transport or provider failure, not an unknown symbol.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (*models.Quote, error)
}

// TradingService defines the interface for portfolio transaction operations
type TradingService interface {
	// Buy purchases shares of a symbol at the current quote price
	Buy(ctx context.Context, userID int64, symbol string, shares int64) (*models.TradeResult, error)

	// Sell sells shares from an existing holding at the current quote price
	Sell(ctx context.Context, userID int64, symbol string, shares int64) (*models.TradeResult, error)

	// Deposit adds cash to a user's balance
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)

	// PortfolioSummary values all holdings at current quote prices
	PortfolioSummary(ctx context.Context, userID int64) (*models.PortfolioSummary, error)

	// History returns the user's trade history, most recent first
	History(ctx context.Context, userID int64) ([]*models.HistoryEntry, error)
}

// UserService defines the interface for account operations
type UserService interface {
	// Register creates a new account with the configured starting cash
	Register(ctx context.Context, username, password string) (*models.User, error)

	// Authenticate verifies a username/password pair
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// ChangePassword replaces a user's password after verifying the old one
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error

	// GetUser retrieves profile data for a user
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction; a no-op after Commit
	Rollback() error

	// UserRepository returns the user repository bound to this transaction
	UserRepository() UserRepository

	// HoldingRepository returns the holding repository bound to this transaction
	HoldingRepository() HoldingRepository

	// HistoryRepository returns the history repository bound to this transaction
	HistoryRepository() HistoryRepository

	// EventBus returns the transactional event bus for this unit of work
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
