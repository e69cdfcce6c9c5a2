package service

import (
	"context"

	"tradesim/events"
	"tradesim/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (*models.User, error) {
	args := m.Called(ctx, username, passwordHash, startingCash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateCash(ctx context.Context, userID int64, newCash decimal.Decimal) error {
	args := m.Called(ctx, userID, newCash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// MockHoldingRepository is a mock implementation of HoldingRepository
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) GetByUserAndSymbol(ctx context.Context, userID int64, symbol string) (*models.Holding, error) {
	args := m.Called(ctx, userID, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Holding), args.Error(1)
}

func (m *MockHoldingRepository) GetAllByUser(ctx context.Context, userID int64) ([]*models.Holding, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Holding), args.Error(1)
}

func (m *MockHoldingRepository) Create(ctx context.Context, holding *models.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) UpdateShares(ctx context.Context, userID int64, symbol string, newShares int64) error {
	args := m.Called(ctx, userID, symbol, newShares)
	return args.Error(0)
}

func (m *MockHoldingRepository) Delete(ctx context.Context, userID int64, symbol string) error {
	args := m.Called(ctx, userID, symbol)
	return args.Error(0)
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Record(ctx context.Context, entry *models.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetByUser(ctx context.Context, userID int64) ([]*models.HistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HistoryEntry), args.Error(1)
}

// MockQuoteProvider is a mock implementation of QuoteProvider
type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories; Begin/Commit/Rollback are recorded through
// the mock so tests can assert the transaction lifecycle.
type MockUnitOfWork struct {
	mock.Mock
	userRepo    UserRepository
	holdingRepo HoldingRepository
	historyRepo HistoryRepository
	bus         *events.TransactionalBus
}

// SetRepositories wires the repositories returned by the accessor methods
func (m *MockUnitOfWork) SetRepositories(users UserRepository, holdings HoldingRepository, history HistoryRepository) {
	m.userRepo = users
	m.holdingRepo = holdings
	m.historyRepo = history
	m.bus = events.NewTransactionalBus(events.NewBus())
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) HoldingRepository() HoldingRepository {
	return m.holdingRepo
}

func (m *MockUnitOfWork) HistoryRepository() HistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.bus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
