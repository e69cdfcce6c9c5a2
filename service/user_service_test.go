package service

import (
	"context"
	"fmt"
	"os"
	"testing"

	"tradesim/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	os.Setenv("ENVIRONMENT", "test")
	os.Exit(m.Run())
}

func newUserServiceMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository) {
	factory := new(MockUnitOfWorkFactory)
	uow := new(MockUnitOfWork)
	users := new(MockUserRepository)
	uow.SetRepositories(users, new(MockHoldingRepository), new(MockHistoryRepository))
	return factory, uow, users
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit").Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByUsername", ctx, "alice").Return(nil, nil)

	created := &models.User{
		ID:       1,
		Username: "alice",
		Cash:     decimal.NewFromInt(10000),
	}
	users.On("Create", ctx, "alice",
		mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")) == nil
		}),
		mock.MatchedBy(func(cash decimal.Decimal) bool {
			return cash.Equal(decimal.NewFromInt(10000))
		}),
	).Return(created, nil)

	user, err := svc.Register(ctx, "alice", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Cash.Equal(decimal.NewFromInt(10000)))

	uow.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestUserService_Register_TrimsUsername(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit").Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByUsername", ctx, "bob").Return(nil, nil)
	users.On("Create", ctx, "bob", mock.Anything, mock.Anything).
		Return(&models.User{ID: 2, Username: "bob"}, nil)

	_, err := svc.Register(ctx, "  bob  ", "pw")

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByUsername", ctx, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)

	user, err := svc.Register(ctx, "alice", "s3cret")

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Nil(t, user)
	uow.AssertNotCalled(t, "Commit")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Register_ConcurrentDuplicate(t *testing.T) {
	// A second registration of the same name can pass the existence check and
	// hit the unique constraint on insert; that must still surface as
	// ErrUsernameTaken, not as an internal failure
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByUsername", ctx, "alice").Return(nil, nil)
	users.On("Create", ctx, "alice", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("failed to create user %q: %w", "alice",
			&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}))

	user, err := svc.Register(ctx, "alice", "s3cret")

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Nil(t, user)
	uow.AssertNotCalled(t, "Commit")
}

func TestUserService_Register_MissingCredentials(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"blank username", "   ", "pw"},
		{"empty password", "alice", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			factory, _, _ := newUserServiceMocks()
			svc := NewUserService(factory)

			_, err := svc.Register(ctx, tc.username, tc.password)

			assert.ErrorIs(t, err, ErrInvalidCredentials)
			factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByUsername", ctx, "alice").Return(&models.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: hashOf(t, "s3cret"),
	}, nil)

	user, err := svc.Authenticate(ctx, "alice", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByUsername", ctx, "alice").Return(&models.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: hashOf(t, "s3cret"),
	}, nil)

	user, err := svc.Authenticate(ctx, "alice", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestUserService_Authenticate_UnknownUser(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByUsername", ctx, "nobody").Return(nil, nil)

	user, err := svc.Authenticate(ctx, "nobody", "pw")

	// Unknown username fails the same way as a wrong password
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit").Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByIDForUpdate", ctx, int64(1)).Return(&models.User{
		ID:           1,
		Username:     "alice",
		PasswordHash: hashOf(t, "old-pw"),
	}, nil)

	users.On("UpdatePasswordHash", ctx, int64(1), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-pw")) == nil
	})).Return(nil)

	err := svc.ChangePassword(ctx, 1, "old-pw", "new-pw")

	require.NoError(t, err)
	uow.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestUserService_ChangePassword_WrongOldPassword(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByIDForUpdate", ctx, int64(1)).Return(&models.User{
		ID:           1,
		PasswordHash: hashOf(t, "old-pw"),
	}, nil)

	err := svc.ChangePassword(ctx, 1, "wrong", "new-pw")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	uow.AssertNotCalled(t, "Commit")
	users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ChangePassword_UnknownUser(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByIDForUpdate", ctx, int64(99)).Return(nil, nil)

	err := svc.ChangePassword(ctx, 99, "old", "new")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Username: "alice"}, nil)

	user, err := svc.GetUser(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	factory, uow, users := newUserServiceMocks()
	svc := NewUserService(factory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback").Return(nil)

	users.On("GetByID", ctx, int64(42)).Return(nil, nil)

	user, err := svc.GetUser(ctx, 42)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, user)
}
